package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueFIFO(t *testing.T) {
	q := New[int]()
	assert.True(t, q.IsEmpty())

	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	v, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []int{2, 3}, q.Drain())
	assert.True(t, q.IsEmpty())

	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestQueueConcurrentEnqueue(t *testing.T) {
	q := New[[]byte]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Enqueue([]byte{0x1})
		}()
	}
	wg.Wait()
	assert.Len(t, q.Drain(), 50)
}
