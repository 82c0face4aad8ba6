package dictation

import (
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/mrsingh-rishi/voice-doc/logger"
)

// Registry tracks live sessions so shutdown can close them.
type Registry struct {
	sessions cmap.ConcurrentMap[string, *Session]
}

func NewRegistry() *Registry {
	return &Registry{sessions: cmap.New[*Session]()}
}

func (r *Registry) Add(s *Session) {
	r.sessions.Set(s.ID, s)
}

func (r *Registry) Remove(id string) {
	r.sessions.Remove(id)
}

func (r *Registry) Len() int {
	return r.sessions.Count()
}

// CloseAll closes and forgets every live session.
func (r *Registry) CloseAll() {
	for _, id := range r.sessions.Keys() {
		if s, ok := r.sessions.Pop(id); ok {
			s.Close()
		}
	}
	logger.Info("closed all dictation sessions")
}
