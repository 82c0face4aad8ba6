package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewVendorErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nested error message", `{"error":{"message":"Invalid API key","code":"invalid_api_key"}}`, "Invalid API key"},
		{"top level message", `{"message":"Rate limit exceeded"}`, "Rate limit exceeded"},
		{"string error", `{"error":"bad audio"}`, "bad audio"},
		{"plain text", "upstream timeout\n", "upstream timeout"},
		{"empty", "", "empty response body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewVendorError("sarvam", 400, []byte(tt.body))
			assert.Equal(t, tt.want, err.Message)
			assert.Equal(t, 400, err.Status)
			assert.Contains(t, err.Error(), "sarvam API error 400")
		})
	}
}
