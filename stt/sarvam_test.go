package stt_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/stt"
)

func writeAudio(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "req-1.mp3")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSarvamClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/speech-to-text" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		assert.Equal(t, "test-key", r.Header.Get("api-subscription-key"))
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "od-IN", r.FormValue("language_code"))
		assert.Equal(t, "saarika:v2.5", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "fake mp3", string(data))
		assert.Equal(t, "req-1.mp3", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"request_id":    "sarvam-123",
			"transcript":    "ମୋର ଦୁଇ ଦିନ ଛୁଟି ଦରକାର",
			"language_code": "od-IN",
			"timestamps": map[string]any{
				"words":              []string{"ମୋର", "ଦୁଇ"},
				"start_time_seconds": []float64{0, 0.4},
				"end_time_seconds":   []float64{0.4, 0.9},
			},
			"diarized_transcript": nil,
		})
	}))
	defer server.Close()

	client := stt.NewSarvamClient("test-key", server.URL, "", "", server.Client())

	result, err := client.Transcribe(context.Background(), writeAudio(t, "fake mp3"))
	require.NoError(t, err)
	assert.Equal(t, "sarvam-123", result.RequestID)
	assert.Equal(t, "ମୋର ଦୁଇ ଦିନ ଛୁଟି ଦରକାର", result.Transcript)
	assert.Equal(t, "od-IN", result.LanguageCode)
	assert.JSONEq(t, `{"words":["ମୋର","ଦୁଇ"],"start_time_seconds":[0,0.4],"end_time_seconds":[0.4,0.9]}`, string(result.Timestamps))
	assert.Nil(t, result.DiarizedTranscript)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "diarized_transcript")
}

func TestSarvamClient_TranscribeVendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"Invalid API key","code":"invalid_api_key_error"}}`))
	}))
	defer server.Close()

	client := stt.NewSarvamClient("bad-key", server.URL, "", "", server.Client())

	_, err := client.Transcribe(context.Background(), writeAudio(t, "x"))
	require.Error(t, err)

	var vendorErr *model.VendorError
	require.ErrorAs(t, err, &vendorErr)
	assert.Equal(t, http.StatusForbidden, vendorErr.Status)
	assert.Equal(t, "Invalid API key", vendorErr.Message)
}

func TestSarvamClient_MissingFile(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := stt.NewSarvamClient("test-key", server.URL, "", "", server.Client())

	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio file not found")
	assert.False(t, called)
}

func TestSarvamClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := stt.NewSarvamClient("test-key", server.URL, "", "", server.Client())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Transcribe(ctx, writeAudio(t, "x"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
