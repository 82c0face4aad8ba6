package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins())
	assert.Equal(t, 25*1024*1024, cfg.Server.BodyLimit())
	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
	assert.Equal(t, "saarika:v2.5", cfg.Sarvam.STTModel)
	assert.Equal(t, "od-IN", cfg.Sarvam.LanguageCode)
	assert.Equal(t, "manisha", cfg.Sarvam.Speaker)
	assert.Equal(t, 10, cfg.LLM.MinTranscriptLength)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGINS", "https://docs.example.in, http://localhost:3000/")
	t.Setenv("SARVAM_API_KEY", "sarvam-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("HTTP_TIMEOUT", "15s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Server.Address())
	assert.Equal(t, []string{"https://docs.example.in", "http://localhost:3000"}, cfg.Server.AllowedOrigins())
	assert.Equal(t, "sarvam-key", cfg.Sarvam.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
llm:
  provider: openai
openai:
  model: gpt-4.1-mini
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, "https://api.sarvam.ai", cfg.Sarvam.BaseURL)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("config.toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "gemini complete",
			cfg: Config{
				LLM:    LLMConfig{Provider: "gemini"},
				Gemini: GeminiConfig{APIKey: "g"},
				Sarvam: SarvamConfig{APIKey: "s"},
			},
		},
		{
			name: "openai complete",
			cfg: Config{
				LLM:    LLMConfig{Provider: "openai"},
				OpenAI: OpenAIConfig{APIKey: "o"},
				Sarvam: SarvamConfig{APIKey: "s"},
			},
		},
		{
			name: "missing gemini key",
			cfg: Config{
				LLM:    LLMConfig{Provider: "gemini"},
				Sarvam: SarvamConfig{APIKey: "s"},
			},
			wantErr: true,
		},
		{
			name: "missing sarvam key",
			cfg: Config{
				LLM:    LLMConfig{Provider: "gemini"},
				Gemini: GeminiConfig{APIKey: "g"},
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			cfg: Config{
				LLM:    LLMConfig{Provider: "claude"},
				Sarvam: SarvamConfig{APIKey: "s"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadWrapsFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
	assert.NotEqual(t, err, errors.Cause(err))
}
