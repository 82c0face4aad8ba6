package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/config"
	"github.com/mrsingh-rishi/voice-doc/model"
)

//go:generate mockgen -destination=../mocks/mock_llm.go -package=mocks github.com/mrsingh-rishi/voice-doc/llm Provider

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultTextPrompt is used by GenerateText callers that send no prompt.
const DefaultTextPrompt = "Explain how AI works in a few words"

// Provider generates free text and bilingual applications.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string) (*model.TextResult, error)
	GenerateApplication(ctx context.Context, transcript, name string) (*model.Application, error)
}

// NewProvider builds the provider selected by cfg.LLM.Provider.
func NewProvider(ctx context.Context, cfg *config.Config, httpClient *http.Client) (Provider, error) {
	switch cfg.LLM.Provider {
	case ProviderGemini:
		return NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, httpClient)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, httpClient), nil
	}
	return nil, errors.Errorf("unsupported llm provider: %s", cfg.LLM.Provider)
}

// parseApplication decodes the {english, odia} JSON answer. Models sometimes
// wrap JSON in a markdown fence even when asked not to.
func parseApplication(text string) (*model.Application, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var app model.Application
	if err := json.Unmarshal([]byte(text), &app); err != nil {
		return nil, errors.Wrapf(err, "parsing application JSON (%s)", text)
	}
	if app.English == "" && app.Odia == "" {
		return nil, errors.New("application JSON has no content")
	}
	return &app, nil
}
