package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"

	"github.com/mrsingh-rishi/voice-doc/model"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider serves any OpenAI compatible chat completions endpoint.
type OpenAIProvider struct {
	Client *openai.Client
	Model  string
}

func NewOpenAIProvider(apiKey, modelName, baseURL string, httpClient *http.Client) *OpenAIProvider {
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{
		Client: openai.NewClientWithConfig(cfg),
		Model:  modelName,
	}
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) GenerateText(ctx context.Context, prompt string) (*model.TextResult, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultTextPrompt
	}
	text, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, err
	}
	return &model.TextResult{Text: text, Model: p.Model}, nil
}

func (p *OpenAIProvider) GenerateApplication(ctx context.Context, transcript, name string) (*model.Application, error) {
	text, err := p.complete(ctx, openai.ChatCompletionRequest{
		Model: p.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: `Respond ONLY with a JSON object of the form {"english": "...", "odia": "..."}.`},
			{Role: openai.ChatMessageRoleUser, Content: BuildApplicationPrompt(transcript, name)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, err
	}
	return parseApplication(text)
}

func (p *OpenAIProvider) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := p.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &model.VendorError{Vendor: "openai", Status: apiErr.HTTPStatusCode, Message: apiErr.Message}
		}
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from openai")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty response from openai")
	}
	return text, nil
}
