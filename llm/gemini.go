package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
)

const DefaultGeminiModel = "gemini-2.5-flash"

var applicationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"english": {Type: genai.TypeString},
		"odia":    {Type: genai.TypeString},
	},
	PropertyOrdering: []string{"english", "odia"},
	Required:         []string{"english", "odia"},
}

type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider talks to the Gemini API backend. baseURL is only set to
// point the client at a proxy or a test server.
func NewGeminiProvider(ctx context.Context, apiKey, modelName, baseURL string, httpClient *http.Client) (*GeminiProvider, error) {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &GeminiProvider{client: client, model: modelName}, nil
}

func (p *GeminiProvider) Name() string {
	return ProviderGemini
}

func (p *GeminiProvider) GenerateText(ctx context.Context, prompt string) (*model.TextResult, error) {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultTextPrompt
	}
	text, err := p.generate(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	return &model.TextResult{Text: text, Model: p.model}, nil
}

func (p *GeminiProvider) GenerateApplication(ctx context.Context, transcript, name string) (*model.Application, error) {
	text, err := p.generate(ctx, BuildApplicationPrompt(transcript, name), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   applicationSchema,
	})
	if err != nil {
		return nil, err
	}
	return parseApplication(text)
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			logger.Errorf("gemini generateContent failed: %d %s", apiErr.Code, apiErr.Message)
			return "", &model.VendorError{Vendor: "gemini", Status: apiErr.Code, Message: apiErr.Message}
		}
		return "", errors.Wrap(err, "gemini generateContent")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}
