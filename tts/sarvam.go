package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-audio/wav"
	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/audio"
	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
)

//go:generate mockgen -destination=../mocks/mock_tts.go -package=mocks github.com/mrsingh-rishi/voice-doc/tts Synthesizer

// Synthesizer turns text into a staged audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, req model.SpeechRequest) (*model.Speech, error)
}

// ErrEmptyText is returned before any network call when there is nothing to speak.
var ErrEmptyText = errors.New("text is required and must be a string")

const (
	DefaultBaseURL      = "https://api.sarvam.ai"
	DefaultSpeaker      = "manisha"
	DefaultLanguageCode = "od-IN"
)

type SarvamClient struct {
	APIKey       string
	BaseURL      string
	Speaker      string
	LanguageCode string
	store        *audio.Store
	httpClient   *http.Client
}

type sarvamRequest struct {
	Text               string `json:"text"`
	TargetLanguageCode string `json:"target_language_code"`
	Speaker            string `json:"speaker"`
}

type sarvamResponse struct {
	RequestID string   `json:"request_id"`
	Audios    []string `json:"audios"`
}

func NewSarvamClient(apiKey, baseURL, speaker, languageCode string, store *audio.Store, httpClient *http.Client) *SarvamClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if speaker == "" {
		speaker = DefaultSpeaker
	}
	if languageCode == "" {
		languageCode = DefaultLanguageCode
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SarvamClient{
		APIKey:       apiKey,
		BaseURL:      strings.TrimSuffix(baseURL, "/"),
		Speaker:      speaker,
		LanguageCode: languageCode,
		store:        store,
		httpClient:   httpClient,
	}
}

// Synthesize requests speech for req.Text, decodes the first returned audio
// and stages it as a wav output file. Empty speaker or language use the
// client defaults.
func (c *SarvamClient) Synthesize(ctx context.Context, req model.SpeechRequest) (*model.Speech, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	if req.Speaker == "" {
		req.Speaker = c.Speaker
	}
	if req.LanguageCode == "" {
		req.LanguageCode = c.LanguageCode
	}

	payload, err := json.Marshal(sarvamRequest{
		Text:               req.Text,
		TargetLanguageCode: req.LanguageCode,
		Speaker:            req.Speaker,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/text-to-speech", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("api-subscription-key", c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewVendorError("sarvam", resp.StatusCode, body)
	}

	var result sarvamResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	if len(result.Audios) == 0 {
		return nil, errors.New("sarvam returned no audio")
	}

	data, err := base64.StdEncoding.DecodeString(result.Audios[0])
	if err != nil {
		return nil, errors.Wrap(err, "decode audio")
	}

	fileName, path, err := c.store.SaveOutput(data, ".wav")
	if err != nil {
		return nil, err
	}

	return &model.Speech{
		RequestID:       result.RequestID,
		AudioPath:       path,
		AudioFileName:   fileName,
		AudioURL:        c.store.URL(fileName),
		DurationSeconds: wavDuration(data),
	}, nil
}

// wavDuration reads the length from the wav header, 0 when it cannot.
func wavDuration(data []byte) float64 {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		logger.Warn("synthesized audio is not a valid wav file")
		return 0
	}
	d, err := dec.Duration()
	if err != nil {
		logger.Warnf("read wav duration: %v", err)
		return 0
	}
	return d.Seconds()
}
