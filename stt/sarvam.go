package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
)

//go:generate mockgen -destination=../mocks/mock_stt.go -package=mocks github.com/mrsingh-rishi/voice-doc/stt Transcriber

// Transcriber turns a staged audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*model.Transcription, error)
}

const (
	DefaultBaseURL      = "https://api.sarvam.ai"
	DefaultModel        = "saarika:v2.5"
	DefaultLanguageCode = "od-IN"
)

// SarvamClient calls the Sarvam speech-to-text REST endpoint.
type SarvamClient struct {
	APIKey       string
	BaseURL      string
	Model        string
	LanguageCode string
	httpClient   *http.Client
}

type sarvamResponse struct {
	RequestID          string          `json:"request_id"`
	Transcript         string          `json:"transcript"`
	LanguageCode       string          `json:"language_code"`
	Timestamps         json.RawMessage `json:"timestamps"`
	DiarizedTranscript json.RawMessage `json:"diarized_transcript"`
}

// present drops absent or null JSON values so they are omitted downstream.
func present(raw json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}

// NewSarvamClient fills empty settings with the Sarvam defaults. A nil
// httpClient falls back to http.DefaultClient.
func NewSarvamClient(apiKey, baseURL, sttModel, languageCode string, httpClient *http.Client) *SarvamClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if sttModel == "" {
		sttModel = DefaultModel
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
		Model:        sttModel,
		LanguageCode: languageCode,
		httpClient:   httpClient,
	}
}

// Transcribe uploads the file at audioPath as multipart form data.
func (c *SarvamClient) Transcribe(ctx context.Context, audioPath string) (*model.Transcription, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Errorf("audio file not found at %s", audioPath)
		}
		return nil, errors.Wrap(err, "open audio file")
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, errors.Wrap(err, "create form file")
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, errors.Wrap(err, "write audio")
	}
	if err = writer.WriteField("language_code", c.LanguageCode); err != nil {
		return nil, errors.Wrap(err, "write language_code field")
	}
	if err = writer.WriteField("model", c.Model); err != nil {
		return nil, errors.Wrap(err, "write model field")
	}
	if err = writer.Close(); err != nil {
		return nil, errors.Wrap(err, "close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/speech-to-text", body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("api-subscription-key", c.APIKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewVendorError("sarvam", resp.StatusCode, respBody)
	}

	var result sarvamResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, "decode response")
	}
	logger.Debugf("sarvam transcript received, request_id=%s chars=%d", result.RequestID, len(result.Transcript))

	return &model.Transcription{
		RequestID:          result.RequestID,
		Transcript:         result.Transcript,
		LanguageCode:       result.LanguageCode,
		Timestamps:         present(result.Timestamps),
		DiarizedTranscript: present(result.DiarizedTranscript),
	}, nil
}
