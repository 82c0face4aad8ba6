package model

import "encoding/json"

// Envelope is the JSON wrapper returned by every backend call.
// Data is set only on success and Error only on failure; use OK and Fail
// instead of building it by hand.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK builds a success envelope.
func OK(message string, data any) Envelope {
	if data == nil {
		data = map[string]any{}
	}
	return Envelope{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope. An empty errMsg falls back to the message
// so the error field is never missing on failure.
func Fail(message string, errMsg string) Envelope {
	if errMsg == "" {
		errMsg = message
	}
	return Envelope{Success: false, Message: message, Error: errMsg}
}

// TextResult is a free-form generation.
type TextResult struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// Application is the bilingual application letter, each version Markdown.
type Application struct {
	English string `json:"english"`
	Odia    string `json:"odia"`
}

// Transcription represents text produced by the speech-to-text vendor.
// Timestamps and DiarizedTranscript are passed through as the vendor sent them.
type Transcription struct {
	RequestID          string          `json:"request_id,omitempty"`
	Transcript         string          `json:"transcript"`
	LanguageCode       string          `json:"language_code,omitempty"`
	Timestamps         json.RawMessage `json:"timestamps,omitempty"`
	DiarizedTranscript json.RawMessage `json:"diarized_transcript,omitempty"`
}

type SpeechRequest struct {
	Text         string `json:"text"`
	Speaker      string `json:"speaker,omitempty"`
	LanguageCode string `json:"languageCode,omitempty"`
}

// Speech describes a synthesized audio file staged for download.
type Speech struct {
	RequestID       string  `json:"request_id,omitempty"`
	AudioPath       string  `json:"audioPath"`
	AudioFileName   string  `json:"audioFileName"`
	AudioURL        string  `json:"audioUrl"`
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// DictationResult is the outcome of the audio -> transcript -> application chain.
type DictationResult struct {
	Transcript  string       `json:"transcript"`
	Application *Application `json:"application"`
}
