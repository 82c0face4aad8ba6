package service

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/mrsingh-rishi/voice-doc/audio"
	"github.com/mrsingh-rishi/voice-doc/llm"
	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/stt"
	"github.com/mrsingh-rishi/voice-doc/tts"
)

const DefaultMinTranscriptLength = 10

// ErrStaging hides local filesystem failures from callers.
var ErrStaging = errors.New("could not store the uploaded audio")

// InputError marks a request the caller has to fix; handlers answer 400.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var inputErr *InputError
	return errors.As(err, &inputErr)
}

type Options struct {
	MinTranscriptLength int
}

// DocumentService runs the vendor chains behind every entry point. Each
// method makes at most two sequential vendor calls.
type DocumentService struct {
	provider    llm.Provider
	transcriber stt.Transcriber
	synthesizer tts.Synthesizer
	store       *audio.Store
	minLength   int
}

func NewDocumentService(provider llm.Provider, transcriber stt.Transcriber, synthesizer tts.Synthesizer, store *audio.Store, opts Options) *DocumentService {
	if opts.MinTranscriptLength <= 0 {
		opts.MinTranscriptLength = DefaultMinTranscriptLength
	}
	return &DocumentService{
		provider:    provider,
		transcriber: transcriber,
		synthesizer: synthesizer,
		store:       store,
		minLength:   opts.MinTranscriptLength,
	}
}

func (s *DocumentService) ProviderName() string {
	return s.provider.Name()
}

func (s *DocumentService) GenerateText(ctx context.Context, prompt string) (*model.TextResult, error) {
	result, err := s.provider.GenerateText(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "generate text")
	}
	return result, nil
}

// GenerateApplication rejects transcripts shorter than the configured minimum
// before calling the model, and rejects answers where the model reports the
// input as unclear.
func (s *DocumentService) GenerateApplication(ctx context.Context, transcript, name string) (*model.Application, error) {
	transcript = strings.TrimSpace(transcript)
	if utf8.RuneCountInString(transcript) < s.minLength {
		return nil, &InputError{Message: llm.UnclearInputReply}
	}

	app, err := s.provider.GenerateApplication(ctx, transcript, name)
	if err != nil {
		return nil, errors.Wrap(err, "generate application")
	}
	if llm.IsUnclearReply(app.English) || llm.IsUnclearReply(app.Odia) {
		logger.Infof("model reported unclear input, transcript chars=%d", utf8.RuneCountInString(transcript))
		return nil, &InputError{Message: llm.UnclearInputReply}
	}
	return app, nil
}

// Transcribe stages src under the request id, transcribes it and removes the
// staged file whatever the outcome.
func (s *DocumentService) Transcribe(ctx context.Context, requestID string, src io.Reader, ext string) (*model.Transcription, error) {
	path, err := s.store.SaveUpload(requestID, src, ext)
	if err != nil {
		logger.Errorf("stage audio for request %s: %v", requestID, err)
		return nil, ErrStaging
	}
	defer s.store.Remove(path)

	result, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "transcribe audio")
	}
	return result, nil
}

// TranscribeAndGenerate is the audio -> transcript -> application chain.
func (s *DocumentService) TranscribeAndGenerate(ctx context.Context, requestID string, src io.Reader, ext, name string) (*model.DictationResult, error) {
	transcription, err := s.Transcribe(ctx, requestID, src, ext)
	if err != nil {
		return nil, err
	}
	app, err := s.GenerateApplication(ctx, transcription.Transcript, name)
	if err != nil {
		return nil, err
	}
	return &model.DictationResult{Transcript: transcription.Transcript, Application: app}, nil
}

func (s *DocumentService) Speak(ctx context.Context, req model.SpeechRequest) (*model.Speech, error) {
	speech, err := s.synthesizer.Synthesize(ctx, req)
	if err != nil {
		if errors.Is(err, tts.ErrEmptyText) {
			return nil, &InputError{Message: err.Error()}
		}
		return nil, errors.Wrap(err, "synthesize speech")
	}
	return speech, nil
}

// VendorMessage is the message to surface for err: the vendor's own message
// when there is one, otherwise the innermost error text.
func VendorMessage(err error) string {
	var vendorErr *model.VendorError
	if errors.As(err, &vendorErr) {
		return vendorErr.Message
	}
	return errors.Cause(err).Error()
}
