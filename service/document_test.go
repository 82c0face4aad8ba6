package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrsingh-rishi/voice-doc/audio"
	"github.com/mrsingh-rishi/voice-doc/llm"
	"github.com/mrsingh-rishi/voice-doc/mocks"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/service"
	"github.com/mrsingh-rishi/voice-doc/tts"
)

type fixture struct {
	provider    *mocks.MockProvider
	transcriber *mocks.MockTranscriber
	synthesizer *mocks.MockSynthesizer
	svc         *service.DocumentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store, err := audio.NewStore(t.TempDir())
	require.NoError(t, err)

	f := &fixture{
		provider:    mocks.NewMockProvider(ctrl),
		transcriber: mocks.NewMockTranscriber(ctrl),
		synthesizer: mocks.NewMockSynthesizer(ctrl),
	}
	f.svc = service.NewDocumentService(f.provider, f.transcriber, f.synthesizer, store, service.Options{})
	return f
}

func TestGenerateApplication_ShortTranscript(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GenerateApplication(context.Background(), "  leave  ", "Ravi")
	require.Error(t, err)
	assert.True(t, service.IsInputError(err))
	assert.Equal(t, llm.UnclearInputReply, err.Error())
}

func TestGenerateApplication_UnclearReply(t *testing.T) {
	f := newFixture(t)
	f.provider.EXPECT().
		GenerateApplication(gomock.Any(), "asdf qwer zxcv", "").
		Return(&model.Application{English: llm.UnclearInputReply, Odia: llm.UnclearInputReply}, nil)

	_, err := f.svc.GenerateApplication(context.Background(), "asdf qwer zxcv", "")
	assert.True(t, service.IsInputError(err))
}

func TestGenerateApplication_VendorFailure(t *testing.T) {
	f := newFixture(t)
	f.provider.EXPECT().
		GenerateApplication(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &model.VendorError{Vendor: "gemini", Status: 503, Message: "model overloaded"})

	_, err := f.svc.GenerateApplication(context.Background(), "I need leave for three days", "Ravi")
	require.Error(t, err)
	assert.False(t, service.IsInputError(err))
	assert.Equal(t, "model overloaded", service.VendorMessage(err))
}

func TestTranscribe_RemovesStagedFile(t *testing.T) {
	f := newFixture(t)

	var stagedPath string
	f.transcriber.EXPECT().
		Transcribe(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, path string) (*model.Transcription, error) {
			stagedPath = path
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "audio-bytes", string(data))
			return &model.Transcription{Transcript: "hello"}, nil
		})

	result, err := f.svc.Transcribe(context.Background(), "req-7", strings.NewReader("audio-bytes"), ".webm")
	require.NoError(t, err)
	assert.Equal(t, "hello", result.Transcript)
	assert.True(t, strings.HasPrefix(filepath.Base(stagedPath), "req-7-"))
	assert.Equal(t, ".webm", filepath.Ext(stagedPath))

	_, err = os.Stat(stagedPath)
	assert.True(t, os.IsNotExist(err), "staged file must be removed")
}

func TestTranscribe_RemovesStagedFileOnError(t *testing.T) {
	f := newFixture(t)

	var stagedPath string
	f.transcriber.EXPECT().
		Transcribe(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, path string) (*model.Transcription, error) {
			stagedPath = path
			return nil, errors.New("connection reset")
		})

	_, err := f.svc.Transcribe(context.Background(), "req-8", strings.NewReader("x"), "")
	require.Error(t, err)
	assert.Equal(t, "connection reset", service.VendorMessage(err))

	_, statErr := os.Stat(stagedPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTranscribeAndGenerate(t *testing.T) {
	f := newFixture(t)
	app := &model.Application{English: "# Leave Application", Odia: "# ଛୁଟି ଆବେଦନ"}

	gomock.InOrder(
		f.transcriber.EXPECT().Transcribe(gomock.Any(), gomock.Any()).
			Return(&model.Transcription{Transcript: "I need two days of leave"}, nil),
		f.provider.EXPECT().GenerateApplication(gomock.Any(), "I need two days of leave", "Sita").
			Return(app, nil),
	)

	result, err := f.svc.TranscribeAndGenerate(context.Background(), "req-9", strings.NewReader("x"), ".mp3", "Sita")
	require.NoError(t, err)
	assert.Equal(t, "I need two days of leave", result.Transcript)
	assert.Equal(t, app, result.Application)
}

func TestTranscribeAndGenerate_EmptyTranscript(t *testing.T) {
	f := newFixture(t)
	f.transcriber.EXPECT().Transcribe(gomock.Any(), gomock.Any()).
		Return(&model.Transcription{Transcript: ""}, nil)

	_, err := f.svc.TranscribeAndGenerate(context.Background(), "req-10", strings.NewReader("x"), ".mp3", "")
	assert.True(t, service.IsInputError(err))
}

func TestSpeak(t *testing.T) {
	f := newFixture(t)
	req := model.SpeechRequest{Text: "ନମସ୍କାର"}
	f.synthesizer.EXPECT().Synthesize(gomock.Any(), req).
		Return(&model.Speech{AudioFileName: "tts_output_x.wav"}, nil)

	speech, err := f.svc.Speak(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "tts_output_x.wav", speech.AudioFileName)
}

func TestSpeak_EmptyText(t *testing.T) {
	f := newFixture(t)
	f.synthesizer.EXPECT().Synthesize(gomock.Any(), gomock.Any()).Return(nil, tts.ErrEmptyText)

	_, err := f.svc.Speak(context.Background(), model.SpeechRequest{})
	assert.True(t, service.IsInputError(err))
}

func TestTranscribe_StagingFailureHidesPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	root := t.TempDir()
	store, err := audio.NewStore(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(filepath.Join(root, "uploads")))

	svc := service.NewDocumentService(mocks.NewMockProvider(ctrl), mocks.NewMockTranscriber(ctrl), mocks.NewMockSynthesizer(ctrl), store, service.Options{})

	_, err = svc.Transcribe(context.Background(), "req-11", strings.NewReader("x"), ".webm")
	require.ErrorIs(t, err, service.ErrStaging)
	assert.NotContains(t, service.VendorMessage(err), root)
	assert.False(t, service.IsInputError(err))
}
