package dictation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/mrsingh-rishi/voice-doc/logger"
	"github.com/mrsingh-rishi/voice-doc/model"
	"github.com/mrsingh-rishi/voice-doc/queue"
	"github.com/mrsingh-rishi/voice-doc/service"
)

const (
	MsgTranscribed    = "Audio transcribed successfully."
	MsgGenerated      = "Application generated successfully."
	MsgNoAudio        = "No audio received."
	MsgTooLarge       = "Audio exceeds the size limit."
	MsgTranscribeFail = "Something went wrong!"
	MsgGenerateFail   = "Something went wrong! Please try again later."
	MsgUnclear        = "Transcript is too short or unclear."

	closeWait = time.Second
)

// Conn is the part of a websocket connection a session needs.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Pipeline turns staged audio into a transcript and a transcript into an
// application. *service.DocumentService implements it.
type Pipeline interface {
	Transcribe(ctx context.Context, requestID string, src io.Reader, ext string) (*model.Transcription, error)
	GenerateApplication(ctx context.Context, transcript, name string) (*model.Application, error)
}

// Session buffers one dictation's audio until the client sends stop, then runs
// the pipeline once and reports the result.
type Session struct {
	ID string

	conn     Conn
	pipeline Pipeline
	chunks   *queue.Queue[[]byte]
	size     int
	limit    int
	name     string
	format   string

	ctx       context.Context
	cancel    context.CancelFunc
	writeMu   sync.Mutex
	closeOnce sync.Once
}

// NewSession creates a session that accepts at most limit bytes of audio.
// Vendor calls are cancelled when parent is done or the session closes.
func NewSession(parent context.Context, conn Conn, pipeline Pipeline, limit int) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:       uuid.NewString(),
		conn:     conn,
		pipeline: pipeline,
		chunks:   queue.New[[]byte](),
		limit:    limit,
		format:   "webm",
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Run reads frames until the client stops, disconnects or the session is
// closed. It always closes the session before returning.
func (s *Session) Run() {
	defer s.Close()

	for {
		msgType, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || s.ctx.Err() != nil {
				logger.Debugf("dictation %s closed: %v", s.ID, err)
			} else {
				logger.Warnf("dictation %s read error: %v", s.ID, err)
			}
			return
		}

		if msgType == websocket.BinaryMessage {
			if !s.buffer(msg) {
				s.send(newEvent(EventError, model.Fail(MsgTooLarge, "")))
				return
			}
			continue
		}

		var ev ClientEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			logger.Warnf("dictation %s: bad event: %v", s.ID, err)
			continue
		}

		switch ev.Event {
		case EventStart:
			s.name = ev.Name
			if ev.Format != "" {
				s.format = ev.Format
			}
			logger.Infof("dictation %s started: format=%s", s.ID, s.format)
		case EventStop:
			s.finish()
			return
		default:
			logger.Warnf("dictation %s: unknown event: %s", s.ID, ev.Event)
		}
	}
}

func (s *Session) buffer(chunk []byte) bool {
	if s.limit > 0 && s.size+len(chunk) > s.limit {
		return false
	}
	s.size += len(chunk)
	s.chunks.Enqueue(chunk)
	return true
}

// finish runs transcription then generation and reports each step.
func (s *Session) finish() {
	chunks := s.chunks.Drain()
	if len(chunks) == 0 {
		s.send(newEvent(EventError, model.Fail(MsgNoAudio, "")))
		return
	}
	audio := bytes.NewReader(bytes.Join(chunks, nil))
	logger.Infof("dictation %s stopped: %d chunks, %d bytes", s.ID, len(chunks), s.size)

	transcription, err := s.pipeline.Transcribe(s.ctx, s.ID, audio, s.format)
	if err != nil {
		logger.Errorf("dictation %s transcription failed: %v", s.ID, err)
		s.send(newEvent(EventError, model.Fail(MsgTranscribeFail, service.VendorMessage(err))))
		return
	}
	s.send(newEvent(EventTranscript, model.OK(MsgTranscribed, transcription)))

	app, err := s.pipeline.GenerateApplication(s.ctx, transcription.Transcript, s.name)
	if err != nil {
		if service.IsInputError(err) {
			s.send(newEvent(EventError, model.Fail(MsgUnclear, err.Error())))
			return
		}
		logger.Errorf("dictation %s generation failed: %v", s.ID, err)
		s.send(newEvent(EventError, model.Fail(MsgGenerateFail, service.VendorMessage(err))))
		return
	}
	s.send(newEvent(EventApplication, model.OK(MsgGenerated, app)))
}

func (s *Session) send(ev ServerEvent) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(ev); err != nil {
		logger.Warnf("dictation %s write error: %v", s.ID, err)
	}
}

// Close cancels in-flight vendor calls, sends a close frame and closes the
// connection. Safe to call more than once and from other goroutines.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		if err := s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWait)); err != nil {
			logger.Debugf("dictation %s close frame: %v", s.ID, err)
		}
		s.conn.Close()
	})
}
