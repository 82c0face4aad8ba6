package dictation

import "github.com/mrsingh-rishi/voice-doc/model"

// Client -> server events.
const (
	EventStart = "start"
	EventStop  = "stop"
)

// Server -> client events.
const (
	EventTranscript  = "transcript"
	EventApplication = "application"
	EventError       = "error"
)

// ClientEvent is a text frame sent by the browser. Audio arrives as binary frames.
type ClientEvent struct {
	Event  string `json:"event"`
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
}

// ServerEvent is an envelope tagged with the event name, so the client sees
// {"event":"transcript","success":true,"data":{...}}.
type ServerEvent struct {
	Event string `json:"event"`
	model.Envelope
}

func newEvent(event string, envelope model.Envelope) ServerEvent {
	return ServerEvent{Event: event, Envelope: envelope}
}
