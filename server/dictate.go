package server

import (
	"github.com/gofiber/websocket/v2"

	"github.com/mrsingh-rishi/voice-doc/dictation"
	"github.com/mrsingh-rishi/voice-doc/logger"
)

func (h *handlers) dictate(conn *websocket.Conn) {
	// Oversized frames fail in ReadMessage before they are buffered.
	if h.bodyLimit > 0 {
		conn.SetReadLimit(int64(h.bodyLimit))
	}
	session := dictation.NewSession(h.ctx, conn, h.svc, h.bodyLimit)
	h.sessions.Add(session)
	defer h.sessions.Remove(session.ID)

	logger.Infof("dictation %s connected from %s", session.ID, conn.RemoteAddr())
	session.Run()
}
