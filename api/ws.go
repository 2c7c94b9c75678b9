package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gutenbridge/editor"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Frame types. Server → surface: request_html, media, closed.
// Surface → server: html, request_media.
const (
	msgRequestHTML  = "request_html"
	msgHTML         = "html"
	msgRequestMedia = "request_media"
	msgMedia        = "media"
	msgClosed       = "closed"
)

type wsMessage struct {
	Type    string         `json:"type"`
	ID      string         `json:"id,omitempty"`
	Data    string         `json:"data,omitempty"`
	Changed bool           `json:"changed,omitempty"`
	Media   []editor.Media `json:"media,omitempty"`
}

// wsSurface is an editor surface on the far side of a websocket.
type wsSurface struct {
	conn *websocket.Conn
	// gorilla/websocket forbids concurrent writers.
	writeMu sync.Mutex
}

func (s *wsSurface) write(msg wsMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *wsSurface) RequestHTML(requestID string) error {
	return s.write(wsMessage{Type: msgRequestHTML, ID: requestID})
}

// Invalidate tells the surface the editor is gone and hangs up.
func (s *wsSurface) Invalidate() {
	_ = s.write(wsMessage{Type: msgClosed})
	_ = s.conn.Close()
}

func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "editor not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.String("session", id), zap.Error(err))
		return
	}
	defer conn.Close()

	surface := &wsSurface{conn: conn}
	kick := s.AttachSurface(surface) // displaces any prior surface
	defer s.DetachSurface(surface)

	// Close the connection on displacement or session end so ReadJSON below
	// unblocks. On session end the coordinator has already sent "closed".
	connDone := make(chan struct{})
	go func() {
		select {
		case <-kick:
			conn.Close()
		case <-s.Done():
			conn.Close()
		case <-connDone:
		}
	}()
	defer close(connDone)

	coord := s.Coordinator()
	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			// Surface went away; the session keeps running and can be
			// reattached.
			return
		}

		switch msg.Type {
		case msgHTML:
			coord.ContentProvided(msg.Data, msg.Changed)
		case msgRequestMedia:
			coord.MediaRequested(func(media []editor.Media) error {
				if err := surface.write(wsMessage{Type: msgMedia, Media: media}); err != nil {
					h.logger.Warn("media delivery failed", zap.String("session", id), zap.Error(err))
					return err
				}
				return nil
			})
		default:
			h.logger.Debug("unknown frame", zap.String("session", id), zap.String("type", msg.Type))
		}
	}
}
