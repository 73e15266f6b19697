package ws

import (
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/emandor/mocktest_service/internal/middleware"
	"github.com/emandor/mocktest_service/internal/telemetry"
)

type Event string

const (
	EventGenerationStarted   Event = "mocktest.event.started"
	EventGenerationCompleted Event = "mocktest.event.completed"
	EventGenerationFailed    Event = "mocktest.event.failed"
)

type PayloadEvent struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// Hub fans generation events out to every socket of one session.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[jsonWriter]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: map[string]map[jsonWriter]struct{}{}}
}

// Handle joins the connection to its session room until the client goes away.
// The session id comes from the session middleware that ran before the upgrade.
func (h *Hub) Handle(c *websocket.Conn) {
	sid, _ := c.Locals(middleware.SessionIDKey).(string)
	tlog := telemetry.L().With().Str("module", "ws").Str("session_id", sid).Logger()
	if sid == "" {
		tlog.Warn().Msg("ws_without_session")
		_ = c.Close()
		return
	}

	h.join(sid, c)
	tlog.Info().Msg("ws_connected")
	defer func() {
		h.leave(sid, c)
		_ = c.Close()
		tlog.Info().Msg("ws_disconnected")
	}()

	// inbound frames carry nothing; read only to notice the close
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) join(room string, w jsonWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = map[jsonWriter]struct{}{}
	}
	h.rooms[room][w] = struct{}{}
}

func (h *Hub) leave(room string, w jsonWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], w)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) HasSubscribers(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID]) > 0
}

// Notify sends one event to the session's sockets. Write failures are logged
// and otherwise ignored.
func (h *Hub) Notify(sessionID string, event Event, data any) {
	h.mu.RLock()
	conns := make([]jsonWriter, 0, len(h.rooms[sessionID]))
	for c := range h.rooms[sessionID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	pl := PayloadEvent{Event: event, Data: data}
	for _, c := range conns {
		if err := c.WriteJSON(pl); err != nil {
			log := telemetry.L().With().Str("session_id", sessionID).Str("event", string(event)).Logger()
			log.Warn().Err(err).Msg("ws_write_failed")
		}
	}
}
