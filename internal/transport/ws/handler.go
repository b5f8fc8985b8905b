package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"quizrally/internal/game"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades WebSocket connections and binds them to room actors.
type Handler struct {
	rooms *game.Manager
	log   zerolog.Logger
}

// NewHandler creates a new WebSocket handler.
func NewHandler(rooms *game.Manager, log zerolog.Logger) *Handler {
	return &Handler{rooms: rooms, log: log}
}

// HostWS handles GET /v1/ws/rooms/{code}/host?secret=...
//
// The host secret is checked before the upgrade so a bad secret gets a
// plain 403 instead of a dropped socket.
func (h *Handler) HostWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	room, err := h.rooms.Room(r.Context(), code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	if !room.AuthorizeHost(r.Context(), r.URL.Query().Get("secret")) {
		http.Error(w, "invalid host secret", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	tag := "h_" + uuid.New().String()[:8]
	conn := newConn(tag, wsConn, room, h.log)
	if !room.Attach(tag, true, conn) {
		conn.Close("room closed")
		return
	}
	h.log.Info().Str("room", code).Str("tag", tag).Msg("host connected")
	conn.run()
}

// PlayerWS handles GET /v1/ws/rooms/{code}/player
//
// Anyone who knows the join code may connect; admission happens in-band via
// player:join.
func (h *Handler) PlayerWS(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	room, err := h.rooms.Room(r.Context(), code)
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	tag := "p_" + uuid.New().String()[:8]
	conn := newConn(tag, wsConn, room, h.log)
	if !room.Attach(tag, false, conn) {
		conn.Close("room closed")
		return
	}
	h.log.Debug().Str("room", code).Str("tag", tag).Msg("player connected")
	conn.run()
}
