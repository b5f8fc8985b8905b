package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"quizrally/internal/game"
	"quizrally/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// Inbound messages are throttled per connection: bursts up to 30, refilled
// at 3 per second. Over-limit messages are dropped without a reply.
const (
	inboundRate  = rate.Limit(3)
	inboundBurst = 30
)

// Conn adapts one WebSocket to the room actor. Outbound messages go through
// a buffered channel so the actor never blocks on a slow client; inbound
// frames are decoded, throttled and handed to the room.
type Conn struct {
	tag  string
	ws   *websocket.Conn
	room *game.Room
	log  zerolog.Logger

	send    chan []byte
	done    chan struct{}
	closing sync.Once
	limiter *rate.Limiter
}

func newConn(tag string, ws *websocket.Conn, room *game.Room, log zerolog.Logger) *Conn {
	return &Conn{
		tag:     tag,
		ws:      ws,
		room:    room,
		log:     log.With().Str("tag", tag).Logger(),
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(inboundRate, inboundBurst),
	}
}

// Send queues data for delivery. A full buffer or a closed connection drops
// the message.
func (c *Conn) Send(data []byte) error {
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.log.Warn().Msg("send buffer full, dropping message")
	}
	return nil
}

// Close shuts the connection down. Safe to call from any goroutine and more
// than once.
func (c *Conn) Close(reason string) {
	c.closing.Do(func() {
		close(c.done)
		deadline := time.Now().Add(writeWait)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, deadline)
		_ = c.ws.Close()
	})
}

// run attaches the connection to its room and pumps frames until either
// side goes away.
func (c *Conn) run() {
	go c.writePump()
	c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.room.Detach(c.tag)
		c.Close("")
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Debug().Err(err).Msg("read error")
			}
			return
		}
		if !c.limiter.Allow() {
			continue
		}
		var msg model.Message
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			continue
		}
		c.room.Deliver(c.tag, msg)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close("")
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
