package ws

import (
	"campus-live/domain"
	"campus-live/errors"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Options carries the transport timeouts and buffer sizes.
type Options struct {
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// Client is one connected endpoint: a websocket plus a buffered outbound
// channel. The read pump dispatches inbound control messages in arrival
// order; the write pump owns all writes to the socket.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan domain.Outbound
	opts Options
	log  *slog.Logger

	closeOnce sync.Once
	onClose   func()
}

// NewClient wires a freshly upgraded connection. onClose fires exactly
// once, no matter how many times the transport signals closure.
func NewClient(id string, conn *websocket.Conn, opts Options, log *slog.Logger, onClose func()) *Client {
	return &Client{
		ID:      id,
		conn:    conn,
		send:    make(chan domain.Outbound, opts.SendBuffer),
		opts:    opts,
		log:     log,
		onClose: onClose,
	}
}

// Deliver enqueues one outbound frame without ever blocking on the peer.
// A full buffer fails only this delivery.
func (c *Client) Deliver(msg domain.Outbound) error {
	select {
	case c.send <- msg:
		return nil
	default:
		return errors.ErrSlowConsumer
	}
}

// ReadPump decodes inbound frames and hands them to the handler one at a
// time, preserving the sender's ordering. Any read error, including a
// normal close, tears the connection down exactly once.
func (c *Client) ReadPump(handle func(c *Client, raw []byte)) {
	defer c.close()

	c.conn.SetReadLimit(c.opts.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("Read failed", "conn_id", c.ID, "error", err)
			}
			return
		}
		handle(c, raw)
	}
}

// WritePump drains the outbound channel into the socket and keeps the
// connection alive with pings. A write error ends the pump; the read pump
// notices the dead socket and runs the teardown.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			data, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("Outbound marshal failed", "conn_id", c.ID, "type", msg.Type, "error", err)
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		if c.onClose != nil {
			c.onClose()
		}
	})
}
