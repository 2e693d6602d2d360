package webview

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/webpubsub/core/protocol"
)

// Conn is a web view attached over a WebSocket. It is the delivery target the
// registry holds weakly.
type Conn struct {
	id           string
	ws           *websocket.Conn
	writeMu      sync.Mutex
	writeTimeout time.Duration
	released     atomic.Bool
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	return &Conn{
		id:           uuid.NewString(),
		ws:           ws,
		writeTimeout: writeTimeout,
	}
}

// ID returns the connection identifier used in logs.
func (c *Conn) ID() string {
	return c.id
}

// RemoteAddr returns the peer address.
func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// SendCallback writes a callback frame to the web view.
// The write deadline is the configured write timeout, or ctx's deadline if earlier.
func (c *Conn) SendCallback(ctx context.Context, callback string, message json.RawMessage) error {
	if c.released.Load() {
		return ErrConnReleased
	}

	frame, err := protocol.EncodeCallback(callback, message)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
		return fmt.Errorf("write callback frame: %w", err)
	}
	return nil
}

// Release marks the web view as torn down. It reports whether this call released it.
func (c *Conn) Release() bool {
	return c.released.CompareAndSwap(false, true)
}

// Released reports whether the web view has been torn down.
func (c *Conn) Released() bool {
	return c.released.Load()
}

// goAway sends a close frame and closes the socket, which ends the read loop.
func (c *Conn) goAway(reason string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, reason), deadline)
	_ = c.ws.Close()
}
