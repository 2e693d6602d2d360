package webview

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/webpubsub/core/logger"
	"github.com/dmitrymomot/webpubsub/core/plugin"
	"github.com/dmitrymomot/webpubsub/core/pubsub"
	"github.com/dmitrymomot/webpubsub/pkg/ratelimiter"
)

// Handler hosts web views over WebSocket. Every accepted connection becomes a
// Conn whose text frames are handed to the pubsub plugin.
type Handler struct {
	registry     *pubsub.Registry[Conn, *Conn]
	plugin       *plugin.Plugin[Conn, *Conn]
	upgrader     websocket.Upgrader
	readLimit    int64
	writeTimeout time.Duration
	rateLimit    *ratelimiter.Config
	rateLimitErr error
	logger       *slog.Logger

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// NewHandler creates a handler that registers web views with registry.
//
// Example:
//
//	registry := pubsub.NewRegistry[webview.Conn]()
//	mux.Handle("/ws", webview.NewHandler(registry, webview.WithAllowAnyOrigin()))
func NewHandler(registry *pubsub.Registry[Conn, *Conn], opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   DefaultBufferSize,
			WriteBufferSize:  DefaultBufferSize,
			HandshakeTimeout: DefaultHandshakeTimeout,
		},
		readLimit:    DefaultReadLimit,
		writeTimeout: DefaultWriteTimeout,
		logger:       logger.Discard(),
		conns:        make(map[*Conn]struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	h.logger = h.logger.With(logger.Component("webview"))
	if h.rateLimitErr != nil {
		h.logger.Warn("web view rate limit disabled", logger.Error(h.rateLimitErr))
	}
	h.plugin = plugin.New(registry, plugin.WithLogger(h.logger))
	return h
}

// ServeHTTP upgrades the request and serves the web view until it disconnects.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.WarnContext(r.Context(), "web view upgrade failed",
			logger.Addr(r.RemoteAddr),
			logger.Error(err))
		return
	}

	conn := newConn(ws, h.writeTimeout)
	ctx := r.Context()
	log := h.logger.With(logger.ConnID(conn.ID()), logger.Addr(r.RemoteAddr))
	log.DebugContext(ctx, "web view connected")

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()

		conn.Release()
		h.registry.Forget(context.WithoutCancel(ctx), conn)
		_ = ws.Close()
		log.DebugContext(ctx, "web view disconnected")
	}()

	ws.SetReadLimit(h.readLimit)

	var bucket *ratelimiter.Bucket
	if h.rateLimit != nil {
		// The config was validated by WithRateLimit.
		bucket, _ = ratelimiter.NewBucket(*h.rateLimit)
	}

	for {
		typ, data, err := ws.ReadMessage()
		if err != nil {
			switch {
			case errors.Is(err, websocket.ErrReadLimit):
				log.WarnContext(ctx, "web view frame exceeds read limit", logger.Error(err))
			case websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
				log.WarnContext(ctx, "web view read failed", logger.Error(err))
			}
			return
		}

		if typ != websocket.TextMessage {
			log.DebugContext(ctx, "non-text frame ignored")
			continue
		}

		if bucket != nil && !bucket.Allow() {
			log.WarnContext(ctx, "web view rate limit exceeded, frame dropped",
				logger.Count("size", len(data)))
			continue
		}

		_ = h.plugin.OnMessage(ctx, conn, data)
	}
}

// Len returns the number of connected web views.
func (h *Handler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// CloseAll sends a going-away close frame to every connected web view and
// closes its socket. Each read loop then exits and forgets its receiver.
// http.Server.Shutdown leaves hijacked connections open, so register CloseAll
// as a server shutdown hook.
func (h *Handler) CloseAll() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	if len(conns) == 0 {
		return
	}
	h.logger.Info("closing web views", logger.Count("conns", len(conns)))
	for _, c := range conns {
		c.goAway("server shutting down")
	}
}
