package webview

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/dmitrymomot/webpubsub/pkg/ratelimiter"
)

const (
	DefaultBufferSize       = 1024
	DefaultReadLimit        = 64 << 10
	DefaultWriteTimeout     = 10 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

// Option configures a Handler.
type Option func(*Handler)

func WithReadBufferSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.upgrader.ReadBufferSize = size
		}
	}
}

func WithWriteBufferSize(size int) Option {
	return func(h *Handler) {
		if size > 0 {
			h.upgrader.WriteBufferSize = size
		}
	}
}

func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.upgrader.HandshakeTimeout = timeout
		}
	}
}

// WithOriginCheck replaces the same-origin check performed during the upgrade.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(h *Handler) {
		h.upgrader.CheckOrigin = fn
	}
}

func WithAllowAnyOrigin() Option {
	return WithOriginCheck(func(*http.Request) bool { return true })
}

// WithAllowedOrigins accepts requests without an Origin header and those whose
// Origin matches one of origins, ignoring case. A "*" entry allows any origin.
// An empty list keeps the same-origin check.
func WithAllowedOrigins(origins ...string) Option {
	if len(origins) == 0 {
		return func(*Handler) {}
	}
	if slices.Contains(origins, "*") {
		return WithAllowAnyOrigin()
	}

	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, strings.ToLower(strings.TrimSuffix(o, "/")))
		}
	}

	return WithOriginCheck(func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.Contains(allowed, strings.ToLower(origin))
	})
}

// WithReadLimit caps the size of an inbound frame in bytes.
func WithReadLimit(limit int64) Option {
	return func(h *Handler) {
		if limit > 0 {
			h.readLimit = limit
		}
	}
}

// WithWriteTimeout bounds every callback frame write.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.writeTimeout = timeout
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRateLimit limits inbound frames per web view. Frames over the limit are
// dropped. An invalid config leaves frames unlimited and is logged once.
func WithRateLimit(cfg ratelimiter.Config) Option {
	return func(h *Handler) {
		if err := cfg.Validate(); err != nil {
			h.rateLimit = nil
			h.rateLimitErr = err
			return
		}
		h.rateLimit = &cfg
		h.rateLimitErr = nil
	}
}
