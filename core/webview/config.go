package webview

import (
	"time"

	"github.com/dmitrymomot/webpubsub/core/pubsub"
	"github.com/dmitrymomot/webpubsub/pkg/ratelimiter"
)

// Config holds web view host settings loaded from the environment.
type Config struct {
	ReadBufferSize   int           `env:"WEBVIEW_READ_BUFFER_SIZE" envDefault:"1024"`
	WriteBufferSize  int           `env:"WEBVIEW_WRITE_BUFFER_SIZE" envDefault:"1024"`
	ReadLimit        int64         `env:"WEBVIEW_READ_LIMIT" envDefault:"65536"`
	WriteTimeout     time.Duration `env:"WEBVIEW_WRITE_TIMEOUT" envDefault:"10s"`
	HandshakeTimeout time.Duration `env:"WEBVIEW_HANDSHAKE_TIMEOUT" envDefault:"10s"`
	AllowedOrigins   []string      `env:"WEBVIEW_ALLOWED_ORIGINS" envSeparator:","`

	// Inbound frame limit per web view; disabled when RateCapacity is 0.
	RateCapacity int           `env:"WEBVIEW_RATE_CAPACITY" envDefault:"0"`
	RateRefill   int           `env:"WEBVIEW_RATE_REFILL" envDefault:"10"`
	RateInterval time.Duration `env:"WEBVIEW_RATE_INTERVAL" envDefault:"1s"`
}

// NewHandlerFromConfig creates a handler from cfg. Options passed explicitly
// are applied after the config and take precedence.
func NewHandlerFromConfig(registry *pubsub.Registry[Conn, *Conn], cfg Config, opts ...Option) *Handler {
	base := []Option{
		WithReadBufferSize(cfg.ReadBufferSize),
		WithWriteBufferSize(cfg.WriteBufferSize),
		WithReadLimit(cfg.ReadLimit),
		WithWriteTimeout(cfg.WriteTimeout),
		WithHandshakeTimeout(cfg.HandshakeTimeout),
		WithAllowedOrigins(cfg.AllowedOrigins...),
	}
	if cfg.RateCapacity > 0 {
		base = append(base, WithRateLimit(ratelimiter.Config{
			Capacity:       cfg.RateCapacity,
			RefillRate:     cfg.RateRefill,
			RefillInterval: cfg.RateInterval,
		}))
	}
	return NewHandler(registry, append(base, opts...)...)
}
