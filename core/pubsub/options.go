package pubsub

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/webpubsub/core/logger"
)

// DefaultShutdownTimeout bounds how long Stop waits for an in-flight sweep.
const DefaultShutdownTimeout = 5 * time.Second

type options struct {
	logger          *slog.Logger
	sweepInterval   time.Duration
	shutdownTimeout time.Duration
}

func newOptions(opts []Option) options {
	o := options{
		logger:          logger.Discard(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Registry or a standalone Receiver.
type Option func(*options)

// WithLogger sets the logger for registry and receiver diagnostics.
// Stale deliveries and orphaned targets are reported at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSweepInterval enables the background sweeper started by Start or Run.
// The sweeper removes receivers whose targets are gone even if nothing is published.
// Zero disables sweeping.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.sweepInterval = d
		}
	}
}

// WithShutdownTimeout sets how long Stop waits for an in-flight sweep to finish.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}
