package pubsub

import "time"

// Config holds registry configuration with environment variable support.
type Config struct {
	SweepInterval   time.Duration `env:"PUBSUB_SWEEP_INTERVAL" envDefault:"1m"`
	ShutdownTimeout time.Duration `env:"PUBSUB_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewRegistryFromConfig creates a Registry from configuration.
// Additional options override config values.
func NewRegistryFromConfig[T any, P Target[T]](cfg Config, opts ...Option) *Registry[T, P] {
	configOpts := make([]Option, 0, len(opts)+2)

	if cfg.SweepInterval > 0 {
		configOpts = append(configOpts, WithSweepInterval(cfg.SweepInterval))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	configOpts = append(configOpts, opts...)

	return NewRegistry[T, P](configOpts...)
}
