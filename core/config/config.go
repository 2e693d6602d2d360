package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrNilDestination is returned when Load is given a nil pointer.
var ErrNilDestination = errors.New("config: destination is nil")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any (T)
	loadMu     sync.Mutex
)

// Load fills dst from the environment. The first call for a type parses the
// environment; later calls copy the cached value.
func Load[T any](dst *T) error {
	if dst == nil {
		return ErrNilDestination
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside local development.
		_ = godotenv.Load()
	})

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*dst = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(key); ok {
		*dst = cached.(T)
		return nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", key, err)
	}

	cache.Store(key, cfg)
	*dst = cfg
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}
