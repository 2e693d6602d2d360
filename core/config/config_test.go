package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webpubsub/core/config"
)

// Each test uses its own type because values are cached per type.
// t.Setenv forbids t.Parallel, so these run sequentially.

type defaultsConfig struct {
	Name     string        `env:"CONFIG_TEST_DEFAULTS_NAME" envDefault:"pubsubd"`
	Interval time.Duration `env:"CONFIG_TEST_DEFAULTS_INTERVAL" envDefault:"1m"`
}

func TestLoadDefaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "pubsubd", cfg.Name)
	assert.Equal(t, time.Minute, cfg.Interval)
}

type envConfig struct {
	Origins []string `env:"CONFIG_TEST_ENV_ORIGINS" envSeparator:","`
	Limit   int64    `env:"CONFIG_TEST_ENV_LIMIT" envDefault:"10"`
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CONFIG_TEST_ENV_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CONFIG_TEST_ENV_LIMIT", "42")

	var cfg envConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins)
	assert.Equal(t, int64(42), cfg.Limit)
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED_VALUE"`
}

func TestLoadCachesPerType(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED_VALUE", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CONFIG_TEST_CACHED_VALUE", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))

	assert.Equal(t, "first", second.Value)
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED_SECRET,required"`
}

func TestLoadRequiredMissing(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONFIG_TEST_REQUIRED_SECRET")

	assert.Panics(t, func() { config.MustLoad(&requiredConfig{}) })
}

func TestLoadNilDestination(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilDestination)
}
