package hub

import (
	"github.com/dmitrymomot/webpubsub/core/pubsub"
	"github.com/dmitrymomot/webpubsub/core/server"
	"github.com/dmitrymomot/webpubsub/core/webview"
)

// Config aggregates the settings of every hub component.
type Config struct {
	Server  server.Config
	PubSub  pubsub.Config
	WebView webview.Config

	AppName  string `env:"APP_NAME" envDefault:"pubsubd"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"` // overrides the APP_ENV level when set
	WSPath   string `env:"WS_PATH" envDefault:"/ws"`
}

func (c Config) production() bool {
	return c.Env == "production"
}
