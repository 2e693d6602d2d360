// Package config loads typed configuration from environment variables.
//
// A .env file in the working directory is read once, on first use, and never
// overrides variables that are already set. Fields are parsed with
// caarlos0/env, so struct tags drive names, defaults and required values:
//
//	type AppConfig struct {
//		Server  server.Config
//		PubSub  pubsub.Config
//		WebView webview.Config
//		AppName string `env:"APP_NAME" envDefault:"pubsubd"`
//	}
//
//	var cfg AppConfig
//	config.MustLoad(&cfg)
//
// Each type is parsed once per process. Later calls for the same type return
// the cached value even if the environment has changed since.
package config
