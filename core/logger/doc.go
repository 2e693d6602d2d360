// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from options, and the attribute helpers give the
// rest of the module consistent keys for channels, callbacks, targets and
// connections.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("pubsubd"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("message published",
//		logger.Component("pubsub"),
//		logger.Channel("chat"),
//		logger.Count("delivered", 2),
//	)
//
// Production setup writes JSON:
//
//	log := logger.New(logger.WithProduction("pubsubd"))
//
// # Nil Safety
//
// Helpers that take an error or an optional identifier return an empty
// slog.Attr for zero values, and slog drops empty attributes:
//
//	log.Warn("delivery failed", logger.Error(err), logger.ConnID(id))
//
// Discard returns a logger that writes nowhere; components use it as their
// default so they stay silent unless a logger is injected.
package logger
