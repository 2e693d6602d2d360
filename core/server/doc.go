// Package server wraps http.Server with option-based configuration and
// graceful shutdown that fits an errgroup.
//
// Basic usage:
//
//	srv := server.New(":8080", server.WithLogger(log))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	if err := g.Wait(); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// From the environment:
//
//	var cfg server.Config
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// Only ReadHeaderTimeout is set by default. Body read and write timeouts would
// also apply to the handshake of long-lived WebSocket connections, so they are
// opt-in through SERVER_READ_TIMEOUT and SERVER_WRITE_TIMEOUT.
//
// Shutdown waits for in-flight HTTP requests. Hijacked connections are not
// tracked by net/http; their handlers observe the peer closing instead.
package server
