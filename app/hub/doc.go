// Package hub assembles a pubsub registry, the WebSocket web view host, health
// probes and an HTTP server into one runnable application.
//
//	app, err := hub.NewApp()
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Configuration comes from the environment (see Config) unless WithConfig is
// supplied. Any component can be replaced through the With* options.
package hub
