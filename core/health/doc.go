// Package health provides HTTP probes for orchestrators.
//
//	mux.Handle("GET /health/live", health.Liveness())
//	mux.Handle("GET /health/ready", health.Readiness(log, registry.Healthcheck))
//	mux.Handle("GET /ping", health.NoContent())
//
// Checks follow the func(context.Context) error shape, which the pubsub
// registry's Healthcheck already has.
package health
