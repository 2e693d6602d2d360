// Package webview hosts web containers over WebSocket and plugs them into a
// pubsub registry.
//
// Each accepted connection becomes a Conn. Text frames it sends are decoded as
// pubsub requests, and messages published on its channels come back as
// callback frames:
//
//	{"type":"callback","callback":"onChat","data":{"text":"hi"}}
//
// When the socket closes the Conn is released and its receiver is dropped
// from the registry right away, so no delivery is attempted on a dead socket.
//
// Usage:
//
//	registry := pubsub.NewRegistry[webview.Conn](pubsub.WithLogger(log))
//	handler := webview.NewHandlerFromConfig(registry, cfg.WebView, webview.WithLogger(log))
//	mux.Handle("/ws", handler)
package webview
