// Package plugin connects web containers to a pubsub registry.
//
// A host forwards every raw request a container sends to OnMessage. The
// request is decoded with the protocol package and mapped onto Publish,
// Subscribe or Unsubscribe for that container:
//
//	registry := pubsub.NewRegistry[webview.Conn]()
//	p := plugin.New(registry, plugin.WithLogger(log))
//
//	// inside the host's read loop
//	_ = p.OnMessage(ctx, conn, frame)
//
// Malformed requests never reach the registry. They are logged at warn level
// and dropped.
package plugin
