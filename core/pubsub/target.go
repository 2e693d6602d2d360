package pubsub

import (
	"context"
	"encoding/json"
)

// Container is a delivery destination, typically a web view hosted by the application.
// SendCallback routes message into the handler the container registered as callback.
type Container interface {
	SendCallback(ctx context.Context, callback string, message json.RawMessage) error
}

// Releaser is implemented by containers that know when they have been torn down.
// A released container is treated the same as one that was garbage collected.
// Released is called while registry locks are held and must not call back into the registry.
type Releaser interface {
	Released() bool
}

// Identifier is implemented by containers that carry a stable identifier for logs.
type Identifier interface {
	ID() string
}

// Target constrains delivery targets to pointer types so receivers can hold
// weak references to them.
type Target[T any] interface {
	*T
	Container
}

// RemovalFunc is the capability a Receiver uses to ask its owner to drop it.
type RemovalFunc[T any, P Target[T]] func(*Receiver[T, P])
