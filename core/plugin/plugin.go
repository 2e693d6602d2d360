package plugin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/webpubsub/core/logger"
	"github.com/dmitrymomot/webpubsub/core/protocol"
	"github.com/dmitrymomot/webpubsub/core/pubsub"
)

// Plugin turns requests sent by web containers into registry operations.
type Plugin[T any, P pubsub.Target[T]] struct {
	registry *pubsub.Registry[T, P]
	logger   *slog.Logger
}

// Option configures a Plugin.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for dropped requests.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New binds a plugin to registry.
func New[T any, P pubsub.Target[T]](registry *pubsub.Registry[T, P], opts ...Option) *Plugin[T, P] {
	o := options{logger: logger.Discard()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Plugin[T, P]{
		registry: registry,
		logger:   o.logger.With(logger.Component("pubsub.plugin")),
	}
}

// Registry returns the registry the plugin dispatches to.
func (p *Plugin[T, P]) Registry() *pubsub.Registry[T, P] {
	return p.registry
}

// OnMessage decodes data and dispatches it on behalf of container.
// Malformed requests are logged and dropped; the returned error is only for
// callers that want to report them back.
func (p *Plugin[T, P]) OnMessage(ctx context.Context, container P, data []byte) error {
	req, err := protocol.Decode(data)
	if err != nil {
		p.logger.WarnContext(ctx, "pubsub request dropped",
			logger.Error(err),
			logger.Count("size", len(data)),
		)
		return err
	}

	return p.Dispatch(ctx, container, req)
}

// Dispatch performs req on behalf of container.
func (p *Plugin[T, P]) Dispatch(ctx context.Context, container P, req protocol.Request) error {
	switch req.Action {
	case protocol.ActionPublish:
		p.registry.Publish(ctx, req.Channel, req.Message)
	case protocol.ActionSubscribe:
		p.registry.Subscribe(ctx, container, req.Channel, req.Callback)
	case protocol.ActionUnsubscribe:
		p.registry.Unsubscribe(ctx, container, req.Channel)
	default:
		return fmt.Errorf("%w: %s", protocol.ErrUnknownAction, req.Action)
	}

	p.logger.DebugContext(ctx, "pubsub request dispatched",
		logger.Action(req.Action.String()),
		logger.Channel(req.Channel),
	)
	return nil
}
