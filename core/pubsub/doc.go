// Package pubsub provides an in-process publish/subscribe registry that lets web
// containers exchange messages on named channels without holding references to
// each other.
//
// # Core Components
//
// Registry is the broker. It keeps one Receiver per target, compared by
// identity, in the order targets first subscribed, and routes Publish,
// Subscribe and Unsubscribe calls.
//
// Receiver holds the subscriptions of one target: a map from channel name to the
// callback token the target uses to route a delivered message to its handler.
// The receiver references its target through a weak pointer, so a registered
// container can still be garbage collected. It asks the registry to drop it
// through an injected RemovalFunc once it has no subscriptions left or its
// target is gone.
//
// Targets are pointers to types implementing Container. A container that also
// implements Releaser can report that it was torn down before the garbage
// collector notices.
//
// # Basic Usage
//
//	type Fragment struct{ /* ... */ }
//
//	func (f *Fragment) SendCallback(ctx context.Context, callback string, msg json.RawMessage) error {
//		return f.webView.Call(callback, msg)
//	}
//
//	registry := pubsub.NewRegistry[Fragment](pubsub.WithLogger(log))
//
//	registry.Subscribe(ctx, chatFragment, "chat", "onChatMessage")
//	registry.Subscribe(ctx, feedFragment, "chat", "handleChat")
//
//	// Both fragments receive the message through their own callbacks.
//	registry.Publish(ctx, "chat", json.RawMessage(`{"text":"hi"}`))
//
//	// The chat fragment had a single subscription, so its receiver is dropped.
//	registry.Unsubscribe(ctx, chatFragment, "chat")
//
// # Delivery Semantics
//
// Publish takes a snapshot of the receivers subscribed to the channel and
// delivers to each exactly once, in subscription order. Nothing is returned to
// the publisher:
//
//   - a receiver that lost its subscription between snapshot and delivery logs
//     a stale delivery warning and skips the message;
//   - a receiver whose target is gone logs a warning and is removed;
//   - an error returned by SendCallback is logged and not retried.
//
// Subscribing twice to the same channel replaces the callback. Unsubscribing
// from an unknown channel or target is a no-op. The empty string is a valid
// channel name; there is no wildcard matching.
//
// # Reclaiming Receivers
//
// Receivers are removed when their last channel is unsubscribed, when a
// delivery finds the target gone, when the host calls Forget, or when Prune
// runs. Prune can run periodically in the background:
//
//	registry := pubsub.NewRegistry[Fragment](pubsub.WithSweepInterval(time.Minute))
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(registry.Run(ctx))
//
// # Thread Safety
//
// All methods are safe for concurrent use. The registry guards its receiver
// list with a single RWMutex and each receiver guards its subscriptions with its
// own mutex. Deliveries run outside of both locks, so a container may publish
// from inside SendCallback.
package pubsub
