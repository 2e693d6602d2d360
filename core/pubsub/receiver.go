package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"weak"

	"github.com/dmitrymomot/webpubsub/core/logger"
)

// Receiver holds the subscriptions of a single target and delivers messages to it.
// It references its target weakly and never keeps it alive.
type Receiver[T any, P Target[T]] struct {
	mu        sync.Mutex
	target    weak.Pointer[T]
	label     string
	callbacks map[string]string
	detached  bool

	onRemovable RemovalFunc[T, P]
	logger      *slog.Logger
}

// NewReceiver creates a receiver for target with no subscriptions.
// onRemovable is called when the receiver becomes empty or finds its target gone; it may be nil.
func NewReceiver[T any, P Target[T]](target P, onRemovable RemovalFunc[T, P], opts ...Option) *Receiver[T, P] {
	o := newOptions(opts)
	return newReceiver(target, onRemovable, o.logger)
}

func newReceiver[T any, P Target[T]](target P, onRemovable RemovalFunc[T, P], log *slog.Logger) *Receiver[T, P] {
	return &Receiver[T, P]{
		target:      weak.Make((*T)(target)),
		label:       targetLabel[T, P](target),
		callbacks:   make(map[string]string, 1),
		onRemovable: onRemovable,
		logger:      log,
	}
}

// Subscribe maps channel to callback. Subscribing again to the same channel
// replaces the callback. A detached receiver ignores the call.
func (r *Receiver[T, P]) Subscribe(channel, callback string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.detached {
		return
	}
	r.callbacks[channel] = callback
}

// Unsubscribe removes channel if present. When that removes the last
// subscription the receiver requests its removal.
func (r *Receiver[T, P]) Unsubscribe(channel string) {
	r.mu.Lock()
	if r.detached {
		r.mu.Unlock()
		return
	}
	_, had := r.callbacks[channel]
	delete(r.callbacks, channel)
	emptied := had && len(r.callbacks) == 0
	r.mu.Unlock()

	if emptied {
		r.requestRemoval()
	}
}

// ReceiveMessage delivers message to the target through the callback registered for channel.
// It never returns an error: a gone target triggers a removal request, a missing
// subscription is logged as stale, and target failures are logged.
func (r *Receiver[T, P]) ReceiveMessage(ctx context.Context, channel string, message json.RawMessage) Outcome {
	target, ok := r.Target()

	r.mu.Lock()
	if r.detached {
		r.mu.Unlock()
		return OutcomeDetached
	}
	callback, subscribed := r.callbacks[channel]
	r.mu.Unlock()

	if !ok {
		r.logger.WarnContext(ctx, "receiver target is gone, requesting removal",
			logger.Target(r.label),
			logger.Channel(channel))
		r.requestRemoval()
		return OutcomeOrphaned
	}

	if !subscribed {
		r.logger.WarnContext(ctx, "target is not subscribed to channel or has already unsubscribed",
			logger.Target(r.label),
			logger.Channel(channel))
		return OutcomeStale
	}

	if err := target.SendCallback(ctx, callback, message); err != nil {
		r.logger.WarnContext(ctx, "target failed to handle message",
			logger.Target(r.label),
			logger.Channel(channel),
			logger.Callback(callback),
			logger.Error(err))
		return OutcomeFailed
	}

	return OutcomeDelivered
}

// Target resolves the weak reference. It reports false when the target was
// collected, was never set, or reports itself released.
func (r *Receiver[T, P]) Target() (P, bool) {
	ptr := r.target.Value()
	if ptr == nil {
		return nil, false
	}
	target := P(ptr)
	if rel, ok := any(target).(Releaser); ok && rel.Released() {
		return nil, false
	}
	return target, true
}

// Callback returns the callback registered for channel.
func (r *Receiver[T, P]) Callback(channel string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.callbacks[channel]
	return cb, ok
}

// Subscribed reports whether the receiver has a callback for channel.
func (r *Receiver[T, P]) Subscribed(channel string) bool {
	_, ok := r.Callback(channel)
	return ok
}

// Channels returns the subscribed channel names in sorted order.
func (r *Receiver[T, P]) Channels() []string {
	r.mu.Lock()
	channels := make([]string, 0, len(r.callbacks))
	for ch := range r.callbacks {
		channels = append(channels, ch)
	}
	r.mu.Unlock()

	slices.Sort(channels)
	return channels
}

// Len returns the number of subscribed channels.
func (r *Receiver[T, P]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}

// Detached reports whether the receiver has been removed from its registry.
func (r *Receiver[T, P]) Detached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detached
}

// reclaimable reports whether the receiver is empty or its target is gone.
func (r *Receiver[T, P]) reclaimable() bool {
	if _, ok := r.Target(); !ok {
		return true
	}
	return r.Len() == 0
}

func (r *Receiver[T, P]) detach() {
	r.mu.Lock()
	r.detached = true
	r.mu.Unlock()
}

func (r *Receiver[T, P]) requestRemoval() {
	if r.onRemovable != nil {
		r.onRemovable(r)
	}
}

func targetLabel[T any, P Target[T]](target P) string {
	if (*T)(target) == nil {
		return ""
	}
	if id, ok := any(target).(Identifier); ok {
		return id.ID()
	}
	return fmt.Sprintf("%T", target)
}
