package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/dmitrymomot/webpubsub/core/logger"
)

// Registry routes published messages to the receivers subscribed to a channel.
// It keeps at most one Receiver per target, compared by identity, in subscription order.
// Safe for concurrent use.
type Registry[T any, P Target[T]] struct {
	mu        sync.RWMutex
	receivers []*Receiver[T, P]
	index     map[weak.Pointer[T]]*Receiver[T, P]

	logger          *slog.Logger
	sweepInterval   time.Duration
	shutdownTimeout time.Duration

	lifecycle  sync.Mutex
	cancel     context.CancelFunc
	generation uint64
	running    atomic.Bool
	wg         sync.WaitGroup

	receiversCreated  atomic.Int64
	receiversRemoved  atomic.Int64
	messagesPublished atomic.Int64
	delivered         atomic.Int64
	stale             atomic.Int64
	orphaned          atomic.Int64
	failed            atomic.Int64
}

// Stats provides observability counters for the registry.
type Stats struct {
	ActiveReceivers   int
	ReceiversCreated  int64
	ReceiversRemoved  int64
	MessagesPublished int64
	Delivered         int64
	StaleDeliveries   int64
	OrphanedTargets   int64
	FailedDeliveries  int64
	IsSweeping        bool
}

// NewRegistry creates an empty registry.
//
// Example:
//
//	registry := pubsub.NewRegistry[webview.Conn](pubsub.WithLogger(log))
func NewRegistry[T any, P Target[T]](opts ...Option) *Registry[T, P] {
	o := newOptions(opts)
	return &Registry[T, P]{
		index:           make(map[weak.Pointer[T]]*Receiver[T, P]),
		logger:          o.logger,
		sweepInterval:   o.sweepInterval,
		shutdownTimeout: o.shutdownTimeout,
	}
}

// Publish delivers message to every receiver subscribed to channel, once each,
// in subscription order. Receivers not subscribed to channel are checked for a
// gone target and removed if so.
func (r *Registry[T, P]) Publish(ctx context.Context, channel string, message json.RawMessage) {
	r.messagesPublished.Add(1)

	r.mu.RLock()
	interested := make([]*Receiver[T, P], 0, len(r.receivers))
	var others []*Receiver[T, P]
	for _, rcv := range r.receivers {
		if rcv.Subscribed(channel) {
			interested = append(interested, rcv)
		} else {
			others = append(others, rcv)
		}
	}
	r.mu.RUnlock()

	delivered := 0
	for _, rcv := range interested {
		outcome := rcv.ReceiveMessage(ctx, channel, message)
		r.record(outcome)
		if outcome == OutcomeDelivered {
			delivered++
		}
	}

	for _, rcv := range others {
		if _, ok := rcv.Target(); ok {
			continue
		}
		r.logger.WarnContext(ctx, "receiver target is gone, removing",
			logger.Target(rcv.label))
		r.orphaned.Add(1)
		r.NotifyReceiverRemovable(rcv)
	}

	r.logger.DebugContext(ctx, "message published",
		logger.Channel(channel),
		logger.Count("delivered", delivered))
}

// Subscribe registers callback for channel on target's receiver, creating the
// receiver on first use. Re-subscribing replaces the callback.
func (r *Registry[T, P]) Subscribe(ctx context.Context, target P, channel, callback string) {
	if (*T)(target) == nil {
		r.logger.WarnContext(ctx, "subscribe ignored, target is nil",
			logger.Channel(channel))
		return
	}
	key := weak.Make((*T)(target))

	r.mu.Lock()
	defer r.mu.Unlock()

	if rcv, ok := r.index[key]; ok {
		rcv.Subscribe(channel, callback)
		r.logger.DebugContext(ctx, "receiver subscribed",
			logger.Target(rcv.label),
			logger.Channel(channel),
			logger.Callback(callback))
		return
	}

	rcv := newReceiver(target, r.NotifyReceiverRemovable, r.logger)
	rcv.Subscribe(channel, callback)
	r.add(rcv)
	r.receiversCreated.Add(1)

	r.logger.DebugContext(ctx, "receiver created",
		logger.Target(rcv.label),
		logger.Channel(channel),
		logger.Callback(callback))
}

// Unsubscribe removes channel from target's receiver. The receiver is dropped
// once it has no subscriptions left. Unknown targets and channels are ignored.
func (r *Registry[T, P]) Unsubscribe(ctx context.Context, target P, channel string) {
	rcv, ok := r.Receiver(target)
	if !ok {
		r.logger.DebugContext(ctx, "unsubscribe ignored, target has no receiver",
			logger.Channel(channel))
		return
	}

	rcv.Unsubscribe(channel)

	r.logger.DebugContext(ctx, "receiver unsubscribed",
		logger.Target(rcv.label),
		logger.Channel(channel))
}

// NotifyReceiverRemovable removes rcv if it is still registered and is empty
// or has lost its target. A receiver that gained a subscription in the meantime
// is kept. Removing an absent receiver is a no-op.
func (r *Registry[T, P]) NotifyReceiverRemovable(rcv *Receiver[T, P]) {
	if rcv == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index[rcv.target] != rcv {
		return
	}
	if !rcv.reclaimable() {
		return
	}
	r.remove(rcv)
}

// Forget drops target's receiver regardless of its subscriptions.
// Hosts call it when a container is destroyed. Reports whether a receiver was removed.
func (r *Registry[T, P]) Forget(ctx context.Context, target P) bool {
	if (*T)(target) == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rcv, ok := r.index[weak.Make((*T)(target))]
	if !ok {
		return false
	}
	r.remove(rcv)

	r.logger.DebugContext(ctx, "receiver forgotten", logger.Target(rcv.label))
	return true
}

// Prune removes every receiver that is empty or whose target is gone and
// returns how many were removed.
func (r *Registry[T, P]) Prune(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []*Receiver[T, P]
	for _, rcv := range r.receivers {
		if rcv.reclaimable() {
			stale = append(stale, rcv)
		}
	}
	for _, rcv := range stale {
		if _, ok := rcv.Target(); !ok {
			r.orphaned.Add(1)
		}
		r.remove(rcv)
	}

	if len(stale) > 0 {
		r.logger.InfoContext(ctx, "pruned stale receivers",
			logger.Count("removed", len(stale)),
			logger.Count("remaining", len(r.receivers)))
	}
	return len(stale)
}

// Receiver returns target's receiver if it has one.
func (r *Registry[T, P]) Receiver(target P) (*Receiver[T, P], bool) {
	if (*T)(target) == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	rcv, ok := r.index[weak.Make((*T)(target))]
	return rcv, ok
}

// Receivers returns a snapshot of the registered receivers in subscription order.
func (r *Registry[T, P]) Receivers() []*Receiver[T, P] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.receivers)
}

// Len returns the number of registered receivers.
func (r *Registry[T, P]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.receivers)
}

// Stats returns current registry counters.
func (r *Registry[T, P]) Stats() Stats {
	return Stats{
		ActiveReceivers:   r.Len(),
		ReceiversCreated:  r.receiversCreated.Load(),
		ReceiversRemoved:  r.receiversRemoved.Load(),
		MessagesPublished: r.messagesPublished.Load(),
		Delivered:         r.delivered.Load(),
		StaleDeliveries:   r.stale.Load(),
		OrphanedTargets:   r.orphaned.Load(),
		FailedDeliveries:  r.failed.Load(),
		IsSweeping:        r.running.Load(),
	}
}

// add must be called with r.mu held.
func (r *Registry[T, P]) add(rcv *Receiver[T, P]) {
	if _, dup := r.index[rcv.target]; dup {
		panic("pubsub: duplicate receiver for target")
	}
	r.index[rcv.target] = rcv
	r.receivers = append(r.receivers, rcv)
}

// remove must be called with r.mu held.
func (r *Registry[T, P]) remove(rcv *Receiver[T, P]) {
	delete(r.index, rcv.target)
	if i := slices.Index(r.receivers, rcv); i >= 0 {
		r.receivers = slices.Delete(r.receivers, i, i+1)
	}
	rcv.detach()
	r.receiversRemoved.Add(1)
}

func (r *Registry[T, P]) record(o Outcome) {
	switch o {
	case OutcomeDelivered:
		r.delivered.Add(1)
	case OutcomeStale:
		r.stale.Add(1)
	case OutcomeOrphaned:
		r.orphaned.Add(1)
	case OutcomeFailed:
		r.failed.Add(1)
	}
}
