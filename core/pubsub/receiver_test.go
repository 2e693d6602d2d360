package pubsub_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webpubsub/core/pubsub"
)

func TestReceiver_Subscriptions(t *testing.T) {
	t.Parallel()

	f := newFragment("a")
	rcv := pubsub.NewReceiver(f, nil)

	assert.Equal(t, 0, rcv.Len())
	assert.Empty(t, rcv.Channels())

	rcv.Subscribe("news", "onNews")
	rcv.Subscribe("chat", "onChat")
	rcv.Subscribe("chat", "onChatV2")

	assert.Equal(t, 2, rcv.Len())
	assert.Equal(t, []string{"chat", "news"}, rcv.Channels())

	cb, ok := rcv.Callback("chat")
	require.True(t, ok)
	assert.Equal(t, "onChatV2", cb)

	_, ok = rcv.Callback("missing")
	assert.False(t, ok)
	assert.True(t, rcv.Subscribed("news"))
	assert.False(t, rcv.Subscribed("missing"))

	target, ok := rcv.Target()
	require.True(t, ok)
	assert.Same(t, f, target)
}

func TestReceiver_Unsubscribe(t *testing.T) {
	t.Parallel()

	t.Run("last channel requests removal once", func(t *testing.T) {
		t.Parallel()

		var calls int
		f := newFragment("a")
		rcv := pubsub.NewReceiver(f, func(r *pubsub.Receiver[fragment, *fragment]) {
			calls++
		})
		rcv.Subscribe("one", "cb1")
		rcv.Subscribe("two", "cb2")

		rcv.Unsubscribe("one")
		assert.Equal(t, 0, calls)
		assert.Equal(t, []string{"two"}, rcv.Channels())

		rcv.Unsubscribe("two")
		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, rcv.Len())
	})

	t.Run("unknown channel keeps subscriptions", func(t *testing.T) {
		t.Parallel()

		var calls int
		rcv := pubsub.NewReceiver(newFragment("a"), func(r *pubsub.Receiver[fragment, *fragment]) {
			calls++
		})
		rcv.Subscribe("one", "cb1")

		rcv.Unsubscribe("nope")
		assert.Equal(t, 0, calls)
		assert.Equal(t, 1, rcv.Len())
	})

	t.Run("unsubscribing an empty receiver does not request removal again", func(t *testing.T) {
		t.Parallel()

		var calls int
		rcv := pubsub.NewReceiver(newFragment("a"), func(r *pubsub.Receiver[fragment, *fragment]) {
			calls++
		})
		rcv.Subscribe("one", "cb1")

		rcv.Unsubscribe("one")
		rcv.Unsubscribe("one")
		rcv.Unsubscribe("other")
		assert.Equal(t, 1, calls)
	})

	t.Run("never subscribed receiver does not request removal", func(t *testing.T) {
		t.Parallel()

		var calls int
		rcv := pubsub.NewReceiver(newFragment("a"), func(r *pubsub.Receiver[fragment, *fragment]) {
			calls++
		})

		rcv.Unsubscribe("one")
		assert.Equal(t, 0, calls)
	})

	t.Run("nil removal func is allowed", func(t *testing.T) {
		t.Parallel()

		rcv := pubsub.NewReceiver(newFragment("a"), nil)
		rcv.Subscribe("one", "cb1")
		assert.NotPanics(t, func() { rcv.Unsubscribe("one") })
	})
}

func TestReceiver_ReceiveMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("delivers through channel callback", func(t *testing.T) {
		t.Parallel()

		f := newFragment("a")
		rcv := pubsub.NewReceiver(f, nil)
		rcv.Subscribe("chat", "onChat")

		outcome := rcv.ReceiveMessage(ctx, "chat", msg(`{"text":"hi"}`))
		assert.Equal(t, pubsub.OutcomeDelivered, outcome)
		assert.Equal(t, []delivery{{Callback: "onChat", Message: `{"text":"hi"}`}}, f.deliveries())
	})

	t.Run("stale channel is logged and skipped", func(t *testing.T) {
		t.Parallel()

		log, buf := newTestLogger()
		f := newFragment("frag-stale")
		rcv := pubsub.NewReceiver(f, nil, pubsub.WithLogger(log))
		rcv.Subscribe("chat", "onChat")

		outcome := rcv.ReceiveMessage(ctx, "other", msg(`{}`))
		assert.Equal(t, pubsub.OutcomeStale, outcome)
		assert.Empty(t, f.deliveries())
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "target=frag-stale")
	})

	t.Run("released target requests removal", func(t *testing.T) {
		t.Parallel()

		log, buf := newTestLogger()
		var removed *pubsub.Receiver[fragment, *fragment]
		f := newFragment("frag-gone")
		rcv := pubsub.NewReceiver(f, func(r *pubsub.Receiver[fragment, *fragment]) {
			removed = r
		}, pubsub.WithLogger(log))
		rcv.Subscribe("chat", "onChat")
		f.released.Store(true)

		outcome := rcv.ReceiveMessage(ctx, "chat", msg(`{}`))
		assert.Equal(t, pubsub.OutcomeOrphaned, outcome)
		assert.Same(t, rcv, removed)
		assert.Empty(t, f.deliveries())
		assert.Contains(t, buf.String(), "receiver target is gone")

		_, ok := rcv.Target()
		assert.False(t, ok)
	})

	t.Run("target error is reported as failed", func(t *testing.T) {
		t.Parallel()

		f := newFragment("a")
		f.err = errors.New("web view closed")
		rcv := pubsub.NewReceiver(f, nil)
		rcv.Subscribe("chat", "onChat")

		assert.Equal(t, pubsub.OutcomeFailed, rcv.ReceiveMessage(ctx, "chat", msg(`{}`)))
	})

	t.Run("detached receiver is a no-op", func(t *testing.T) {
		t.Parallel()

		reg := newRegistry()
		f := newFragment("a")
		reg.Subscribe(ctx, f, "chat", "onChat")
		rcv, ok := reg.Receiver(f)
		require.True(t, ok)

		require.True(t, reg.Forget(ctx, f))
		assert.True(t, rcv.Detached())
		assert.Equal(t, pubsub.OutcomeDetached, rcv.ReceiveMessage(ctx, "chat", msg(`{}`)))
		assert.Empty(t, f.deliveries())

		rcv.Subscribe("late", "cb")
		assert.False(t, rcv.Subscribed("late"))
	})
}

func TestReceiver_NilTarget(t *testing.T) {
	t.Parallel()

	var removals int
	rcv := pubsub.NewReceiver[fragment](nil, func(r *pubsub.Receiver[fragment, *fragment]) {
		removals++
	})
	rcv.Subscribe("chat", "cb")

	target, ok := rcv.Target()
	assert.False(t, ok)
	assert.Nil(t, target)

	assert.Equal(t, pubsub.OutcomeOrphaned, rcv.ReceiveMessage(context.Background(), "chat", msg(`{}`)))
	assert.Equal(t, 1, removals)
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "delivered", pubsub.OutcomeDelivered.String())
	assert.Equal(t, "stale", pubsub.OutcomeStale.String())
	assert.Equal(t, "orphaned", pubsub.OutcomeOrphaned.String())
	assert.Equal(t, "detached", pubsub.OutcomeDetached.String())
	assert.Equal(t, "failed", pubsub.OutcomeFailed.String())
	assert.Equal(t, "unknown", pubsub.Outcome(0).String())
}
