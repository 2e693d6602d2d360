package pubsub_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/webpubsub/core/logger"
	"github.com/dmitrymomot/webpubsub/core/pubsub"
)

type delivery struct {
	Callback string
	Message  string
}

// fragment is a test container that records deliveries.
type fragment struct {
	id       string
	mu       sync.Mutex
	got      []delivery
	released atomic.Bool
	err      error
	onSend   func(ctx context.Context)
}

func newFragment(id string) *fragment {
	return &fragment{id: id}
}

func (f *fragment) ID() string { return f.id }

func (f *fragment) SendCallback(ctx context.Context, callback string, message json.RawMessage) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.got = append(f.got, delivery{Callback: callback, Message: string(message)})
	f.mu.Unlock()

	if f.onSend != nil {
		f.onSend(ctx)
	}
	return nil
}

func (f *fragment) Released() bool { return f.released.Load() }

func (f *fragment) deliveries() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]delivery, len(f.got))
	copy(out, f.got)
	return out
}

type registry = pubsub.Registry[fragment, *fragment]

func newRegistry(opts ...pubsub.Option) *registry {
	return pubsub.NewRegistry[fragment](opts...)
}

type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *logBuffer) {
	buf := &logBuffer{}
	return logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug)), buf
}

func msg(s string) json.RawMessage {
	return json.RawMessage(s)
}
