package ratelimiter

import (
	"fmt"
	"sync"
	"time"
)

// Config describes a token bucket: it holds at most Capacity tokens and gains
// RefillRate tokens every RefillInterval.
type Config struct {
	Capacity       int
	RefillRate     int
	RefillInterval time.Duration
}

// Validate reports whether c describes a usable bucket.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be > 0, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be > 0, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be > 0, got %s", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Bucket is a token bucket owned by a single caller, such as one connection.
// It needs no cleanup; it is collected with its owner. Safe for concurrent use.
type Bucket struct {
	mu         sync.Mutex
	cfg        Config
	tokens     int
	lastRefill time.Time
}

// NewBucket creates a full bucket.
func NewBucket(cfg Config) (*Bucket, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Bucket{
		cfg:        cfg,
		tokens:     cfg.Capacity,
		lastRefill: time.Now(),
	}, nil
}

// Allow consumes one token and reports whether it was available.
func (b *Bucket) Allow() bool {
	_, _, err := b.Take(1)
	return err == nil
}

// Take consumes n tokens if the bucket holds that many. It returns the tokens
// left and the time of the next refill. When fewer than n tokens are
// available nothing is consumed and ErrRateLimitExceeded is returned.
func (b *Bucket) Take(n int) (remaining int, resetAt time.Time, err error) {
	if n < 0 {
		return 0, time.Time{}, fmt.Errorf("%w: %d", ErrInvalidTokenCount, n)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(time.Now())
	resetAt = b.lastRefill.Add(b.cfg.RefillInterval)

	if b.tokens < n {
		return b.tokens, resetAt, ErrRateLimitExceeded
	}
	b.tokens -= n
	return b.tokens, resetAt, nil
}

// Remaining returns the tokens currently available.
func (b *Bucket) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refill(time.Now())
	return b.tokens
}

func (b *Bucket) refill(now time.Time) {
	// Capped so a long idle period cannot overflow.
	maxIntervals := int64(b.cfg.Capacity/b.cfg.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/b.cfg.RefillInterval), maxIntervals))
	if intervals <= 0 {
		return
	}
	b.tokens = min(b.tokens+intervals*b.cfg.RefillRate, b.cfg.Capacity)
	b.lastRefill = b.lastRefill.Add(time.Duration(intervals) * b.cfg.RefillInterval)
	if b.tokens == b.cfg.Capacity {
		b.lastRefill = now
	}
}
