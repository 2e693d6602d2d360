package pubsub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Start runs the background sweeper until ctx is cancelled or Stop is called.
// This is a blocking operation; use Run for the errgroup pattern.
func (r *Registry[T, P]) Start(ctx context.Context) error {
	r.lifecycle.Lock()
	if r.cancel != nil {
		r.lifecycle.Unlock()
		return ErrSweeperAlreadyStarted
	}
	if r.sweepInterval <= 0 {
		r.lifecycle.Unlock()
		return ErrSweepDisabled
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.generation++
	gen := r.generation
	r.lifecycle.Unlock()

	r.running.Store(true)
	defer func() {
		r.running.Store(false)
		r.lifecycle.Lock()
		if r.generation == gen && r.cancel != nil {
			r.cancel = nil
		}
		r.lifecycle.Unlock()
		cancel()
	}()

	r.logger.InfoContext(ctx, "registry sweeper started",
		slog.Duration("sweep_interval", r.sweepInterval))

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("registry sweeper stopping")
			return ctx.Err()
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// Stop cancels the sweeper and waits up to the shutdown timeout for an
// in-flight sweep to finish.
func (r *Registry[T, P]) Stop() error {
	r.lifecycle.Lock()
	if r.cancel == nil {
		r.lifecycle.Unlock()
		return ErrSweeperNotStarted
	}
	cancel := r.cancel
	r.cancel = nil
	r.lifecycle.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("registry sweeper stopped")
		return nil
	case <-time.After(r.shutdownTimeout):
		r.logger.Warn("registry sweeper shutdown timeout exceeded",
			slog.Duration("timeout", r.shutdownTimeout))
		return fmt.Errorf("%w after %s", ErrShutdownTimeout, r.shutdownTimeout)
	}
}

// Run provides errgroup compatibility for coordinated lifecycle management.
// The returned function sweeps until ctx is cancelled and then stops gracefully.
func (r *Registry[T, P]) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- r.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = r.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Healthcheck reports whether the registry is operational.
func (r *Registry[T, P]) Healthcheck(ctx context.Context) error {
	r.mu.RLock()
	consistent := len(r.receivers) == len(r.index)
	r.mu.RUnlock()

	if !consistent {
		return ErrInconsistentState
	}

	r.lifecycle.Lock()
	started := r.cancel != nil
	r.lifecycle.Unlock()

	if r.sweepInterval > 0 && !started {
		return ErrSweeperNotRunning
	}
	return nil
}

func (r *Registry[T, P]) sweep(ctx context.Context) {
	r.lifecycle.Lock()
	if r.cancel == nil {
		r.lifecycle.Unlock()
		return
	}
	r.wg.Add(1)
	r.lifecycle.Unlock()

	defer r.wg.Done()
	r.Prune(ctx)
}
