package pubsub

import "errors"

var (
	// ErrSweeperAlreadyStarted is returned when Start is called on a running registry sweeper.
	ErrSweeperAlreadyStarted = errors.New("registry sweeper already started")

	// ErrSweeperNotStarted is returned when Stop is called before Start.
	ErrSweeperNotStarted = errors.New("registry sweeper not started")

	// ErrSweepDisabled is returned by Start when no sweep interval is configured.
	ErrSweepDisabled = errors.New("registry sweep interval is not configured")

	// ErrShutdownTimeout is returned when an in-flight sweep outlives the shutdown timeout.
	ErrShutdownTimeout = errors.New("registry sweeper shutdown timeout exceeded")

	// ErrSweeperNotRunning is reported by Healthcheck when sweeping is configured but stopped.
	ErrSweeperNotRunning = errors.New("registry sweeper is configured but not running")

	// ErrInconsistentState is reported by Healthcheck when the ordered receiver list
	// and the identity index disagree.
	ErrInconsistentState = errors.New("registry receiver index is inconsistent")
)
