package pubsub

// Outcome reports what happened to a single delivery attempt.
type Outcome uint8

const (
	// OutcomeDelivered means the message was handed to the target.
	OutcomeDelivered Outcome = iota + 1
	// OutcomeStale means the receiver was not subscribed to the channel at delivery time.
	OutcomeStale
	// OutcomeOrphaned means the target could not be resolved; removal was requested.
	OutcomeOrphaned
	// OutcomeDetached means the receiver had already been removed from its registry.
	OutcomeDetached
	// OutcomeFailed means the target rejected the message.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeStale:
		return "stale"
	case OutcomeOrphaned:
		return "orphaned"
	case OutcomeDetached:
		return "detached"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
