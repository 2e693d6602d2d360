package protocol

import "fmt"

// Action is the operation requested by a web container.
type Action uint8

const (
	ActionPublish Action = iota + 1
	ActionSubscribe
	ActionUnsubscribe
)

func (a Action) String() string {
	switch a {
	case ActionPublish:
		return "publish"
	case ActionSubscribe:
		return "subscribe"
	case ActionUnsubscribe:
		return "unsubscribe"
	default:
		return fmt.Sprintf("action(%d)", uint8(a))
	}
}

// ParseAction maps the wire name of an action to its value.
func ParseAction(s string) (Action, error) {
	switch s {
	case "publish":
		return ActionPublish, nil
	case "subscribe":
		return ActionSubscribe, nil
	case "unsubscribe":
		return ActionUnsubscribe, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
}
