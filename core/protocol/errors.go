package protocol

import "errors"

var (
	// ErrMalformedRequest wraps every decode failure.
	ErrMalformedRequest = errors.New("malformed pubsub request")

	// ErrUnknownAction is returned for actions other than publish, subscribe and unsubscribe.
	ErrUnknownAction = errors.New("unknown action")

	// ErrMissingChannel is returned when data or data.channel is absent or null.
	ErrMissingChannel = errors.New("channel is required")

	// ErrMissingMessage is returned when a publish request has no message object.
	ErrMissingMessage = errors.New("message object is required for publish")

	// ErrMissingCallback is returned when a subscribe request has no callback.
	ErrMissingCallback = errors.New("callback is required for subscribe")
)
