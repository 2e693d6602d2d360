// Package protocol decodes the JSON requests web containers send to the pubsub
// plugin and encodes the callback frames they receive.
//
// A request names an action and carries its arguments under "data":
//
//	{"action":"subscribe","data":{"channel":"chat","callback":"onChat"}}
//	{"action":"publish","data":{"channel":"chat","message":{"text":"hi"}}}
//	{"action":"unsubscribe","data":{"channel":"chat"}}
//
// Decode turns the action string into the closed Action type once, at the
// boundary, and validates the fields the action needs. Malformed requests fail
// with an error wrapping ErrMalformedRequest and are expected to be dropped by
// the caller.
//
// Delivered messages reach the container as callback frames:
//
//	{"type":"callback","callback":"onChat","data":{"text":"hi"}}
package protocol
