package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request is a decoded pubsub request.
// Message is set for publish, Callback for subscribe.
type Request struct {
	Action   Action
	Channel  string
	Message  json.RawMessage
	Callback string
}

// Publish builds a publish request.
func Publish(channel string, message json.RawMessage) Request {
	return Request{Action: ActionPublish, Channel: channel, Message: message}
}

// Subscribe builds a subscribe request.
func Subscribe(channel, callback string) Request {
	return Request{Action: ActionSubscribe, Channel: channel, Callback: callback}
}

// Unsubscribe builds an unsubscribe request.
func Unsubscribe(channel string) Request {
	return Request{Action: ActionUnsubscribe, Channel: channel}
}

type envelope struct {
	Action string       `json:"action"`
	Data   *requestData `json:"data"`
}

type requestData struct {
	Channel  *string         `json:"channel"`
	Message  json.RawMessage `json:"message,omitempty"`
	Callback *string         `json:"callback,omitempty"`
}

// Decode parses a request sent by a web container:
//
//	{"action":"subscribe","data":{"channel":"chat","callback":"onChat"}}
//	{"action":"publish","data":{"channel":"chat","message":{"text":"hi"}}}
//	{"action":"unsubscribe","data":{"channel":"chat"}}
//
// Every error wraps ErrMalformedRequest.
func Decode(data []byte) (Request, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	action, err := ParseAction(env.Action)
	if err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	if env.Data == nil || env.Data.Channel == nil {
		return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, ErrMissingChannel)
	}

	req := Request{Action: action, Channel: *env.Data.Channel}

	switch action {
	case ActionPublish:
		if !isObject(env.Data.Message) {
			return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, ErrMissingMessage)
		}
		req.Message = env.Data.Message
	case ActionSubscribe:
		if env.Data.Callback == nil || *env.Data.Callback == "" {
			return Request{}, fmt.Errorf("%w: %w", ErrMalformedRequest, ErrMissingCallback)
		}
		req.Callback = *env.Data.Callback
	}

	return req, nil
}

// Encode renders r in the wire format accepted by Decode.
func Encode(r Request) ([]byte, error) {
	if _, err := ParseAction(r.Action.String()); err != nil {
		return nil, err
	}

	channel := r.Channel
	data := &requestData{Channel: &channel}

	switch r.Action {
	case ActionPublish:
		data.Message = r.Message
	case ActionSubscribe:
		callback := r.Callback
		data.Callback = &callback
	}

	return json.Marshal(envelope{Action: r.Action.String(), Data: data})
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
