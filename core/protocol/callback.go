package protocol

import (
	"encoding/json"
	"fmt"
)

// TypeCallback marks frames that carry a delivered message.
const TypeCallback = "callback"

// Callback is the frame a web container receives for a delivered message.
// The container routes Data to the handler it registered as Callback.
type Callback struct {
	Type     string          `json:"type"`
	Callback string          `json:"callback"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// EncodeCallback renders a callback frame for message.
func EncodeCallback(callback string, message json.RawMessage) ([]byte, error) {
	b, err := json.Marshal(Callback{Type: TypeCallback, Callback: callback, Data: message})
	if err != nil {
		return nil, fmt.Errorf("encode callback frame: %w", err)
	}
	return b, nil
}

// DecodeCallback parses a callback frame.
func DecodeCallback(data []byte) (Callback, error) {
	var cb Callback
	if err := json.Unmarshal(data, &cb); err != nil {
		return Callback{}, fmt.Errorf("decode callback frame: %w", err)
	}
	if cb.Type != TypeCallback {
		return Callback{}, fmt.Errorf("decode callback frame: unexpected type %q", cb.Type)
	}
	return cb, nil
}
