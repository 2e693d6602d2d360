package webview

import "errors"

var (
	// ErrConnReleased is returned when writing to a web view that has disconnected.
	ErrConnReleased = errors.New("web view connection released")
)
