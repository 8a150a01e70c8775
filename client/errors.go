package client

import "errors"

var (
	// ErrRequestFailed is returned when a call cannot be completed or the
	// server answers with a non-success status.
	ErrRequestFailed = errors.New("request failed")

	// ErrNotFound is returned when the server reports that an id does not exist.
	ErrNotFound = errors.New("not found")
)
