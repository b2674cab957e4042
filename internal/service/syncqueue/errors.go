package syncqueue

import "errors"

var (
	ErrInvalidEvent = errors.New("event has no id")
)
