package domain

import "errors"

var (
	ErrKeyNotFound         = errors.New("key not found")
	ErrStorageUnavailable  = errors.New("persisted store unavailable")
	ErrRemoteTransport     = errors.New("remote transport error")
	ErrPartialBatchFailure = errors.New("partial batch failure")
	ErrEventNotFound       = errors.New("event not found")
	ErrInvalidEventKind    = errors.New("invalid event kind")
	ErrInvalidInterval     = errors.New("interval must be positive")
	ErrInvalidQuietWindow  = errors.New("quiet window hours must be within 0..23")
)
