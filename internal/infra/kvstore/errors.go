package kvstore

import "errors"

var (
	ErrInvalidKey      = errors.New("invalid key")
	ErrInvalidFileData = errors.New("invalid store file data")
	ErrUpdateConflict  = errors.New("update conflict: key changed concurrently too often")
)
