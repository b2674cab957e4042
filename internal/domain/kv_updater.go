package domain

import "context"

// KVUpdater is implemented by stores that can apply a read-modify-write to
// one key atomically, including against other processes sharing the
// namespace.
//
// fn receives the current value, or nil when the key is unset. It may run
// more than once and must not have side effects. A nil result leaves the
// key untouched.
type KVUpdater interface {
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
