// Package lock provides keyed mutual exclusion for per-user workflows.
//
// MemoryLocker serialises callers inside one process. RedisLocker extends
// the same guarantee across instances using SET NX PX with a random token.
package lock

import (
	"context"
	"errors"
)

var ErrNotAcquired = errors.New("lock not acquired")

// Locker acquires the lock named by key. The returned release func must be
// called exactly once; it never blocks.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// With runs fn while holding key.
func With(ctx context.Context, l Locker, key string, fn func(ctx context.Context) error) error {
	release, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
