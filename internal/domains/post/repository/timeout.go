package repository

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single storage call when the caller passes zero.
const DefaultTimeout = 10 * time.Second

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

// now is the creation timestamp, at the millisecond precision every driver can store.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
