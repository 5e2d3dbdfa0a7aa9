package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes message handling for one conversation across replicas.
type DistributedLocker interface {
	// Lock blocks until the lock for key (a conversation ID) is held or ctx is done.
	// The lock expires after ttl even if never released.
	// The returned UnlockFunc MUST be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
