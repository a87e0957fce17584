package ratelimit

import (
	"context"
	"time"
)

// Store counts requests per key over a sliding window. Implementations must
// prune entries older than the window before counting.
type Store interface {
	// Record adds a request for key and returns how many requests the key
	// has made within the current window, the new one included.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
