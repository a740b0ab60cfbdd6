package jobs

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/redis/go-redis/v9"
)

// ErrQueueUnavailable marks an enqueue that failed because the queue could
// not be reached. Repeating it later may succeed.
var ErrQueueUnavailable = errors.New("jobs: queue unavailable")

// Transient reports whether an Enqueue error is worth retrying. Encoding
// failures and other rejections are permanent.
func Transient(err error) bool {
	return errors.Is(err, ErrQueueUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// connectionError reports whether err came from talking to Redis rather than
// from the task itself.
func connectionError(err error) bool {
	var netErr net.Error
	switch {
	case errors.As(err, &netErr):
		return true
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, redis.ErrClosed):
		return true
	}
	return false
}
