// Package ratelimit implements fixed-window request limiting keyed by an
// arbitrary string, usually an action prefix plus the client address.  The
// first request of a window opens it; requests past the limit are rejected
// until the window expires.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Rule is a limit over a fixed window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result is the outcome of consuming one request from a key's window.
type Result struct {
	Success   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter consumes one request for key under rule.
type Limiter interface {
	Consume(ctx context.Context, key string, rule Rule) (Result, error)
}

// ErrTooManyRequests matches any *Error with errors.Is.
var ErrTooManyRequests = errors.New("too many requests")

// Error is returned when a key has exhausted its window.
type Error struct {
	Key     string
	ResetAt time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("too many requests for %s, retry after %s", e.Key, e.ResetAt.UTC().Format(time.RFC3339))
}

func (e *Error) Is(target error) bool { return target == ErrTooManyRequests }

// RetryAfter returns the whole seconds to wait from now, at least 1.
func (e *Error) RetryAfter(now time.Time) int {
	secs := int(math.Ceil(e.ResetAt.Sub(now).Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Enforce consumes a request and turns a rejection into *Error.  A nil
// limiter or a backend failure lets the request through; the failure is
// logged.
func Enforce(ctx context.Context, l Limiter, key string, rule Rule) error {
	if l == nil || rule.Limit <= 0 {
		return nil
	}
	res, err := l.Consume(ctx, key, rule)
	if err != nil {
		slog.WarnContext(ctx, "rate limiter unavailable", "key", key, "err", err)
		return nil
	}
	if !res.Success {
		return &Error{Key: key, ResetAt: res.ResetAt}
	}
	return nil
}
