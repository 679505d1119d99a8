package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_FixedWindow(t *testing.T) {
	base := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	now := base
	m := NewMemory()
	m.now = func() time.Time { return now }
	rule := Rule{Limit: 3, Window: time.Minute}
	ctx := context.Background()

	for i := 2; i >= 0; i-- {
		res, err := m.Consume(ctx, "reservations:10.0.0.1", rule)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, i, res.Remaining)
		assert.Equal(t, base.Add(time.Minute), res.ResetAt)
	}

	now = base.Add(30 * time.Second)
	res, err := m.Consume(ctx, "reservations:10.0.0.1", rule)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, base.Add(time.Minute), res.ResetAt)

	// other keys are independent
	res, _ = m.Consume(ctx, "reservations:10.0.0.2", rule)
	assert.True(t, res.Success)

	now = base.Add(time.Minute)
	res, _ = m.Consume(ctx, "reservations:10.0.0.1", rule)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Remaining)
}

func TestMemory_SweepsExpiredWindows(t *testing.T) {
	now := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }
	rule := Rule{Limit: 1, Window: time.Second}

	_, _ = m.Consume(context.Background(), "a", rule)
	_, _ = m.Consume(context.Background(), "b", rule)
	now = now.Add(2 * time.Second)
	_, _ = m.Consume(context.Background(), "c", rule)

	assert.Len(t, m.windows, 1)
}

func TestEnforce(t *testing.T) {
	m := NewMemory()
	rule := Rule{Limit: 1, Window: time.Minute}
	ctx := context.Background()

	require.NoError(t, Enforce(ctx, m, "login:1.2.3.4", rule))
	err := Enforce(ctx, m, "login:1.2.3.4", rule)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyRequests))

	var rerr *Error
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "login:1.2.3.4", rerr.Key)
	assert.InDelta(t, 60, rerr.RetryAfter(time.Now()), 1)
}

type failing struct{}

func (failing) Consume(context.Context, string, Rule) (Result, error) {
	return Result{}, errors.New("connection refused")
}

func TestEnforce_FailsOpen(t *testing.T) {
	assert.NoError(t, Enforce(context.Background(), failing{}, "k", Rule{Limit: 1, Window: time.Second}))
	assert.NoError(t, Enforce(context.Background(), nil, "k", Rule{Limit: 1, Window: time.Second}))
}

func TestError_RetryAfterIsAtLeastOneSecond(t *testing.T) {
	now := time.Now()
	e := &Error{ResetAt: now.Add(-time.Second)}
	assert.Equal(t, 1, e.RetryAfter(now))
	e = &Error{ResetAt: now.Add(1500 * time.Millisecond)}
	assert.Equal(t, 2, e.RetryAfter(now))
}
