package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDownstream = errors.New("downstream failed")

func newTestBreaker(t *testing.T) (*CircuitBreaker, *time.Time) {
	t.Helper()
	cb := NewCircuitBreaker(3, 30*time.Second)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return current }
	return cb, &current
}

func failTimes(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errDownstream })
	}
}

func TestCircuitBreakerStartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(t)
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestCircuitBreakerOpensAtThreshold(t *testing.T) {
	cb, _ := newTestBreaker(t)

	failTimes(cb, 2)
	assert.Equal(t, BreakerClosed, cb.State(), "below threshold the breaker stays closed")

	failTimes(cb, 1)
	assert.Equal(t, BreakerOpen, cb.State())
	assert.Equal(t, 3, cb.FailureCount())
}

func TestCircuitBreakerFailsFastWhileOpen(t *testing.T) {
	cb, _ := newTestBreaker(t)
	failTimes(cb, 3)
	require.Equal(t, BreakerOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open breaker must not invoke the operation")
}

func TestCircuitBreakerHalfOpenSuccessCloses(t *testing.T) {
	cb, clock := newTestBreaker(t)
	failTimes(cb, 3)
	require.Equal(t, BreakerOpen, cb.State())

	*clock = clock.Add(31 * time.Second)

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called, "after the recovery timeout the probe must run")
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(t)
	failTimes(cb, 3)
	*clock = clock.Add(31 * time.Second)

	err := cb.Execute(func() error { return errDownstream })
	assert.ErrorIs(t, err, errDownstream)
	assert.Equal(t, BreakerOpen, cb.State())

	// The failed probe pushed the recovery deadline out again.
	err = cb.Execute(func() error { return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreakerSuccessResetsCounter(t *testing.T) {
	cb, _ := newTestBreaker(t)
	failTimes(cb, 2)
	require.Equal(t, 2, cb.FailureCount())

	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, 0, cb.FailureCount())
	assert.Equal(t, BreakerClosed, cb.State())
}

func TestCircuitBreakerReset(t *testing.T) {
	cb, _ := newTestBreaker(t)
	failTimes(cb, 3)
	require.Equal(t, BreakerOpen, cb.State())

	cb.Reset()
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, 0, cb.FailureCount())

	require.NoError(t, cb.Execute(func() error { return nil }))
}

func TestNewCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(0, 0)
	assert.Equal(t, 3, cb.failureThreshold)
	assert.Equal(t, 30*time.Second, cb.recoveryTimeout)
}
