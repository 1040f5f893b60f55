package utils

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by Execute while the breaker is open and the
// recovery deadline has not passed. The wrapped operation is not invoked.
var ErrCircuitOpen = errors.New("circuit breaker is open - service unavailable")

// BreakerState is the current position of the breaker state machine.
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

func (s BreakerState) String() string {
	switch s {
	case BreakerOpen:
		return "OPEN"
	case BreakerHalfOpen:
		return "HALF_OPEN"
	default:
		return "CLOSED"
	}
}

// CircuitBreaker guards a failing downstream call. After failureThreshold
// consecutive failures it opens and fails fast until recoveryTimeout elapses;
// the next attempt runs half-open and a success closes the breaker again.
// All state transitions are mutex-guarded so a breaker may be shared across
// request goroutines.
type CircuitBreaker struct {
	mu               sync.Mutex
	failureCount     int
	failureThreshold int
	recoveryTimeout  time.Duration
	nextAttempt      time.Time
	state            BreakerState

	now func() time.Time
}

// NewCircuitBreaker returns a closed breaker. Zero or negative arguments fall
// back to the defaults (3 failures, 30s recovery).
func NewCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	if recoveryTimeout <= 0 {
		recoveryTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            BreakerClosed,
		now:              time.Now,
	}
}

// Execute runs op under the breaker. While open and before the recovery
// deadline it returns ErrCircuitOpen without invoking op. A success resets
// the failure counter and closes the breaker; a failure increments the
// counter (re-opening with a fresh deadline at the threshold, or immediately
// when half-open) and the original error is returned.
func (cb *CircuitBreaker) Execute(op func() error) error {
	cb.mu.Lock()
	if cb.state == BreakerOpen {
		if cb.now().Before(cb.nextAttempt) {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		// Probe whether the downstream recovered.
		cb.state = BreakerHalfOpen
	}
	cb.mu.Unlock()

	err := op()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0
	cb.state = BreakerClosed
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	if cb.state == BreakerHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.state = BreakerOpen
		cb.nextAttempt = cb.now().Add(cb.recoveryTimeout)
	}
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// FailureCount returns the consecutive failure counter.
func (cb *CircuitBreaker) FailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failureCount
}

// Reset closes the breaker and clears the failure counter.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failureCount = 0
	cb.state = BreakerClosed
	cb.nextAttempt = cb.now()
}
