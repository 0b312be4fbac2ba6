package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitState represents the state of the circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"    // Normal operation
	StateOpen     CircuitState = "open"      // Failing, reject calls
	StateHalfOpen CircuitState = "half-open" // One trial call allowed
)

// CircuitBreaker stops calling the Gemini API after repeated failures so the
// summarize chain can drop to its placeholder without waiting on timeouts.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	probing         bool

	failureThreshold int
	timeout          time.Duration
	now              func() time.Time
	log              zerolog.Logger
}

// NewCircuitBreaker creates a breaker that opens after failureThreshold
// consecutive failures and allows a trial call again once timeout has elapsed.
func NewCircuitBreaker(failureThreshold int, timeout time.Duration, log zerolog.Logger) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		timeout:          timeout,
		now:              time.Now,
		log:              log.With().Str("component", "circuit_breaker").Logger(),
	}
}

// Call runs fn unless the circuit is open. A failure after ctx itself was
// canceled or expired is the caller giving up, not a backend failure, and is
// not counted.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func() error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}
	err := fn()
	if err != nil && ctx.Err() != nil {
		cb.release()
		return err
	}
	cb.afterRequest(err)
	return err
}

// release ends a call without recording an outcome.
func (cb *CircuitBreaker) release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probing = false
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.lastFailureTime) < cb.timeout {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.probing = true
		return nil
	case StateHalfOpen:
		if cb.probing {
			return ErrCircuitOpen
		}
		cb.probing = true
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.probing = false
	if err == nil {
		if cb.state != StateClosed || cb.failureCount > 0 {
			cb.failureCount = 0
			cb.setState(StateClosed)
		}
		return
	}

	cb.failureCount++
	cb.lastFailureTime = cb.now()
	switch cb.state {
	case StateHalfOpen:
		cb.setState(StateOpen)
	case StateClosed:
		if cb.failureCount >= cb.failureThreshold {
			cb.setState(StateOpen)
		}
	}
}

func (cb *CircuitBreaker) setState(newState CircuitState) {
	if cb.state == newState {
		return
	}
	cb.log.Warn().
		Str("from", string(cb.state)).
		Str("to", string(newState)).
		Int("failures", cb.failureCount).
		Msg("Circuit state transition")
	cb.state = newState
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
