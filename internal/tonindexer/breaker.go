package tonindexer

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the breaker is failing fast.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// circuitBreaker short-circuits calls to a persistently failing
// endpoint, re-probing after a cooldown.
type circuitBreaker struct {
	mu               sync.Mutex
	failureThreshold int
	recoveryTimeout  time.Duration
	failureCount     int
	lastFailure      time.Time
	state            breakerState
}

func newCircuitBreaker(failureThreshold int, recoveryTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		failureThreshold: failureThreshold,
		recoveryTimeout:  recoveryTimeout,
		state:            stateClosed,
	}
}

// allow reports whether a call may proceed, moving the breaker to
// half-open when the cooldown has elapsed.
func (b *circuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != stateOpen {
		return true
	}
	if time.Since(b.lastFailure) >= b.recoveryTimeout {
		b.state = stateHalfOpen
		return true
	}
	return false
}

func (b *circuitBreaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
	b.state = stateClosed
}

func (b *circuitBreaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount++
	b.lastFailure = time.Now()
	if b.failureCount >= b.failureThreshold {
		b.state = stateOpen
	}
}
