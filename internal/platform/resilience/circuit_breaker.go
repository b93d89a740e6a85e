// Package resilience holds the failure-isolation helpers shared by the
// outbound clients (mail, image storage, job queue) and the caches.
package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig tunes one breaker. Zero values fall back to
// 5 failures, a 15s open window and 2 half-open trial calls.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

// CircuitBreaker opens after FailureThreshold consecutive failures, rejects
// calls for OpenTimeout, then lets HalfOpenMaxReq trial calls through. All trial calls
// must succeed to close it again. A nil *CircuitBreaker allows every call.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	trials   int // half-open calls admitted
	passed   int // half-open calls that succeeded
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	if cfg.HalfOpenMaxReq < 1 {
		cfg.HalfOpenMaxReq = 2
	}
	return &CircuitBreaker{cfg: cfg, now: time.Now, state: CircuitStateClosed}
}

// Execute runs fn unless the breaker is open. Only errors for which transient
// reports true (or every error when transient is nil) count as failures.
func (b *CircuitBreaker) Execute(fn func() error, transient func(error) bool) error {
	if b == nil {
		return fn()
	}
	if !b.admit() {
		return ErrCircuitOpen
	}
	err := fn()
	b.settle(err != nil && (transient == nil || transient(err)))
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == CircuitStateOpen && b.cooledDown() {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitStateOpen:
		if !b.cooledDown() {
			return false
		}
		b.state, b.trials, b.passed = CircuitStateHalfOpen, 0, 0
		fallthrough
	case CircuitStateHalfOpen:
		if b.trials >= b.cfg.HalfOpenMaxReq {
			return false
		}
		b.trials++
	}
	return true
}

func (b *CircuitBreaker) settle(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.state == CircuitStateHalfOpen && failed:
		b.trip()
	case b.state == CircuitStateHalfOpen:
		b.passed++
		if b.passed >= b.cfg.HalfOpenMaxReq {
			b.state, b.failures = CircuitStateClosed, 0
		}
	case failed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	default:
		b.failures = 0
	}
}

func (b *CircuitBreaker) trip() {
	b.state = CircuitStateOpen
	b.openedAt = b.now()
}

func (b *CircuitBreaker) cooledDown() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout
}
