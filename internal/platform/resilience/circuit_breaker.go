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

// CircuitBreakerConfig mirrors the PROVIDER_CIRCUIT_* settings.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
	// OnStateChange is called outside the breaker lock after each transition.
	OnStateChange func(from, to CircuitState)
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		HalfOpenMaxReq:   1,
	}
}

// Normalize fills non-positive limits with defaults and keeps the rest.
func (c CircuitBreakerConfig) Normalize() CircuitBreakerConfig {
	defaults := DefaultCircuitBreakerConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// CircuitBreaker stops calling a provider after consecutive transient
// failures and lets a bounded number of trial calls through once OpenTimeout
// has passed.
type CircuitBreaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig

	state     CircuitState
	failures  int
	openedAt  time.Time
	inFlight  int
	successes int
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:   cfg.Normalize(),
		state: CircuitStateClosed,
		now:   time.Now,
	}
}

func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	from := b.state

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.setState(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.inFlight >= b.cfg.HalfOpenMaxReq {
			b.mu.Unlock()
			b.notify(from, CircuitStateHalfOpen)
			return ErrCircuitOpen
		}
		b.inFlight++
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case CircuitStateClosed:
		b.failures = 0
	case CircuitStateHalfOpen:
		b.inFlight = max(b.inFlight-1, 0)
		b.successes++
		if b.successes >= b.cfg.HalfOpenMaxReq && b.inFlight == 0 {
			b.setState(CircuitStateClosed)
		}
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	from := b.state

	switch b.state {
	case CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.setState(CircuitStateOpen)
		}
	case CircuitStateHalfOpen:
		b.setState(CircuitStateOpen)
	case CircuitStateOpen:
		b.openedAt = b.now()
	}

	to := b.state
	b.mu.Unlock()
	b.notify(from, to)
}

// State reports half_open for an open breaker whose timeout has passed,
// even before the next trial call arrives.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

// setState resets the per-state counters. Callers hold b.mu.
func (b *CircuitBreaker) setState(to CircuitState) {
	b.state = to
	b.inFlight = 0
	b.successes = 0
	switch to {
	case CircuitStateClosed:
		b.failures = 0
		b.openedAt = time.Time{}
	case CircuitStateOpen:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}

// Do runs fn behind the breaker. Only errors for which countsAsFailure
// returns true trip the breaker; other errors count as a healthy response.
func (b *CircuitBreaker) Do(fn func() error, countsAsFailure func(error) bool) error {
	if err := b.Allow(); err != nil {
		return err
	}

	err := fn()
	if err != nil && (countsAsFailure == nil || countsAsFailure(err)) {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return err
}
