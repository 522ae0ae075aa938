// Package circuitbreaker short-circuits calls to an unhealthy upstream
// API so one broken service cannot stall every generated client method.
//
// States: Closed (calls pass, consecutive failures counted), Open (calls
// rejected immediately), HalfOpen (a single probe is let through after
// the cooldown).
package circuitbreaker

import (
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// OpenError is returned while the breaker rejects calls.
type OpenError struct {
	API     string
	LastErr string
	RetryIn time.Duration
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuitbreaker: api %s unavailable (last failure: %s), retry in %s",
		e.API, e.LastErr, e.RetryIn.Truncate(time.Second))
}

// Breaker guards one upstream API. A threshold of zero disables it.
type Breaker struct {
	api       string
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	state    State
	fails    int
	lastErr  string
	openedAt time.Time
	now      func() time.Time
}

func New(api string, threshold int, cooldown time.Duration) *Breaker {
	return &Breaker{
		api:       api,
		threshold: threshold,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Allow reports whether a call may proceed, returning *OpenError when not.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.threshold <= 0 {
		return nil
	}

	switch b.state {
	case Closed:
		return nil
	case Open:
		elapsed := b.now().Sub(b.openedAt)
		if elapsed >= b.cooldown {
			b.state = HalfOpen
			return nil
		}
		return &OpenError{API: b.api, LastErr: b.lastErr, RetryIn: b.cooldown - elapsed}
	default: // HalfOpen
		// A probe is already in flight. Push concurrent callers back to
		// Open with a fresh cooldown; the probe outcome decides the state.
		b.state = Open
		b.openedAt = b.now()
		return &OpenError{API: b.api, LastErr: b.lastErr, RetryIn: b.cooldown}
	}
}

// Success closes the circuit and clears the failure streak.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fails = 0
	b.state = Closed
}

// Failure records a failed call and may trip the circuit.
func (b *Breaker) Failure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.fails++
	if err != nil {
		b.lastErr = err.Error()
	} else {
		b.lastErr = "unknown error"
	}
	if b.threshold <= 0 {
		return
	}
	if b.state == HalfOpen || b.fails >= b.threshold {
		b.state = Open
		b.openedAt = b.now()
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
