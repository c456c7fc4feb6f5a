// Package resilience guards calls to capability backends. A tripped
// circuit fails fast instead of stacking timeouts on an upstream that is
// already struggling.
package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when a breaker rejects a call without
// attempting it.
var ErrCircuitOpen = errors.New("circuit open")

// State identifies the breaker's position in the trip cycle.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker trips after a run of consecutive failures against one named
// capability and rejects calls until a cool-off elapses. The first call
// after the cool-off probes the upstream: success closes the circuit,
// failure reopens it.
type Breaker struct {
	name    string
	limit   int
	coolOff time.Duration

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	now      func() time.Time // for testing
}

// NewBreaker creates a breaker for the named capability that opens after
// limit consecutive failures and cools off for the given duration.
func NewBreaker(name string, limit int, coolOff time.Duration) *Breaker {
	return &Breaker{
		name:    name,
		limit:   limit,
		coolOff: coolOff,
		now:     time.Now,
	}
}

// Execute runs fn unless the circuit is open, recording the result. An
// open circuit yields an error wrapping ErrCircuitOpen that names the
// capability.
func (b *Breaker) Execute(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err == nil)
	return err
}

// State reports the breaker's current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.coolOff {
			return fmt.Errorf("capability %q: %w", b.name, ErrCircuitOpen)
		}
		b.state = StateHalfOpen
	}
	return nil
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ok {
		b.failures = 0
		b.state = StateClosed
		return
	}
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.limit {
		b.state = StateOpen
		b.openedAt = b.now()
	}
}
