package executor

import (
	"context"
	"sync"
	"time"

	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/port/executor"
	"github.com/Strob0t/Concierge/internal/resilience"
)

// Guarded wraps a step executor with one circuit breaker per capability, so
// a failing upstream trips only its own circuit and sibling capabilities
// keep executing.
type Guarded struct {
	inner       executor.StepExecutor
	maxFailures int
	timeout     time.Duration

	mu       sync.Mutex
	breakers map[string]*resilience.Breaker
}

// NewGuarded wraps inner with per-capability circuit breakers.
func NewGuarded(inner executor.StepExecutor, maxFailures int, timeout time.Duration) *Guarded {
	return &Guarded{
		inner:       inner,
		maxFailures: maxFailures,
		timeout:     timeout,
		breakers:    make(map[string]*resilience.Breaker),
	}
}

// ExecuteStep runs one step through its capability's breaker.
func (g *Guarded) ExecuteStep(ctx context.Context, step plan.Step) (string, error) {
	var result string
	err := g.breaker(step.Capability).Execute(func() error {
		var err error
		result, err = g.inner.ExecuteStep(ctx, step)
		return err
	})
	return result, err
}

func (g *Guarded) breaker(capability string) *resilience.Breaker {
	g.mu.Lock()
	defer g.mu.Unlock()
	b, ok := g.breakers[capability]
	if !ok {
		b = resilience.NewBreaker(capability, g.maxFailures, g.timeout)
		g.breakers[capability] = b
	}
	return b
}
