// Package executor implements the step executor port. The simulated
// executor stands in for real capability APIs; it honors context
// cancellation and can be scripted to fail in tests.
package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// Simulated executes plan steps by reporting success after an optional
// per-step latency. Failures can be scripted per capability.
type Simulated struct {
	latency time.Duration

	mu       sync.RWMutex
	failures map[string]string // capability -> failure detail
}

// NewSimulated creates a simulated executor. latency delays each step to
// mimic an upstream call; zero means immediate.
func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{
		latency:  latency,
		failures: make(map[string]string),
	}
}

// FailCapability scripts every step against the named capability to fail
// with the given detail. An empty detail clears the script.
func (s *Simulated) FailCapability(name, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if detail == "" {
		delete(s.failures, name)
		return
	}
	s.failures[name] = detail
}

// ExecuteStep runs one step and returns its result string.
func (s *Simulated) ExecuteStep(ctx context.Context, step plan.Step) (string, error) {
	if s.latency > 0 {
		select {
		case <-time.After(s.latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	detail, failed := s.failures[step.Capability]
	s.mu.RUnlock()
	if failed {
		return "", &domain.StepFailureError{StepID: step.Action, Detail: detail}
	}
	return fmt.Sprintf("Successfully executed %s using %s", step.Action, step.Capability), nil
}
