// Package executor defines the capability executor port (interface).
package executor

import (
	"context"

	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// StepExecutor performs one execution step against its target capability.
// It is invoked once per step during Execute; steps are independent, so a
// failure here never aborts sibling steps.
type StepExecutor interface {
	ExecuteStep(ctx context.Context, step plan.Step) (string, error)
}
