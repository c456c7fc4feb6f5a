// Package conflict defines the conflict checker port (interface).
package conflict

import (
	"context"

	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/profile"
)

// Checker detects calendar or preference conflicts for an intent. Findings
// are advisory: they are attached to the proposed plan and never abort the
// pipeline.
type Checker interface {
	CheckConflicts(ctx context.Context, in *intent.Intent, prof *profile.Profile) []string
}
