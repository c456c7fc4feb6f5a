// Package capability defines the capability directory port (interface).
package capability

import (
	"context"

	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// Capability describes one named external service the planner may depend on.
type Capability struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Available      bool     `json:"available"`
	Endpoint       string   `json:"endpoint,omitempty"`
	RequiredParams []string `json:"required_params,omitempty"`
	OptionalParams []string `json:"optional_params,omitempty"`
	RateLimit      int      `json:"rate_limit,omitempty"` // requests per minute, 0 = unlimited
	AuthRequired   bool     `json:"auth_required"`
}

// Directory is the port interface for capability lookup. The Validate stage
// asks it which capabilities an intent category requires and whether each is
// currently usable.
type Directory interface {
	// IsAvailable reports whether the named capability is registered and up.
	IsAvailable(ctx context.Context, name string) bool

	// RequiredCapabilities returns the capability names an activity category
	// depends on. Unknown categories require nothing.
	RequiredCapabilities(ctx context.Context, category string) []string

	// List returns all registered capabilities, for inspection endpoints.
	List(ctx context.Context) []Capability

	// HealthCheck reports per-capability availability by name.
	HealthCheck(ctx context.Context) map[string]bool

	// Snapshot returns a point-in-time availability map. The planner works
	// against the snapshot so availability cannot change mid-draft.
	Snapshot(ctx context.Context) plan.AvailabilityMap
}
