// Package plan defines candidate plans and their deterministic generation
// from a structured intent. A plan is a value object: produced once per
// session at Draft and never mutated afterwards.
package plan

import "github.com/Strob0t/Concierge/internal/domain/intent"

// Archetype is one of the three fixed plan styles always attempted per
// intent, in this order.
type Archetype string

const (
	ArchetypeEfficiency Archetype = "efficiency"
	ArchetypeLuxury     Archetype = "luxury"
	ArchetypeDiscovery  Archetype = "discovery"
)

// Archetypes lists the fixed generation order.
var Archetypes = []Archetype{ArchetypeEfficiency, ArchetypeLuxury, ArchetypeDiscovery}

// Valid reports whether a is a known archetype.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypeEfficiency, ArchetypeLuxury, ArchetypeDiscovery:
		return true
	}
	return false
}

// Step is a single unit of work in a candidate plan: one capability call
// with its parameters. Immutable.
type Step struct {
	Action     string            `json:"action"`
	Capability string            `json:"capability"`
	Params     map[string]string `json:"params"`
	Priority   intent.Priority   `json:"priority"`
}

// Candidate is one alternative plan for fulfilling an intent.
// EstimatedCost is nil when the baseline defines no cost (e.g. reservations).
// EstimatedDuration is an ISO 8601 duration.
type Candidate struct {
	Archetype         Archetype `json:"archetype"`
	Description       string    `json:"description"`
	EstimatedCost     *float64  `json:"estimated_cost,omitempty"`
	EstimatedDuration string    `json:"estimated_duration"`
	Steps             []Step    `json:"steps"`
	Confidence        float64   `json:"confidence"`
}

// Availability reports which capabilities the directory considers usable.
// The generator treats it as a read-only snapshot.
type Availability interface {
	IsAvailable(name string) bool
}

// AvailabilityMap is a simple map-backed Availability, used in tests and by
// the orchestrator to pin the snapshot taken at Validate.
type AvailabilityMap map[string]bool

// IsAvailable reports whether the named capability is usable.
func (m AvailabilityMap) IsAvailable(name string) bool { return m[name] }

func cost(v float64) *float64 { return &v }

func scaled(base *float64, factor float64) *float64 {
	if base == nil {
		return nil
	}
	v := *base * factor
	return &v
}
