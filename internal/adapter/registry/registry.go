// Package registry implements the capability directory port with an
// in-memory table of known external services.
package registry

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/port/capability"
)

// Registry is a thread-safe in-memory capability directory. Availability is
// a stored flag; a real deployment would probe the upstream services.
type Registry struct {
	mu   sync.RWMutex
	caps map[string]capability.Capability
}

// New creates a registry seeded with the default capabilities.
func New() *Registry {
	r := &Registry{caps: make(map[string]capability.Capability)}
	for _, c := range defaults() {
		r.caps[strings.ToLower(c.Name)] = c
	}
	return r
}

func defaults() []capability.Capability {
	return []capability.Capability{
		{
			Name:           "uber",
			Description:    "Transportation service for booking rides",
			Available:      true,
			Endpoint:       "https://api.uber.com/v1",
			RequiredParams: []string{"pickup_latitude", "pickup_longitude", "destination_latitude", "destination_longitude"},
			OptionalParams: []string{"product_id", "surge_confirmation_id", "payment_method_id"},
			RateLimit:      100,
			AuthRequired:   true,
		},
		{
			Name:           "opentable",
			Description:    "Restaurant reservation service",
			Available:      true,
			Endpoint:       "https://opentable.herokuapp.com/api",
			RequiredParams: []string{"date", "time", "party_size", "postal_code"},
			OptionalParams: []string{"restaurant_id", "neighborhood_id", "cuisine"},
			RateLimit:      1000,
			AuthRequired:   false,
		},
		{
			Name:           "calendar",
			Description:    "Calendar service for scheduling events",
			Available:      true,
			Endpoint:       "https://www.googleapis.com/calendar/v3",
			RequiredParams: []string{"event_title", "start_time", "end_time"},
			OptionalParams: []string{"attendees", "location", "description"},
			RateLimit:      1000,
			AuthRequired:   true,
		},
		{
			Name:           "ecommerce",
			Description:    "Online purchasing and order placement",
			Available:      true,
			Endpoint:       "https://api.shop.example.com/v2",
			RequiredParams: []string{"item_description", "quantity"},
			OptionalParams: []string{"max_price", "delivery_method"},
			RateLimit:      300,
			AuthRequired:   true,
		},
		{
			Name:           "weather",
			Description:    "Weather information service",
			Available:      true,
			Endpoint:       "https://api.openweathermap.org/data/2.5",
			RequiredParams: []string{"city"},
			OptionalParams: []string{"country", "units"},
			RateLimit:      60,
			AuthRequired:   true,
		},
		{
			Name:           "email",
			Description:    "Email sending service",
			Available:      true,
			Endpoint:       "smtp://email-service.com",
			RequiredParams: []string{"to", "subject", "body"},
			OptionalParams: []string{"cc", "bcc", "attachments"},
			RateLimit:      500,
			AuthRequired:   true,
		},
		{
			Name:        "local_discovery",
			Description: "Nearby points of interest along a route",
			Available:   true,
			RateLimit:   120,
		},
		{
			Name:        "cuisine_discovery",
			Description: "Cuisine and restaurant exploration",
			Available:   true,
			RateLimit:   120,
		},
		{
			Name:         "concierge_service",
			Description:  "Human concierge coordination for scheduled events",
			Available:    true,
			RateLimit:    30,
			AuthRequired: true,
		},
		{
			Name:        "activity_discovery",
			Description: "Related activity suggestions around an event",
			Available:   true,
			RateLimit:   120,
		},
		{
			Name:         "premium_delivery",
			Description:  "Expedited white-glove delivery",
			Available:    true,
			RateLimit:    60,
			AuthRequired: true,
		},
		{
			Name:        "recommendation_engine",
			Description: "Alternative product recommendations",
			Available:   true,
			RateLimit:   240,
		},
	}
}

// IsAvailable reports whether the named capability is registered and up.
func (r *Registry) IsAvailable(_ context.Context, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caps[strings.ToLower(name)]
	return ok && c.Available
}

// RequiredCapabilities maps an activity category to the capability names a
// plan for it depends on. Custom categories require nothing up front.
func (r *Registry) RequiredCapabilities(_ context.Context, category string) []string {
	switch {
	case category == "transportation":
		return []string{"uber"}
	case strings.HasPrefix(category, "reservation_"):
		return []string{"opentable"}
	case category == "scheduling":
		return []string{"calendar"}
	case category == "purchase":
		return []string{"ecommerce"}
	case category == "information":
		return []string{"weather"}
	}
	return nil
}

// List returns all registered capabilities sorted by name.
func (r *Registry) List(_ context.Context) []capability.Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]capability.Capability, 0, len(r.caps))
	for _, c := range r.caps {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Register adds or replaces a capability. The key is the lowercased name.
func (r *Registry) Register(c capability.Capability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.caps[strings.ToLower(c.Name)] = c
}

// SetAvailable updates the availability flag of a registered capability.
// Unknown names are ignored.
func (r *Registry) SetAvailable(name string, available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(name)
	c, ok := r.caps[key]
	if !ok {
		return
	}
	c.Available = available
	r.caps[key] = c
}

// Snapshot returns the current availability of every capability as a
// read-only map the plan generator can use without further locking.
func (r *Registry) Snapshot(_ context.Context) plan.AvailabilityMap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := make(plan.AvailabilityMap, len(r.caps))
	for key, c := range r.caps {
		m[key] = c.Available
	}
	return m
}

// HealthCheck reports per-capability availability, keyed by name.
func (r *Registry) HealthCheck(_ context.Context) map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.caps))
	for key, c := range r.caps {
		out[key] = c.Available
	}
	return out
}
