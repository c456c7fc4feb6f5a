// Package profile defines the per-user preference profile and the pure
// learner that folds completed-action outcomes into it. The profile is
// mutated only through Apply; everything else is a read.
package profile

import (
	"time"

	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// OutcomeStatus is the recorded result of executing an approved plan.
type OutcomeStatus string

const (
	OutcomeSuccess        OutcomeStatus = "success"
	OutcomePartialSuccess OutcomeStatus = "partial_success"
	OutcomeFailure        OutcomeStatus = "failure"
	OutcomeCancelled      OutcomeStatus = "cancelled"
	OutcomeTimeout        OutcomeStatus = "timeout"
)

// OutcomeRecord is one append-only entry in a user's action history.
// SatisfactionRating is nil until the user supplies one (1–5).
type OutcomeRecord struct {
	ID                 string         `json:"id"`
	Category           string         `json:"category"`
	Intent             intent.Intent  `json:"intent"`
	Archetype          plan.Archetype `json:"archetype,omitempty"`
	Status             OutcomeStatus  `json:"status"`
	SatisfactionRating *int           `json:"satisfaction_rating,omitempty"`
	Cost               *float64       `json:"cost,omitempty"`
	Duration           string         `json:"duration,omitempty"`
	Timestamp          time.Time      `json:"timestamp"`
}

// PriceRange is a learned (min, max) spend band for a category.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Profile is the aggregated preference state for one user. It persists
// across sessions and is never destroyed, only appended to and updated.
type Profile struct {
	UserID string `json:"user_id"`

	QualityPrefs    map[string]intent.QualityLevel `json:"quality_prefs"`
	VibePrefs       map[string]intent.Vibe         `json:"vibe_prefs"`
	BrandPrefs      map[string]bool                `json:"brand_prefs"`
	Exclusions      map[string]bool                `json:"exclusions"`
	PricePrefs      map[string]PriceRange          `json:"price_prefs"`
	TimePrefs       map[string][]string            `json:"time_prefs"`
	LocationPrefs   map[string]bool                `json:"location_prefs"`
	TransportPrefs  map[string]bool                `json:"transport_prefs"`
	DietaryNeeds    map[string]bool                `json:"dietary_needs"`
	Accessibility   []string                       `json:"accessibility,omitempty"`
	ActivityCounts  map[string]int                 `json:"activity_counts"`
	SelectionCounts map[string]map[string]int      `json:"selection_counts"` // category -> archetype -> count
	Samples         map[string][]int               `json:"samples"`          // archetype -> satisfaction ratings

	History     []OutcomeRecord `json:"history"`
	LastUpdated time.Time       `json:"last_updated"`
}

// New creates an empty profile for the given user.
func New(userID string) *Profile {
	return &Profile{
		UserID:          userID,
		QualityPrefs:    make(map[string]intent.QualityLevel),
		VibePrefs:       make(map[string]intent.Vibe),
		BrandPrefs:      make(map[string]bool),
		Exclusions:      make(map[string]bool),
		PricePrefs:      make(map[string]PriceRange),
		TimePrefs:       make(map[string][]string),
		LocationPrefs:   make(map[string]bool),
		TransportPrefs:  make(map[string]bool),
		DietaryNeeds:    make(map[string]bool),
		ActivityCounts:  make(map[string]int),
		SelectionCounts: make(map[string]map[string]int),
		Samples:         make(map[string][]int),
	}
}

// Clone returns a deep copy so Apply can stay a pure function over snapshots.
func (p *Profile) Clone() *Profile {
	c := New(p.UserID)
	for k, v := range p.QualityPrefs {
		c.QualityPrefs[k] = v
	}
	for k, v := range p.VibePrefs {
		c.VibePrefs[k] = v
	}
	for k, v := range p.BrandPrefs {
		c.BrandPrefs[k] = v
	}
	for k, v := range p.Exclusions {
		c.Exclusions[k] = v
	}
	for k, v := range p.PricePrefs {
		c.PricePrefs[k] = v
	}
	for k, v := range p.TimePrefs {
		c.TimePrefs[k] = append([]string(nil), v...)
	}
	for k, v := range p.LocationPrefs {
		c.LocationPrefs[k] = v
	}
	for k, v := range p.TransportPrefs {
		c.TransportPrefs[k] = v
	}
	for k, v := range p.DietaryNeeds {
		c.DietaryNeeds[k] = v
	}
	c.Accessibility = append([]string(nil), p.Accessibility...)
	for k, v := range p.ActivityCounts {
		c.ActivityCounts[k] = v
	}
	for cat, counts := range p.SelectionCounts {
		inner := make(map[string]int, len(counts))
		for a, n := range counts {
			inner[a] = n
		}
		c.SelectionCounts[cat] = inner
	}
	for a, s := range p.Samples {
		c.Samples[a] = append([]int(nil), s...)
	}
	c.History = append([]OutcomeRecord(nil), p.History...)
	c.LastUpdated = p.LastUpdated
	return c
}

// QualityPreference returns the learned quality level for a category,
// defaulting to Standard.
func (p *Profile) QualityPreference(category string) intent.QualityLevel {
	if q, ok := p.QualityPrefs[category]; ok {
		return q
	}
	return intent.QualityStandard
}

// VibePreference returns the learned vibe for a category, defaulting to
// Efficient.
func (p *Profile) VibePreference(category string) intent.Vibe {
	if v, ok := p.VibePrefs[category]; ok {
		return v
	}
	return intent.VibeEfficient
}

// ActivityFrequency returns how often the user has completed actions in a
// category.
func (p *Profile) ActivityFrequency(category string) int {
	return p.ActivityCounts[category]
}

// PreferredArchetype returns the archetype with the highest selection count
// for a category. Ties are broken by the most recent selection in history.
// ok is false when the category has no recorded selections.
func (p *Profile) PreferredArchetype(category string) (plan.Archetype, bool) {
	counts := p.SelectionCounts[category]
	if len(counts) == 0 {
		return "", false
	}

	best := plan.Archetype("")
	bestCount := -1
	for _, a := range plan.Archetypes {
		n, ok := counts[string(a)]
		if !ok {
			continue
		}
		switch {
		case n > bestCount:
			best, bestCount = a, n
		case n == bestCount && p.lastSelectedAt(category, a).After(p.lastSelectedAt(category, best)):
			best = a
		}
	}
	return best, true
}

// lastSelectedAt returns the timestamp of the most recent outcome in which
// the archetype was selected for the category, or the zero time.
func (p *Profile) lastSelectedAt(category string, a plan.Archetype) time.Time {
	var last time.Time
	for _, rec := range p.History {
		if rec.Category == category && rec.Archetype == a && rec.Timestamp.After(last) {
			last = rec.Timestamp
		}
	}
	return last
}

// AverageSatisfaction returns the mean of all recorded ratings for an
// archetype. ok is false when no ratings exist.
func (p *Profile) AverageSatisfaction(a plan.Archetype) (float64, bool) {
	samples := p.Samples[string(a)]
	if len(samples) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range samples {
		sum += s
	}
	return float64(sum) / float64(len(samples)), true
}

// Disfavors implements plan.Biaser: an archetype is skipped during
// generation when the user has rated it at most 1.5 on average over at
// least three outcomes.
func (p *Profile) Disfavors(a plan.Archetype) bool {
	samples := p.Samples[string(a)]
	if len(samples) < 3 {
		return false
	}
	avg, _ := p.AverageSatisfaction(a)
	return avg <= 1.5
}
