package plan

import (
	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/intent"
)

// Biaser decides whether an archetype should be skipped for a user based on
// learned history. The user profile implements it. Generation formulas never
// depend on the profile beyond this skip.
type Biaser interface {
	Disfavors(a Archetype) bool
}

// Generate derives up to three candidate plans (one per archetype, in the
// fixed Efficiency, Luxury, Discovery order) from a structured intent.
//
// Generate is deterministic and side-effect-free: identical inputs yield
// identical output. It reads no clock and uses no randomness; timestamps are
// attached by the caller. A nil bias disables profile biasing.
//
// Categories without a generator (queries, custom intents) contribute no
// candidate per archetype; Generate returns domain.ErrNoViablePath only when
// every archetype produced nothing.
func Generate(in *intent.Intent, avail Availability, bias Biaser) ([]Candidate, error) {
	var out []Candidate
	for _, a := range Archetypes {
		if bias != nil && bias.Disfavors(a) {
			continue
		}
		if c := generate(in, avail, a); c != nil {
			out = append(out, *c)
		}
	}
	if len(out) == 0 {
		return nil, domain.ErrNoViablePath
	}
	return out, nil
}

// generate dispatches on the intent category. The switch is exhaustive over
// intent.Category; categories without a generator fall through to nil.
func generate(in *intent.Intent, avail Availability, a Archetype) *Candidate {
	switch in.Category {
	case intent.CategoryTransportation:
		return transportation(in.Transportation, avail, a)
	case intent.CategoryReservation:
		return reservation(in.Reservation, avail, a)
	case intent.CategorySchedule:
		return schedule(in.Schedule, avail, a)
	case intent.CategoryPurchase:
		return purchase(in.Purchase, avail, a)
	case intent.CategoryQuery, intent.CategoryCustom:
		return nil
	}
	return nil
}
