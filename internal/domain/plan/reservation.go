package plan

import (
	"strconv"

	"github.com/Strob0t/Concierge/internal/domain/intent"
)

const (
	capReservation = "opentable"
	capCuisine     = "cuisine_discovery"
)

func reservation(r *intent.Reservation, avail Availability, a Archetype) *Candidate {
	if !avail.IsAvailable(capReservation) {
		return nil
	}

	params := map[string]string{
		"reservation_type": string(r.Type),
	}
	if r.Location != "" {
		params["location"] = r.Location
	}
	if r.PartySize > 0 {
		params["party_size"] = strconv.Itoa(r.PartySize)
	}
	if r.PreferredTime != "" {
		params["preferred_time"] = r.PreferredTime
	}

	book := Step{
		Action:     "book_reservation",
		Capability: capReservation,
		Params:     params,
		Priority:   intent.PriorityHigh,
	}

	switch a {
	case ArchetypeEfficiency:
		return &Candidate{
			Archetype:         ArchetypeEfficiency,
			Description:       "Quick reservation at the most convenient available time",
			EstimatedDuration: "PT1H",
			Steps:             []Step{book},
			Confidence:        0.90,
		}

	case ArchetypeLuxury:
		params["preference"] = "premium"
		return &Candidate{
			Archetype:         ArchetypeLuxury,
			Description:       "Premium reservation with best available seating and amenities",
			EstimatedDuration: "PT2H",
			Steps:             []Step{book},
			Confidence:        0.85,
		}

	case ArchetypeDiscovery:
		params["preference"] = "experimental"
		return &Candidate{
			Archetype:         ArchetypeDiscovery,
			Description:       "Reservation at an experimental venue with a unique culinary experience",
			EstimatedDuration: "PT2H30M",
			Steps: []Step{
				book,
				{
					Action:     "discover_cuisine",
					Capability: capCuisine,
					Params: map[string]string{
						"cuisine_type": "unknown",
						"location":     r.Location,
					},
					Priority: intent.PriorityMedium,
				},
			},
			Confidence: 0.80,
		}
	}
	return nil
}
