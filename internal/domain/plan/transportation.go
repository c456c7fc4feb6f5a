package plan

import "github.com/Strob0t/Concierge/internal/domain/intent"

// Capability names the transportation generators depend on.
const (
	capRide      = "uber"
	capDiscovery = "local_discovery"
)

func transportation(t *intent.Transportation, avail Availability, a Archetype) *Candidate {
	if !avail.IsAvailable(capRide) {
		return nil
	}

	params := map[string]string{
		"pickup":      t.Pickup,
		"destination": t.Destination,
	}
	if t.DepartureTime != "" {
		params["departure_time"] = t.DepartureTime
	}

	switch a {
	case ArchetypeEfficiency:
		if t.Vehicle != "" {
			params["vehicle_type"] = string(t.Vehicle)
		}
		return &Candidate{
			Archetype:         ArchetypeEfficiency,
			Description:       "Direct route with standard vehicle for fastest arrival",
			EstimatedCost:     scaled(t.MaxCost, 1.0),
			EstimatedDuration: "PT30M",
			Steps: []Step{{
				Action:     "book_transportation",
				Capability: capRide,
				Params:     params,
				Priority:   intent.PriorityHigh,
			}},
			Confidence: 0.90,
		}

	case ArchetypeLuxury:
		params["vehicle_type"] = string(intent.VehicleLuxury)
		return &Candidate{
			Archetype:         ArchetypeLuxury,
			Description:       "Luxury vehicle with premium amenities for a comfortable journey",
			EstimatedCost:     scaled(t.MaxCost, 1.5),
			EstimatedDuration: "PT30M",
			Steps: []Step{{
				Action:     "book_transportation",
				Capability: capRide,
				Params:     params,
				Priority:   intent.PriorityHigh,
			}},
			Confidence: 0.85,
		}

	case ArchetypeDiscovery:
		params["vehicle_type"] = string(intent.VehiclePool)
		return &Candidate{
			Archetype:         ArchetypeDiscovery,
			Description:       "Shared ride with stops at interesting places along the way",
			EstimatedCost:     scaled(t.MaxCost, 0.7),
			EstimatedDuration: "PT45M",
			Steps: []Step{
				{
					Action:     "book_transportation",
					Capability: capRide,
					Params:     params,
					Priority:   intent.PriorityHigh,
				},
				{
					Action:     "explore_nearby",
					Capability: capDiscovery,
					Params: map[string]string{
						"location": t.Destination,
						"category": "attractions",
						"radius":   "2000",
					},
					Priority: intent.PriorityMedium,
				},
			},
			Confidence: 0.80,
		}
	}
	return nil
}
