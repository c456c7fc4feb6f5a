package plan

import "github.com/Strob0t/Concierge/internal/domain/intent"

const (
	capCalendar  = "calendar"
	capConcierge = "concierge_service"
	capActivity  = "activity_discovery"
)

func schedule(s *intent.Schedule, avail Availability, a Archetype) *Candidate {
	if !avail.IsAvailable(capCalendar) {
		return nil
	}

	params := map[string]string{
		"event_title": s.Title,
		"start_time":  s.StartTime,
		"end_time":    s.EndTime,
	}
	if s.Location != "" {
		params["location"] = s.Location
	}

	create := Step{
		Action:     "create_calendar_event",
		Capability: capCalendar,
		Params:     params,
		Priority:   s.Priority,
	}

	switch a {
	case ArchetypeEfficiency:
		return &Candidate{
			Archetype:         ArchetypeEfficiency,
			Description:       "Straightforward calendar entry with minimal setup",
			EstimatedCost:     cost(0),
			EstimatedDuration: "PT5M",
			Steps:             []Step{create},
			Confidence:        0.95,
		}

	case ArchetypeLuxury:
		return &Candidate{
			Archetype:         ArchetypeLuxury,
			Description:       "Calendar event with luxury coordination services",
			EstimatedCost:     cost(100),
			EstimatedDuration: "PT10M",
			Steps: []Step{
				create,
				{
					Action:     "coordinate_luxury_services",
					Capability: capConcierge,
					Params: map[string]string{
						"event_id":     "{{event_id}}", // resolved by the executor after the create step
						"service_type": "concierge",
					},
					Priority: intent.PriorityHigh,
				},
			},
			Confidence: 0.90,
		}

	case ArchetypeDiscovery:
		return &Candidate{
			Archetype:         ArchetypeDiscovery,
			Description:       "Calendar event with discovery of related activities",
			EstimatedCost:     cost(0),
			EstimatedDuration: "PT15M",
			Steps: []Step{
				create,
				{
					Action:     "discover_related_activities",
					Capability: capActivity,
					Params: map[string]string{
						"event_topic": s.Title,
						"location":    s.Location,
					},
					Priority: intent.PriorityMedium,
				},
			},
			Confidence: 0.85,
		}
	}
	return nil
}
