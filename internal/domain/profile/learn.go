package profile

import (
	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
)

// Apply folds one outcome into a profile and returns the updated copy. The
// input profile is not modified, so the whole rule set can be replayed over
// a stored outcome log.
//
// Rules, in order:
//  1. Append the outcome to history (commutative).
//  2. Increment the activity-category frequency counter (commutative).
//  3. Record the selected archetype: Efficiency sets the category's quality
//     preference to Standard, Luxury sets it to Luxury, Discovery sets the
//     category's vibe preference to Adventurous. Last write wins, so callers
//     wanting deterministic results must apply outcomes in timestamp order.
//  4. Rating >= 4 reinforces concrete attributes of the intent.
//  5. Rating <= 2 adds disfavored concrete attributes to the exclusion set.
func Apply(p *Profile, rec OutcomeRecord) *Profile {
	out := p.Clone()

	out.History = append(out.History, rec)
	out.ActivityCounts[rec.Category]++

	if rec.Archetype != "" {
		counts := out.SelectionCounts[rec.Category]
		if counts == nil {
			counts = make(map[string]int)
			out.SelectionCounts[rec.Category] = counts
		}
		counts[string(rec.Archetype)]++

		switch rec.Archetype {
		case plan.ArchetypeEfficiency:
			out.QualityPrefs[rec.Category] = intent.QualityStandard
		case plan.ArchetypeLuxury:
			out.QualityPrefs[rec.Category] = intent.QualityLuxury
		case plan.ArchetypeDiscovery:
			out.VibePrefs[rec.Category] = intent.VibeAdventurous
		}
	}

	// Accumulate time-of-day patterns from the intent's temporal window.
	if tc := rec.Intent.Temporal; tc != nil && tc.PreferredStart != "" && tc.PreferredEnd != "" {
		out.TimePrefs[rec.Category] = append(out.TimePrefs[rec.Category],
			tc.PreferredStart+"-"+tc.PreferredEnd)
	}

	if rec.SatisfactionRating != nil {
		applyRating(out, rec, *rec.SatisfactionRating)
	}

	if rec.Timestamp.After(out.LastUpdated) {
		out.LastUpdated = rec.Timestamp
	}
	return out
}

// ApplyRating attaches a satisfaction rating to a previously recorded
// outcome and re-runs the rating rules. Returns ok=false when no outcome
// with the given id exists.
func ApplyRating(p *Profile, outcomeID string, rating int) (*Profile, bool) {
	out := p.Clone()
	for i := range out.History {
		if out.History[i].ID != outcomeID {
			continue
		}
		r := rating
		out.History[i].SatisfactionRating = &r
		applyRating(out, out.History[i], rating)
		return out, true
	}
	return p, false
}

// applyRating mutates out in place; callers pass a clone.
func applyRating(out *Profile, rec OutcomeRecord, rating int) {
	if rec.Archetype != "" {
		out.Samples[string(rec.Archetype)] = append(out.Samples[string(rec.Archetype)], rating)
	}

	switch {
	case rating >= 4:
		reinforce(out, &rec.Intent)
	case rating <= 2:
		exclude(out, &rec.Intent)
	}
}

// reinforce strengthens concrete attributes of a well-rated intent.
func reinforce(out *Profile, in *intent.Intent) {
	switch in.Category {
	case intent.CategoryTransportation:
		if in.Transportation != nil && in.Transportation.Vehicle != "" {
			out.TransportPrefs[string(in.Transportation.Vehicle)] = true
		}
	case intent.CategoryReservation:
		if in.Reservation != nil && in.Reservation.Location != "" {
			out.LocationPrefs[in.Reservation.Location] = true
		}
	}
}

// exclude records attributes of a poorly rated intent so later generation
// and conflict checks can steer away from them.
func exclude(out *Profile, in *intent.Intent) {
	switch in.Category {
	case intent.CategoryTransportation:
		if in.Transportation != nil && in.Transportation.Vehicle != "" {
			out.Exclusions[string(in.Transportation.Vehicle)] = true
		}
	case intent.CategoryReservation:
		if in.Reservation != nil && in.Reservation.Location != "" {
			out.Exclusions[in.Reservation.Location] = true
		}
	}
}
