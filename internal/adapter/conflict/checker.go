// Package conflict implements the conflict checker port. Checks are
// advisory: each finding becomes a human-readable note surfaced alongside
// the proposed plans, never a hard rejection.
package conflict

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/profile"
)

// Checker compares an intent against the user's profile and reports
// anything that contradicts learned preferences.
type Checker struct{}

// New creates a checker.
func New() *Checker {
	return &Checker{}
}

// CheckConflicts runs all advisory checks. A nil profile yields no findings.
func (c *Checker) CheckConflicts(_ context.Context, in *intent.Intent, prof *profile.Profile) []string {
	if in == nil || prof == nil {
		return nil
	}

	var out []string
	out = append(out, exclusionConflicts(in, prof)...)
	out = append(out, budgetConflicts(in, prof)...)
	out = append(out, transportConflicts(in, prof)...)
	out = append(out, dietaryConflicts(in, prof)...)
	return out
}

// exclusionConflicts flags raw input or reservation locations that mention
// something the user has excluded after bad experiences.
func exclusionConflicts(in *intent.Intent, prof *profile.Profile) []string {
	if len(prof.Exclusions) == 0 {
		return nil
	}
	excluded := make([]string, 0, len(prof.Exclusions))
	for term := range prof.Exclusions {
		excluded = append(excluded, term)
	}
	sort.Strings(excluded)

	lower := strings.ToLower(in.RawInput)
	var location string
	if in.Reservation != nil {
		location = strings.ToLower(in.Reservation.Location)
	}

	var out []string
	for _, term := range excluded {
		t := strings.ToLower(term)
		if t == "" {
			continue
		}
		if strings.Contains(lower, t) || (location != "" && strings.Contains(location, t)) {
			out = append(out, fmt.Sprintf("request mentions %q, which you previously rated poorly", term))
		}
	}
	return out
}

// budgetConflicts flags budgets well above the learned spend band for the
// activity category.
func budgetConflicts(in *intent.Intent, prof *profile.Profile) []string {
	if in.Budget == nil {
		return nil
	}
	band, ok := prof.PricePrefs[in.ActivityCategory()]
	if !ok || band.Max <= 0 {
		return nil
	}
	if in.Budget.MaxAmount > band.Max*1.5 {
		return []string{fmt.Sprintf(
			"budget of %.2f %s is well above your usual %.2f–%.2f for %s",
			in.Budget.MaxAmount, in.Budget.Currency, band.Min, band.Max, in.ActivityCategory())}
	}
	return nil
}

// transportConflicts flags vehicle types the user excluded after poorly
// rated rides.
func transportConflicts(in *intent.Intent, prof *profile.Profile) []string {
	if in.Transportation == nil || in.Transportation.Vehicle == "" {
		return nil
	}
	if prof.Exclusions[string(in.Transportation.Vehicle)] {
		return []string{fmt.Sprintf("vehicle type %q conflicts with your transport preferences", in.Transportation.Vehicle)}
	}
	return nil
}

// dietaryConflicts flags reservations that do not carry the user's known
// dietary needs.
func dietaryConflicts(in *intent.Intent, prof *profile.Profile) []string {
	if in.Reservation == nil || in.Reservation.Type != intent.ReservationRestaurant {
		return nil
	}
	needs := make([]string, 0, len(prof.DietaryNeeds))
	for need, active := range prof.DietaryNeeds {
		if active {
			needs = append(needs, need)
		}
	}
	if len(needs) == 0 {
		return nil
	}
	sort.Strings(needs)

	stated := make(map[string]bool)
	if in.Preferences != nil {
		for _, need := range in.Preferences.DietaryNeeds {
			stated[strings.ToLower(need)] = true
		}
	}

	var missing []string
	for _, need := range needs {
		if !stated[strings.ToLower(need)] {
			missing = append(missing, need)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []string{fmt.Sprintf("reservation does not mention your usual dietary needs: %s", strings.Join(missing, ", "))}
}
