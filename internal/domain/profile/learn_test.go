package profile_test

import (
	"testing"
	"time"

	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/domain/profile"
)

func rating(r int) *int { return &r }

func transportOutcome(id string, a plan.Archetype, ts time.Time) profile.OutcomeRecord {
	return profile.OutcomeRecord{
		ID:       id,
		Category: "transportation",
		Intent: intent.Intent{
			Category: intent.CategoryTransportation,
			Transportation: &intent.Transportation{
				Pickup:      "Home",
				Destination: "Work",
				Vehicle:     intent.VehicleStandard,
			},
		},
		Archetype: a,
		Status:    profile.OutcomeSuccess,
		Timestamp: ts,
	}
}

func TestApply_AppendsHistoryAndCountsFrequency(t *testing.T) {
	p := profile.New("u1")
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	p = profile.Apply(p, transportOutcome("o1", plan.ArchetypeEfficiency, ts))

	if len(p.History) != 1 {
		t.Fatalf("history length: got %d, want 1", len(p.History))
	}
	if got := p.ActivityFrequency("transportation"); got != 1 {
		t.Errorf("frequency: got %d, want 1", got)
	}
	if got := p.QualityPreference("transportation"); got != intent.QualityStandard {
		t.Errorf("quality pref: got %q, want standard", got)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	p := profile.New("u1")
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	_ = profile.Apply(p, transportOutcome("o1", plan.ArchetypeLuxury, ts))

	if len(p.History) != 0 {
		t.Error("Apply mutated its input profile")
	}
	if len(p.QualityPrefs) != 0 {
		t.Error("Apply mutated input quality prefs")
	}
}

func TestApply_FrequencyIsCommutative(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	a := transportOutcome("o1", plan.ArchetypeEfficiency, ts)
	b := transportOutcome("o2", plan.ArchetypeLuxury, ts.Add(time.Hour))

	forward := profile.Apply(profile.Apply(profile.New("u1"), a), b)
	reverse := profile.Apply(profile.Apply(profile.New("u1"), b), a)

	if forward.ActivityFrequency("transportation") != reverse.ActivityFrequency("transportation") {
		t.Error("frequency count depends on application order")
	}
	if len(forward.History) != len(reverse.History) {
		t.Error("history length depends on application order")
	}
}

func TestApply_QualityPreferenceIsLastWriteWins(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	a := transportOutcome("o1", plan.ArchetypeEfficiency, ts)
	b := transportOutcome("o2", plan.ArchetypeLuxury, ts.Add(time.Hour))

	forward := profile.Apply(profile.Apply(profile.New("u1"), a), b)
	reverse := profile.Apply(profile.Apply(profile.New("u1"), b), a)

	if got := forward.QualityPreference("transportation"); got != intent.QualityLuxury {
		t.Errorf("forward order: got %q, want luxury", got)
	}
	// Reversed chronological order lands on a different final value.
	// Documented behavior: callers must apply outcomes in timestamp order.
	if got := reverse.QualityPreference("transportation"); got != intent.QualityStandard {
		t.Errorf("reverse order: got %q, want standard", got)
	}
}

func TestApply_DiscoverySetsVibe(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.Apply(profile.New("u1"), transportOutcome("o1", plan.ArchetypeDiscovery, ts))

	if got := p.VibePreference("transportation"); got != intent.VibeAdventurous {
		t.Errorf("vibe pref: got %q, want adventurous", got)
	}
}

func TestApply_HighRatingReinforces(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	rec := transportOutcome("o1", plan.ArchetypeEfficiency, ts)
	rec.SatisfactionRating = rating(5)

	p := profile.Apply(profile.New("u1"), rec)

	if !p.TransportPrefs[string(intent.VehicleStandard)] {
		t.Error("expected vehicle type reinforced into transport preferences")
	}
}

func TestApply_LowRatingExcludes(t *testing.T) {
	ts := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	rec := profile.OutcomeRecord{
		ID:       "o1",
		Category: "reservation_restaurant",
		Intent: intent.Intent{
			Category:    intent.CategoryReservation,
			Reservation: &intent.Reservation{Type: intent.ReservationRestaurant, Location: "Chez Miserable"},
		},
		Archetype:          plan.ArchetypeLuxury,
		Status:             profile.OutcomeSuccess,
		SatisfactionRating: rating(1),
		Timestamp:          ts,
	}

	p := profile.Apply(profile.New("u1"), rec)

	if !p.Exclusions["Chez Miserable"] {
		t.Error("expected poorly rated location in the exclusion set")
	}
}

func TestPreferredArchetype(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.New("u1")
	p = profile.Apply(p, transportOutcome("o1", plan.ArchetypeEfficiency, ts))
	p = profile.Apply(p, transportOutcome("o2", plan.ArchetypeEfficiency, ts.Add(time.Hour)))
	p = profile.Apply(p, transportOutcome("o3", plan.ArchetypeLuxury, ts.Add(2*time.Hour)))

	got, ok := p.PreferredArchetype("transportation")
	if !ok {
		t.Fatal("expected a preferred archetype")
	}
	if got != plan.ArchetypeEfficiency {
		t.Errorf("got %q, want efficiency", got)
	}
}

func TestPreferredArchetype_TieBrokenByRecency(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.New("u1")
	p = profile.Apply(p, transportOutcome("o1", plan.ArchetypeEfficiency, ts))
	p = profile.Apply(p, transportOutcome("o2", plan.ArchetypeLuxury, ts.Add(time.Hour)))

	got, ok := p.PreferredArchetype("transportation")
	if !ok {
		t.Fatal("expected a preferred archetype")
	}
	if got != plan.ArchetypeLuxury {
		t.Errorf("tie should go to most recent selection; got %q", got)
	}
}

func TestPreferredArchetype_NoSelections(t *testing.T) {
	if _, ok := profile.New("u1").PreferredArchetype("transportation"); ok {
		t.Error("expected ok=false for empty history")
	}
}

func TestAverageSatisfaction(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.New("u1")

	first := transportOutcome("o1", plan.ArchetypeDiscovery, ts)
	first.SatisfactionRating = rating(5)
	second := transportOutcome("o2", plan.ArchetypeDiscovery, ts.Add(time.Hour))
	second.SatisfactionRating = rating(3)

	p = profile.Apply(p, first)
	p = profile.Apply(p, second)

	avg, ok := p.AverageSatisfaction(plan.ArchetypeDiscovery)
	if !ok {
		t.Fatal("expected samples for discovery")
	}
	if avg != 4.0 {
		t.Errorf("got %v, want 4.0", avg)
	}

	if _, ok := p.AverageSatisfaction(plan.ArchetypeLuxury); ok {
		t.Error("expected ok=false with no luxury ratings")
	}
}

func TestApplyRating_LateRating(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.Apply(profile.New("u1"), transportOutcome("o1", plan.ArchetypeEfficiency, ts))

	p, ok := profile.ApplyRating(p, "o1", 5)
	if !ok {
		t.Fatal("expected outcome o1 to be found")
	}
	if p.History[0].SatisfactionRating == nil || *p.History[0].SatisfactionRating != 5 {
		t.Error("rating not recorded on history entry")
	}
	if !p.TransportPrefs[string(intent.VehicleStandard)] {
		t.Error("late rating should reinforce preferences")
	}

	if _, ok := profile.ApplyRating(p, "missing", 4); ok {
		t.Error("expected ok=false for unknown outcome id")
	}
}

func TestDisfavors(t *testing.T) {
	ts := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	p := profile.New("u1")
	for i, r := range []int{1, 2, 1} {
		rec := transportOutcome(string(rune('a'+i)), plan.ArchetypeLuxury, ts.Add(time.Duration(i)*time.Hour))
		rec.SatisfactionRating = rating(r)
		p = profile.Apply(p, rec)
	}

	if !p.Disfavors(plan.ArchetypeLuxury) {
		t.Error("three ratings averaging <= 1.5 should disfavor the archetype")
	}
	if p.Disfavors(plan.ArchetypeEfficiency) {
		t.Error("unrated archetype must not be disfavored")
	}
}
