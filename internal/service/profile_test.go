package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Strob0t/Concierge/internal/adapter/ristretto"
	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/domain/profile"
)

func testOutcome(id string, archetype plan.Archetype) profile.OutcomeRecord {
	return profile.OutcomeRecord{
		ID:       id,
		Category: "reservation_restaurant",
		Intent: intent.Intent{
			Category: intent.CategoryReservation,
			Reservation: &intent.Reservation{
				Type:     intent.ReservationRestaurant,
				Location: "Bistro",
			},
			Confidence: 0.9,
			RawInput:   "book a table at Bistro",
		},
		Archetype: archetype,
		Status:    profile.OutcomeSuccess,
		Timestamp: time.Now(),
	}
}

func TestProfileGetCreatesEmpty(t *testing.T) {
	svc := NewProfileService(newMemStore(), nil, nil, time.Minute)

	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.UserID != "user-1" || len(p.History) != 0 {
		t.Errorf("got %+v, want empty profile for user-1", p)
	}
}

func TestProfileRecordOutcome(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(store, nil, nil, time.Minute)

	if err := svc.RecordOutcome(context.Background(), "user-1", testOutcome("o-1", plan.ArchetypeLuxury)); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}

	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.ActivityCounts["reservation_restaurant"] != 1 {
		t.Errorf("activity count = %d, want 1", p.ActivityCounts["reservation_restaurant"])
	}
	if got := p.QualityPrefs["reservation_restaurant"]; got != intent.QualityLuxury {
		t.Errorf("quality pref = %s, want %s", got, intent.QualityLuxury)
	}

	outcomes, err := svc.History(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].ID != "o-1" {
		t.Errorf("history = %+v, want the recorded outcome", outcomes)
	}
}

func TestProfileRateOutcome(t *testing.T) {
	store := newMemStore()
	svc := NewProfileService(store, nil, nil, time.Minute)

	if err := svc.RecordOutcome(context.Background(), "user-1", testOutcome("o-1", plan.ArchetypeLuxury)); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}
	if err := svc.RateOutcome(context.Background(), "user-1", "o-1", 5); err != nil {
		t.Fatalf("RateOutcome() error = %v", err)
	}

	p, _ := svc.Get(context.Background(), "user-1")
	if got := p.History[0].SatisfactionRating; got == nil || *got != 5 {
		t.Errorf("rating = %v, want 5", got)
	}
	// A high rating on a reservation reinforces its location.
	if !p.LocationPrefs["Bistro"] {
		t.Errorf("location prefs = %+v, want Bistro reinforced", p.LocationPrefs)
	}
}

func TestProfileRateOutcomeValidation(t *testing.T) {
	svc := NewProfileService(newMemStore(), nil, nil, time.Minute)

	if err := svc.RateOutcome(context.Background(), "user-1", "o-1", 9); err == nil {
		t.Error("expected error for out-of-range rating")
	}
	if err := svc.RateOutcome(context.Background(), "user-1", "missing", 3); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("RateOutcome() error = %v, want ErrNotFound", err)
	}
}

func TestProfileCacheReadThrough(t *testing.T) {
	store := newMemStore()
	c, err := ristretto.New(1 << 20)
	if err != nil {
		t.Fatalf("ristretto.New() error = %v", err)
	}
	defer c.Close()
	svc := NewProfileService(store, c, nil, time.Minute)

	if err := svc.RecordOutcome(context.Background(), "user-1", testOutcome("o-1", plan.ArchetypeEfficiency)); err != nil {
		t.Fatalf("RecordOutcome() error = %v", err)
	}
	c.Wait()

	// Remove the stored row; a cache hit still serves the profile.
	store.mu.Lock()
	delete(store.profiles, "user-1")
	store.mu.Unlock()

	p, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(p.History) != 1 {
		t.Errorf("history = %d, want 1 from cached snapshot", len(p.History))
	}
}
