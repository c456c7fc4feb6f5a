package plan_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
)

func allAvailable() plan.AvailabilityMap {
	return plan.AvailabilityMap{
		"uber":      true,
		"opentable": true,
		"calendar":  true,
		"ecommerce": true,
	}
}

func transportIntent(maxCost float64) *intent.Intent {
	return &intent.Intent{
		Category: intent.CategoryTransportation,
		Transportation: &intent.Transportation{
			Pickup:      "Downtown",
			Destination: "Airport",
			MaxCost:     &maxCost,
		},
		Mood:       intent.Mood{Sentiment: intent.SentimentNeutral, Vibe: intent.VibeEfficient, Urgency: intent.UrgencyMedium},
		Confidence: 0.9,
		RawInput:   "Get me an Uber from downtown to the airport",
	}
}

func TestGenerate_ThreeDistinctArchetypes(t *testing.T) {
	plans, err := plan.Generate(transportIntent(50), allAvailable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	want := []plan.Archetype{plan.ArchetypeEfficiency, plan.ArchetypeLuxury, plan.ArchetypeDiscovery}
	for i, a := range want {
		if plans[i].Archetype != a {
			t.Errorf("plan %d: archetype %q, want %q", i, plans[i].Archetype, a)
		}
		if plans[i].Confidence < 0 || plans[i].Confidence > 1 {
			t.Errorf("plan %d: confidence %v out of [0,1]", i, plans[i].Confidence)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	in := transportIntent(50)
	avail := allAvailable()

	first, err := plan.Generate(in, avail, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := plan.Generate(in, avail, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different plan sets")
	}
}

func TestGenerate_CostScaling(t *testing.T) {
	plans, err := plan.Generate(transportIntent(50), allAvailable(), nil)
	if err != nil {
		t.Fatal(err)
	}

	byArchetype := map[plan.Archetype]plan.Candidate{}
	for _, p := range plans {
		byArchetype[p.Archetype] = p
	}

	if got := *byArchetype[plan.ArchetypeLuxury].EstimatedCost; got != 75.0 {
		t.Errorf("luxury cost: got %v, want 75.0", got)
	}
	if got := *byArchetype[plan.ArchetypeDiscovery].EstimatedCost; got != 35.0 {
		t.Errorf("discovery cost: got %v, want 35.0", got)
	}
	if got := *byArchetype[plan.ArchetypeEfficiency].EstimatedCost; got != 50.0 {
		t.Errorf("efficiency cost: got %v, want 50.0", got)
	}
}

func TestGenerate_PurchaseLuxuryTotal(t *testing.T) {
	price := 100.0
	in := &intent.Intent{
		Category: intent.CategoryPurchase,
		Purchase: &intent.Purchase{
			ItemDescription: "mechanical keyboard",
			Quantity:        1,
			MaxPrice:        &price,
		},
		Confidence: 0.8,
	}

	plans, err := plan.Generate(in, allAvailable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range plans {
		if p.Archetype != plan.ArchetypeLuxury {
			continue
		}
		if got := *p.EstimatedCost; got != 170.0 {
			t.Errorf("luxury purchase total: got %v, want 170.0", got)
		}
		if len(p.Steps) != 2 {
			t.Errorf("luxury purchase steps: got %d, want 2 (purchase + delivery)", len(p.Steps))
		}
	}
}

func TestGenerate_CapabilityUnavailable(t *testing.T) {
	avail := allAvailable()
	avail["uber"] = false

	_, err := plan.Generate(transportIntent(50), avail, nil)
	if !errors.Is(err, domain.ErrNoViablePath) {
		t.Fatalf("expected ErrNoViablePath, got %v", err)
	}
}

func TestGenerate_QueryHasNoGenerator(t *testing.T) {
	in := &intent.Intent{
		Category:   intent.CategoryQuery,
		Query:      &intent.Query{Topic: "weather"},
		Confidence: 0.7,
	}
	_, err := plan.Generate(in, allAvailable(), nil)
	if !errors.Is(err, domain.ErrNoViablePath) {
		t.Fatalf("expected ErrNoViablePath for query intent, got %v", err)
	}
}

// fixedBias disfavors a single archetype, standing in for a profile.
type fixedBias struct{ skip plan.Archetype }

func (b fixedBias) Disfavors(a plan.Archetype) bool { return a == b.skip }

func TestGenerate_BiasSkipsArchetype(t *testing.T) {
	plans, err := plan.Generate(transportIntent(50), allAvailable(), fixedBias{skip: plan.ArchetypeLuxury})
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans with luxury skipped, got %d", len(plans))
	}
	for _, p := range plans {
		if p.Archetype == plan.ArchetypeLuxury {
			t.Error("luxury archetype should have been skipped")
		}
	}
}

func TestGenerate_ReservationHasNoBaselineCost(t *testing.T) {
	in := &intent.Intent{
		Category: intent.CategoryReservation,
		Reservation: &intent.Reservation{
			Type:      intent.ReservationRestaurant,
			Location:  "North End",
			PartySize: 2,
		},
		Confidence: 0.85,
	}
	plans, err := plan.Generate(in, allAvailable(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(plans))
	}
	for _, p := range plans {
		if p.EstimatedCost != nil {
			t.Errorf("%s: reservation baseline defines no cost, got %v", p.Archetype, *p.EstimatedCost)
		}
	}
}
