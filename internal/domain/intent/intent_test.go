package intent_test

import (
	"math"
	"testing"

	"github.com/Strob0t/Concierge/internal/domain/intent"
)

func TestValidate_Transportation(t *testing.T) {
	in := &intent.Intent{
		Category: intent.CategoryTransportation,
		Transportation: &intent.Transportation{
			Pickup:      "Home",
			Destination: "Work",
		},
		Confidence: 0.9,
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("expected valid, got: %v", err)
	}
}

func TestValidate_MissingPayload(t *testing.T) {
	in := &intent.Intent{Category: intent.CategoryTransportation, Confidence: 0.9}
	if err := in.Validate(); err == nil {
		t.Fatal("expected error for missing transportation payload")
	}
}

func TestValidate_PayloadCategoryMismatch(t *testing.T) {
	in := &intent.Intent{
		Category:    intent.CategoryPurchase,
		Reservation: &intent.Reservation{Type: intent.ReservationRestaurant},
		Confidence:  0.5,
	}
	if err := in.Validate(); err == nil {
		t.Fatal("expected error: purchase category with no purchase payload")
	}
}

func TestValidate_ConfidenceRange(t *testing.T) {
	in := &intent.Intent{
		Category:   intent.CategoryQuery,
		Query:      &intent.Query{Topic: "weather"},
		Confidence: 1.2,
	}
	if err := in.Validate(); err == nil {
		t.Fatal("expected error for confidence > 1")
	}
}

func TestActivityCategory(t *testing.T) {
	cases := []struct {
		name string
		in   intent.Intent
		want string
	}{
		{
			name: "transportation",
			in:   intent.Intent{Category: intent.CategoryTransportation},
			want: "transportation",
		},
		{
			name: "reservation keyed by type",
			in: intent.Intent{
				Category:    intent.CategoryReservation,
				Reservation: &intent.Reservation{Type: intent.ReservationRestaurant},
			},
			want: "reservation_restaurant",
		},
		{
			name: "schedule",
			in:   intent.Intent{Category: intent.CategorySchedule},
			want: "scheduling",
		},
		{
			name: "custom truncated",
			in:   intent.Intent{Category: intent.CategoryCustom, Custom: "do something entirely unrecognized"},
			want: "custom_do something entirel",
		},
		{
			name: "custom truncated by runes",
			in:   intent.Intent{Category: intent.CategoryCustom, Custom: "café and other niceties please"},
			want: "custom_café and other nicet",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.ActivityCategory(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDefaultScorer(t *testing.T) {
	if got := intent.DefaultScorer(intent.Presence{}); got != 0.5 {
		t.Errorf("base score: got %v, want 0.5", got)
	}
	full := intent.Presence{
		RecognizedCategory: true,
		Temporal:           true,
		Budget:             true,
		Preferences:        true,
	}
	if got := intent.DefaultScorer(full); math.Abs(got-1.0) > 1e-9 || got > 1 {
		t.Errorf("full presence: got %v, want 1.0", got)
	}
	partial := intent.Presence{RecognizedCategory: true, Temporal: true}
	if got := intent.DefaultScorer(partial); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("partial presence: got %v, want 0.9", got)
	}
}
