// Package intent defines the StructuredIntent domain entity: the structured
// form of a user request, as produced by an intent extractor. Values are
// immutable once produced.
package intent

import "errors"

// Category identifies which variant of the intent union is populated.
type Category string

const (
	CategoryReservation    Category = "reservation"
	CategorySchedule       Category = "schedule"
	CategoryTransportation Category = "transportation"
	CategoryPurchase       Category = "purchase"
	CategoryQuery          Category = "query"
	CategoryCustom         Category = "custom"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryReservation, CategorySchedule, CategoryTransportation,
		CategoryPurchase, CategoryQuery, CategoryCustom:
		return true
	}
	return false
}

// ReservationType narrows a reservation intent.
type ReservationType string

const (
	ReservationRestaurant ReservationType = "restaurant"
	ReservationHotel      ReservationType = "hotel"
	ReservationEvent      ReservationType = "event"
	ReservationService    ReservationType = "service"
)

// VehicleType is a transportation vehicle preference.
type VehicleType string

const (
	VehicleStandard VehicleType = "standard"
	VehicleLuxury   VehicleType = "luxury"
	VehiclePool     VehicleType = "pool"
	VehicleBike     VehicleType = "bike"
)

// DeliveryMethod is a purchase delivery preference.
type DeliveryMethod string

const (
	DeliveryStandard DeliveryMethod = "standard"
	DeliveryExpress  DeliveryMethod = "express"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// Reservation carries the fields of a reservation request.
type Reservation struct {
	Type            ReservationType `json:"type"`
	Location        string          `json:"location,omitempty"`
	PartySize       int             `json:"party_size,omitempty"`
	PreferredTime   string          `json:"preferred_time,omitempty"`
	SpecialRequests []string        `json:"special_requests,omitempty"`
}

// Schedule carries the fields of a calendar event request.
type Schedule struct {
	Title     string   `json:"title"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Location  string   `json:"location,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
	Priority  Priority `json:"priority"`
}

// Transportation carries the fields of a ride request.
type Transportation struct {
	Pickup        string      `json:"pickup"`
	Destination   string      `json:"destination"`
	DepartureTime string      `json:"departure_time,omitempty"`
	Vehicle       VehicleType `json:"vehicle,omitempty"`
	MaxCost       *float64    `json:"max_cost,omitempty"`
}

// Purchase carries the fields of a purchase request.
type Purchase struct {
	ItemDescription string         `json:"item_description"`
	Quantity        int            `json:"quantity"`
	MaxPrice        *float64       `json:"max_price,omitempty"`
	Delivery        DeliveryMethod `json:"delivery,omitempty"`
}

// Query carries the fields of an open-ended information request.
type Query struct {
	Topic   string            `json:"topic"`
	Details map[string]string `json:"details,omitempty"`
}

// Priority orders execution steps and scheduled events.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// TemporalConstraints bound when the action may happen. Times and durations
// are ISO 8601 strings, carried opaque.
type TemporalConstraints struct {
	EarliestStart  string `json:"earliest_start,omitempty"`
	LatestEnd      string `json:"latest_end,omitempty"`
	PreferredStart string `json:"preferred_start,omitempty"`
	PreferredEnd   string `json:"preferred_end,omitempty"`
	Duration       string `json:"duration,omitempty"`
}

// BudgetConstraints bound what the action may cost.
type BudgetConstraints struct {
	MaxAmount   float64 `json:"max_amount"`
	Currency    string  `json:"currency"`
	Flexibility float64 `json:"flexibility"` // acceptable overshoot, 0.0–1.0
}

// QualityLevel is a coarse quality preference.
type QualityLevel string

const (
	QualityBasic    QualityLevel = "basic"
	QualityStandard QualityLevel = "standard"
	QualityPremium  QualityLevel = "premium"
	QualityLuxury   QualityLevel = "luxury"
)

// PreferenceConstraints carry quality, brand, and accessibility requirements.
type PreferenceConstraints struct {
	Quality            QualityLevel `json:"quality,omitempty"`
	Brands             []string     `json:"brands,omitempty"`
	Exclusions         []string     `json:"exclusions,omitempty"`
	AccessibilityNeeds []string     `json:"accessibility_needs,omitempty"`
	DietaryNeeds       []string     `json:"dietary_needs,omitempty"`
}

// Sentiment is the overall tone of the request.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Vibe classifies the style the user is after.
type Vibe string

const (
	VibeEfficient   Vibe = "efficient"
	VibeRelaxing    Vibe = "relaxing"
	VibeLuxurious   Vibe = "luxurious"
	VibeAdventurous Vibe = "adventurous"
	VibeMinimalist  Vibe = "minimalist"
	VibeSocial      Vibe = "social"
	VibePrivate     Vibe = "private"
)

// Urgency classifies how soon the user needs the action.
type Urgency string

const (
	UrgencyLow       Urgency = "low"
	UrgencyMedium    Urgency = "medium"
	UrgencyHigh      Urgency = "high"
	UrgencyImmediate Urgency = "immediate"
)

// Mood bundles the sentiment/vibe/urgency classification of a request.
type Mood struct {
	Sentiment Sentiment `json:"sentiment"`
	Vibe      Vibe      `json:"vibe"`
	Urgency   Urgency   `json:"urgency"`
}

// Intent is the structured representation of one user request. Exactly one
// of the category payload fields is populated, selected by Category.
type Intent struct {
	Category Category `json:"category"`

	Reservation    *Reservation    `json:"reservation,omitempty"`
	Schedule       *Schedule       `json:"schedule,omitempty"`
	Transportation *Transportation `json:"transportation,omitempty"`
	Purchase       *Purchase       `json:"purchase,omitempty"`
	Query          *Query          `json:"query,omitempty"`
	Custom         string          `json:"custom,omitempty"`

	Temporal    *TemporalConstraints   `json:"temporal,omitempty"`
	Budget      *BudgetConstraints     `json:"budget,omitempty"`
	Preferences *PreferenceConstraints `json:"preferences,omitempty"`
	Mood        Mood                   `json:"mood"`
	Confidence  float64                `json:"confidence"`
	RawInput    string                 `json:"raw_input"`
}

// Validate checks that the populated payload matches the declared category
// and that the confidence score is in range.
func (i *Intent) Validate() error {
	if !i.Category.Valid() {
		return errors.New("unknown intent category")
	}
	if i.Confidence < 0 || i.Confidence > 1 {
		return errors.New("confidence must be in [0,1]")
	}
	switch i.Category {
	case CategoryReservation:
		if i.Reservation == nil {
			return errors.New("reservation payload is required")
		}
	case CategorySchedule:
		if i.Schedule == nil {
			return errors.New("schedule payload is required")
		}
		if i.Schedule.Title == "" {
			return errors.New("schedule title is required")
		}
	case CategoryTransportation:
		if i.Transportation == nil {
			return errors.New("transportation payload is required")
		}
		if i.Transportation.Pickup == "" || i.Transportation.Destination == "" {
			return errors.New("pickup and destination are required")
		}
	case CategoryPurchase:
		if i.Purchase == nil {
			return errors.New("purchase payload is required")
		}
		if i.Purchase.ItemDescription == "" {
			return errors.New("item description is required")
		}
	case CategoryQuery:
		if i.Query == nil {
			return errors.New("query payload is required")
		}
	case CategoryCustom:
		// Custom intents carry only the raw text.
	}
	return nil
}

// ActivityCategory returns the category key used for preference learning
// and frequency counting. Reservations are keyed by reservation type.
func (i *Intent) ActivityCategory() string {
	switch i.Category {
	case CategoryTransportation:
		return "transportation"
	case CategoryReservation:
		if i.Reservation != nil {
			return "reservation_" + string(i.Reservation.Type)
		}
		return "reservation"
	case CategorySchedule:
		return "scheduling"
	case CategoryPurchase:
		return "purchase"
	case CategoryQuery:
		return "information"
	default:
		head := []rune(i.Custom)
		if len(head) > 20 {
			head = head[:20]
		}
		return "custom_" + string(head)
	}
}
