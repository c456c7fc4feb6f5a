// Package extractor implements the intent extractor port with a keyword and
// regex heuristic. It is deliberately simple: deterministic, dependency-free
// at runtime, and good enough to drive the planner. A model-backed extractor
// can replace it behind the same port.
package extractor

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Strob0t/Concierge/internal/domain/intent"
)

var (
	reservationRe    = regexp.MustCompile(`(book|reserve|table|restaurant|hotel|appointment)`)
	transportationRe = regexp.MustCompile(`(uber|taxi|ride|car|pickup|drive|get me to)`)
	scheduleRe       = regexp.MustCompile(`(schedule|calendar|meeting|appointment|event|set up|arrange)`)
	purchaseRe       = regexp.MustCompile(`(buy|purchase|order|get|deliver|send|shop)`)
	queryRe          = regexp.MustCompile(`(what|where|when|who|how|find|search|tell me|know)`)

	locationRe    = regexp.MustCompile(`(?:at|in|near|by)\s+([A-Z][^,.\s]+(?:\s+[A-Z][^,.\s]+)*)`)
	afterPhraseRe = regexp.MustCompile(`^\s+([A-Z][^,.\s]+(?:\s+[A-Z][^,.\s]+)*)`)
	partySizeRe   = regexp.MustCompile(`for\s+(\d+)\s+(?:people|person|ppl|guests?)`)
	timeRe        = regexp.MustCompile(`\b(?:at|on|by|for)\s*(\d{1,2}(?::\d{2})?\s*(?:AM|PM|am|pm)?)\b`)
	dateRe        = regexp.MustCompile(`\b(\d{1,2}/\d{1,2}(?:/\d{2,4})?|\d{4}-\d{2}-\d{2})\b`)
	endTimeRe     = regexp.MustCompile(`(?:until|to)\s+(\d{1,2}(?::\d{2})?\s*(?:AM|PM|am|pm)?)`)
	budgetRe      = regexp.MustCompile(`\$(\d+(?:\.\d{2})?)|(\d+(?:\.\d{2})?)\s+dollars|budget\s+of\s+(\d+(?:\.\d{2})?)`)
	eventTitleRe  = regexp.MustCompile(`(?:schedule|set up|arrange|plan|book)\s+(.+?)(?:\s+for|\s+on|\s+at|$)`)
	attendeesRe   = regexp.MustCompile(`(?:with|and|meet)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)
	quantityRe    = regexp.MustCompile(`(\d+)\s+(?:item|items|piece|pieces|quantity)`)
	itemRe        = regexp.MustCompile(`(?:buy|purchase|order|get)\s+(.+?)(?:\s+for|\s+with|\s+that|$)`)
	queryTopicRe  = regexp.MustCompile(`(?:what|where|when|who|how|find|search|tell me|know)\s+(?:is|are|was|were|about|regarding|concerning)?\s*(.+?)(?:\?|$)`)
)

var positiveWords = []string{"happy", "great", "love", "amazing", "perfect", "excellent", "fantastic", "wonderful"}

var negativeWords = []string{"hate", "terrible", "awful", "horrible", "disappointed", "bad", "annoying", "frustrating"}

var vibeWords = map[intent.Vibe][]string{
	intent.VibeEfficient:   {"quick", "fast", "efficient", "time-saving", "straightforward", "direct"},
	intent.VibeRelaxing:    {"relaxing", "calming", "peaceful", "chill", "unwind", "rest"},
	intent.VibeLuxurious:   {"luxury", "premium", "high-end", "upscale", "exclusive", "posh"},
	intent.VibeAdventurous: {"adventure", "explore", "discover", "new", "different", "exciting"},
	intent.VibeMinimalist:  {"simple", "minimal", "basic", "clean", "straight", "no frills"},
	intent.VibeSocial:      {"social", "friends", "group", "party", "together", "community"},
	intent.VibePrivate:     {"private", "quiet", "personal", "intimate", "alone", "personal space"},
}

// vibeOrder fixes iteration order so ties resolve deterministically.
var vibeOrder = []intent.Vibe{
	intent.VibeEfficient, intent.VibeRelaxing, intent.VibeLuxurious,
	intent.VibeAdventurous, intent.VibeMinimalist, intent.VibeSocial,
	intent.VibePrivate,
}

// Extractor parses natural language into a structured intent.
type Extractor struct {
	score intent.Scorer
}

// New creates an extractor. A nil scorer falls back to the default additive
// heuristic.
func New(score intent.Scorer) *Extractor {
	if score == nil {
		score = intent.DefaultScorer
	}
	return &Extractor{score: score}
}

// Extract parses raw input into a structured intent. It never fails on
// unrecognized input; that becomes a custom intent with base confidence.
func (e *Extractor) Extract(_ context.Context, raw string) (*intent.Intent, error) {
	lower := strings.ToLower(raw)

	out := &intent.Intent{RawInput: raw, Mood: extractMood(lower)}
	e.extractCore(out, raw, lower)

	if t := extractTime(raw); t != "" {
		out.Temporal = &intent.TemporalConstraints{EarliestStart: t}
	}
	if amount, ok := extractBudgetAmount(raw); ok {
		out.Budget = &intent.BudgetConstraints{
			MaxAmount:   amount,
			Currency:    "USD",
			Flexibility: 0.1,
		}
	}
	out.Preferences = extractPreferences(lower)

	out.Confidence = e.score(intent.Presence{
		RecognizedCategory: out.Category != intent.CategoryCustom,
		Temporal:           out.Temporal != nil,
		Budget:             out.Budget != nil,
		Preferences:        out.Preferences != nil,
	})
	return out, nil
}

// extractCore picks the category by first matching pattern, in fixed order,
// and fills the matching payload.
func (e *Extractor) extractCore(out *intent.Intent, raw, lower string) {
	switch {
	case reservationRe.MatchString(lower):
		out.Category = intent.CategoryReservation
		out.Reservation = extractReservation(raw, lower)
	case transportationRe.MatchString(lower):
		out.Category = intent.CategoryTransportation
		out.Transportation = extractTransportation(raw, lower)
	case scheduleRe.MatchString(lower):
		out.Category = intent.CategorySchedule
		out.Schedule = extractSchedule(raw, lower)
	case purchaseRe.MatchString(lower):
		out.Category = intent.CategoryPurchase
		out.Purchase = extractPurchase(raw, lower)
	case queryRe.MatchString(lower):
		out.Category = intent.CategoryQuery
		out.Query = extractQuery(raw, lower)
	default:
		out.Category = intent.CategoryCustom
		out.Custom = raw
	}
}

func extractReservation(raw, lower string) *intent.Reservation {
	typ := intent.ReservationService
	switch {
	case strings.Contains(lower, "restaurant") || strings.Contains(lower, "eat"):
		typ = intent.ReservationRestaurant
	case strings.Contains(lower, "hotel") || strings.Contains(lower, "stay"):
		typ = intent.ReservationHotel
	case strings.Contains(lower, "event"):
		typ = intent.ReservationEvent
	}

	r := &intent.Reservation{
		Type:          typ,
		Location:      extractLocation(raw),
		PreferredTime: extractTime(raw),
	}
	if m := partySizeRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			r.PartySize = n
		}
	}
	if strings.Contains(lower, "window seat") || strings.Contains(lower, "window table") {
		r.SpecialRequests = append(r.SpecialRequests, "Window seating")
	}
	if strings.Contains(lower, "non-smoking") {
		r.SpecialRequests = append(r.SpecialRequests, "Non-smoking area")
	}
	if strings.Contains(lower, "vegetarian") || strings.Contains(lower, "vegan") {
		r.SpecialRequests = append(r.SpecialRequests, "Vegetarian/Vegan options")
	}
	return r
}

func extractTransportation(raw, lower string) *intent.Transportation {
	t := &intent.Transportation{
		Pickup:        "Current location",
		Destination:   "Unknown destination",
		DepartureTime: extractTime(raw),
		Vehicle:       extractVehicle(lower),
	}
	if loc := extractLocationAfter(raw, "from", "pickup"); loc != "" {
		t.Pickup = loc
	}
	if loc := extractLocationAfter(raw, "to", "destination"); loc != "" {
		t.Destination = loc
	}
	if amount, ok := extractBudgetAmount(raw); ok {
		t.MaxCost = &amount
	}
	return t
}

func extractSchedule(raw, lower string) *intent.Schedule {
	title := raw
	if m := eventTitleRe.FindStringSubmatch(lower); m != nil {
		title = m[1]
	}
	start := extractTime(raw)
	if start == "" {
		start = "Not specified"
	}
	end := start
	if m := endTimeRe.FindStringSubmatch(raw); m != nil {
		end = m[1]
	}

	s := &intent.Schedule{
		Title:     title,
		StartTime: start,
		EndTime:   end,
		Location:  extractLocation(raw),
		Priority:  extractPriority(lower),
	}
	for _, m := range attendeesRe.FindAllStringSubmatch(raw, -1) {
		s.Attendees = append(s.Attendees, m[1])
	}
	return s
}

func extractPurchase(raw, lower string) *intent.Purchase {
	p := &intent.Purchase{ItemDescription: raw, Quantity: 1}
	if m := itemRe.FindStringSubmatch(lower); m != nil {
		p.ItemDescription = m[1]
	}
	if m := quantityRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			p.Quantity = n
		}
	}
	if amount, ok := extractBudgetAmount(raw); ok {
		p.MaxPrice = &amount
	}
	switch {
	case strings.Contains(lower, "express") || strings.Contains(lower, "fast") || strings.Contains(lower, "urgent"):
		p.Delivery = intent.DeliveryExpress
	case strings.Contains(lower, "pickup") || strings.Contains(lower, "collect"):
		p.Delivery = intent.DeliveryPickup
	default:
		p.Delivery = intent.DeliveryStandard
	}
	return p
}

func extractQuery(raw, lower string) *intent.Query {
	topic := raw
	if m := queryTopicRe.FindStringSubmatch(lower); m != nil {
		topic = strings.TrimSpace(m[1])
	}
	q := &intent.Query{Topic: topic}
	details := map[string]string{}
	if loc := extractLocation(raw); loc != "" {
		details["location"] = loc
	}
	if t := extractTime(raw); t != "" {
		details["time"] = t
	}
	if len(details) > 0 {
		q.Details = details
	}
	return q
}

func extractLocation(raw string) string {
	if m := locationRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

func extractLocationAfter(raw string, prefixes ...string) string {
	for _, prefix := range prefixes {
		pos := strings.Index(raw, prefix)
		if pos < 0 {
			continue
		}
		if m := afterPhraseRe.FindStringSubmatch(raw[pos+len(prefix):]); m != nil {
			return m[1]
		}
	}
	return ""
}

func extractTime(raw string) string {
	if m := timeRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := dateRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

func extractVehicle(lower string) intent.VehicleType {
	switch {
	case strings.Contains(lower, "luxury") || strings.Contains(lower, "premium"):
		return intent.VehicleLuxury
	case strings.Contains(lower, "bike") || strings.Contains(lower, "motorcycle"):
		return intent.VehicleBike
	case strings.Contains(lower, "pool") || strings.Contains(lower, "shared"):
		return intent.VehiclePool
	}
	return intent.VehicleStandard
}

func extractBudgetAmount(raw string) (float64, bool) {
	m := budgetRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	for _, group := range m[1:] {
		if group == "" {
			continue
		}
		if v, err := strconv.ParseFloat(group, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

func extractPriority(lower string) intent.Priority {
	switch {
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "critical") || strings.Contains(lower, "emergency"):
		return intent.PriorityCritical
	case strings.Contains(lower, "important") || strings.Contains(lower, "high priority"):
		return intent.PriorityHigh
	case strings.Contains(lower, "low priority"):
		return intent.PriorityLow
	}
	return intent.PriorityMedium
}

func extractPreferences(lower string) *intent.PreferenceConstraints {
	p := &intent.PreferenceConstraints{Quality: extractQuality(lower)}

	brandPhrases := []struct{ phrase, brand string }{
		{"starbucks", "Starbucks"},
		{"mcdonald's", "McDonald's"},
		{"mcdonalds", "McDonald's"},
		{"whole foods", "Whole Foods"},
		{"wholefoods", "Whole Foods"},
	}
	for _, bp := range brandPhrases {
		if strings.Contains(lower, bp.phrase) && !contains(p.Brands, bp.brand) {
			p.Brands = append(p.Brands, bp.brand)
		}
	}

	if strings.Contains(lower, "no peanuts") || strings.Contains(lower, "peanut free") {
		p.Exclusions = append(p.Exclusions, "Peanuts")
	}
	if strings.Contains(lower, "no seafood") || strings.Contains(lower, "seafood free") {
		p.Exclusions = append(p.Exclusions, "Seafood")
	}
	if strings.Contains(lower, "not too loud") || strings.Contains(lower, "quiet place") {
		p.Exclusions = append(p.Exclusions, "Loud environments")
	}

	if strings.Contains(lower, "wheelchair") {
		p.AccessibilityNeeds = append(p.AccessibilityNeeds, "wheelchair_accessible")
	}
	if strings.Contains(lower, "hearing impaired") || strings.Contains(lower, "hearing assistance") {
		p.AccessibilityNeeds = append(p.AccessibilityNeeds, "hearing_assistance")
	}
	if strings.Contains(lower, "visual impairment") || strings.Contains(lower, "seeing assistance") {
		p.AccessibilityNeeds = append(p.AccessibilityNeeds, "visual_assistance")
	}

	for _, diet := range []string{"vegetarian", "vegan", "gluten-free", "kosher", "halal"} {
		if strings.Contains(lower, diet) {
			p.DietaryNeeds = append(p.DietaryNeeds, diet)
		}
	}
	if strings.Contains(lower, "gluten free") && !contains(p.DietaryNeeds, "gluten-free") {
		p.DietaryNeeds = append(p.DietaryNeeds, "gluten-free")
	}

	return p
}

func extractQuality(lower string) intent.QualityLevel {
	switch {
	case strings.Contains(lower, "premium") || strings.Contains(lower, "high-end") || strings.Contains(lower, "luxury"):
		return intent.QualityPremium
	case strings.Contains(lower, "basic") || strings.Contains(lower, "simple") || strings.Contains(lower, "minimal"):
		return intent.QualityBasic
	case strings.Contains(lower, "deluxe") || strings.Contains(lower, "top") || strings.Contains(lower, "best"):
		return intent.QualityLuxury
	}
	return intent.QualityStandard
}

func extractMood(lower string) intent.Mood {
	pos, neg := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	sentiment := intent.SentimentNeutral
	if neg > pos {
		sentiment = intent.SentimentNegative
	} else if pos > neg {
		sentiment = intent.SentimentPositive
	}

	vibe := intent.VibeEfficient
	best := 0
	for _, v := range vibeOrder {
		score := 0
		for _, w := range vibeWords[v] {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > best {
			best = score
			vibe = v
		}
	}

	urgency := intent.UrgencyMedium
	switch {
	case strings.Contains(lower, "now") || strings.Contains(lower, "immediately") ||
		strings.Contains(lower, "right away") || strings.Contains(lower, "asap") ||
		strings.Contains(lower, "urgent"):
		urgency = intent.UrgencyImmediate
	case strings.Contains(lower, "soon") || strings.Contains(lower, "today") || strings.Contains(lower, "tonight"):
		urgency = intent.UrgencyHigh
	case strings.Contains(lower, "sometime") || strings.Contains(lower, "whenever"):
		urgency = intent.UrgencyLow
	}

	return intent.Mood{Sentiment: sentiment, Vibe: vibe, Urgency: urgency}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
