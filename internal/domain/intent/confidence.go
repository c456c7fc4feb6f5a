package intent

// Presence records which optional elements an extractor managed to pull out
// of the raw input. It is the sole input to confidence scoring, keeping the
// heuristic isolated from parsing logic.
type Presence struct {
	RecognizedCategory bool
	Temporal           bool
	Budget             bool
	Preferences        bool
}

// Scorer turns extraction presence into a confidence score in [0,1].
type Scorer func(Presence) float64

// DefaultScorer is the additive heuristic: base 0.5, +0.3 for a recognized
// category, +0.1 for temporal constraints, +0.05 each for budget and
// preference constraints, clamped to [0,1].
func DefaultScorer(p Presence) float64 {
	score := 0.5
	if p.RecognizedCategory {
		score += 0.3
	}
	if p.Temporal {
		score += 0.1
	}
	if p.Budget {
		score += 0.05
	}
	if p.Preferences {
		score += 0.05
	}
	if score > 1 {
		score = 1
	}
	return score
}
