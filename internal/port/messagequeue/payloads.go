package messagequeue

// SessionCreatedPayload is the schema for sessions.created messages.
type SessionCreatedPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Category  string `json:"category"`
}

// SessionProposedPayload is the schema for sessions.proposed messages.
type SessionProposedPayload struct {
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	PlanCount int      `json:"plan_count"`
	Conflicts []string `json:"conflicts,omitempty"`
}

// SessionApprovedPayload is the schema for sessions.approved and
// sessions.rejected messages.
type SessionApprovedPayload struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	ChosenIndex int    `json:"chosen_index"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
}

// SessionCompletedPayload is the schema for sessions.completed messages.
type SessionCompletedPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	StepCount int    `json:"step_count"`
	Failed    int    `json:"failed"`
}

// SessionFailedPayload is the schema for sessions.failed and
// sessions.expired messages.
type SessionFailedPayload struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
}

// ProfileUpdatedPayload is the schema for profiles.updated messages.
type ProfileUpdatedPayload struct {
	UserID    string `json:"user_id"`
	OutcomeID string `json:"outcome_id"`
	Archetype string `json:"archetype"`
}
