// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/Strob0t/Concierge/internal/domain/profile"
)

// Store is the port interface for persisted state: user profiles keyed by
// user id and their append-only outcome logs.
type Store interface {
	// Profiles
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	SaveProfile(ctx context.Context, p *profile.Profile) error

	// Outcomes (append-only)
	AppendOutcome(ctx context.Context, userID string, rec profile.OutcomeRecord) error
	ListOutcomes(ctx context.Context, userID string) ([]profile.OutcomeRecord, error)

	// Approval audit
	RecordApproval(ctx context.Context, a ApprovalAudit) error
}

// ApprovalAudit is one audit row per approve decision.
type ApprovalAudit struct {
	SessionID   string `json:"session_id"`
	UserID      string `json:"user_id"`
	ChosenIndex int    `json:"chosen_index"`
	Accepted    bool   `json:"accepted"`
	Reason      string `json:"reason,omitempty"`
}
