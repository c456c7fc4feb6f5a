package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/profile"
	"github.com/Strob0t/Concierge/internal/port/database"
)

// Store implements database.Store using PostgreSQL. Profiles are stored as
// one JSONB document per user; outcomes get their own append-only table so
// they can be queried without loading the whole profile.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetProfile loads a user's profile document.
func (s *Store) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT profile FROM user_profiles WHERE user_id = $1`, userID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get profile %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}

	var p profile.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile %s: %w", userID, err)
	}
	return &p, nil
}

// SaveProfile upserts a user's profile document.
func (s *Store) SaveProfile(ctx context.Context, p *profile.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.UserID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, profile, last_updated)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE SET profile = $2, last_updated = $3`,
		p.UserID, doc, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}
	return nil
}

// AppendOutcome inserts one outcome record. Records are never updated; a
// late satisfaction rating is written through SaveProfile's history.
func (s *Store) AppendOutcome(ctx context.Context, userID string, rec profile.OutcomeRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal outcome %s: %w", rec.ID, err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO outcome_records (id, user_id, category, archetype, status, rating, record, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, userID, rec.Category, string(rec.Archetype), string(rec.Status),
		rec.SatisfactionRating, doc, rec.Timestamp)
	if err != nil {
		return fmt.Errorf("append outcome %s: %w", rec.ID, err)
	}
	return nil
}

// ListOutcomes returns a user's outcome records, newest first.
func (s *Store) ListOutcomes(ctx context.Context, userID string) ([]profile.OutcomeRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT record FROM outcome_records WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes for %s: %w", userID, err)
	}
	defer rows.Close()

	var out []profile.OutcomeRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		var rec profile.OutcomeRecord
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal outcome: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordApproval inserts one audit row per approve decision.
func (s *Store) RecordApproval(ctx context.Context, a database.ApprovalAudit) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO approval_audit (session_id, user_id, chosen_index, accepted, reason)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.SessionID, a.UserID, a.ChosenIndex, a.Accepted, a.Reason)
	if err != nil {
		return fmt.Errorf("record approval for %s: %w", a.SessionID, err)
	}
	return nil
}
