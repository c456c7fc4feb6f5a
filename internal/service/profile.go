// Package service contains application services.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Strob0t/Concierge/internal/adapter/otel"
	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/profile"
	"github.com/Strob0t/Concierge/internal/port/cache"
	"github.com/Strob0t/Concierge/internal/port/database"
	"github.com/Strob0t/Concierge/internal/port/messagequeue"
)

// ProfileService owns user preference profiles: load-or-create, learner
// application on completed outcomes, and after-the-fact satisfaction
// ratings. Learner application is last-write-wins on preference slots, so
// all writes for one user serialize through a per-user lock.
type ProfileService struct {
	store database.Store
	cache cache.Cache
	queue messagequeue.Queue
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProfileService creates a ProfileService. queue may be nil in tests;
// ttl bounds how long cached profile snapshots are served.
func NewProfileService(store database.Store, c cache.Cache, queue messagequeue.Queue, ttl time.Duration) *ProfileService {
	return &ProfileService{
		store: store,
		cache: c,
		queue: queue,
		ttl:   ttl,
		locks: make(map[string]*sync.Mutex),
	}
}

// Get returns the user's profile, creating an empty one when none is
// persisted yet. Reads go through the cache; a fresh profile is not
// persisted until the first outcome is recorded.
func (s *ProfileService) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	if p, ok := s.cached(ctx, userID); ok {
		return p, nil
	}

	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return profile.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	s.cacheSet(ctx, p)
	return p, nil
}

// RecordOutcome appends an outcome to the user's history, folds it into
// the profile through the learner, and persists the result. The whole
// read-modify-write is serialized per user.
func (s *ProfileService) RecordOutcome(ctx context.Context, userID string, rec profile.OutcomeRecord) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := otel.StartLearnSpan(ctx, userID, rec.ID)
	defer span.End()

	p, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	updated := profile.Apply(p, rec)

	if err := s.store.AppendOutcome(ctx, userID, rec); err != nil {
		return fmt.Errorf("append outcome: %w", err)
	}
	if err := s.store.SaveProfile(ctx, updated); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.cacheSet(ctx, updated)

	s.publishUpdated(ctx, messagequeue.ProfileUpdatedPayload{
		UserID:    userID,
		OutcomeID: rec.ID,
		Archetype: string(rec.Archetype),
	})

	slog.Info("outcome recorded",
		"user_id", userID,
		"outcome_id", rec.ID,
		"category", rec.Category,
		"status", rec.Status,
	)
	return nil
}

// RateOutcome attaches a satisfaction rating (1-5) to a previously
// recorded outcome and re-runs the rating rules over the profile. Returns
// domain.ErrNotFound when the outcome id is not in the user's history.
func (s *ProfileService) RateOutcome(ctx context.Context, userID, outcomeID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, span := otel.StartLearnSpan(ctx, userID, outcomeID)
	defer span.End()

	p, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	updated, ok := profile.ApplyRating(p, outcomeID, rating)
	if !ok {
		return fmt.Errorf("outcome %s: %w", outcomeID, domain.ErrNotFound)
	}
	if err := s.store.SaveProfile(ctx, updated); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.cacheSet(ctx, updated)

	s.publishUpdated(ctx, messagequeue.ProfileUpdatedPayload{
		UserID:    userID,
		OutcomeID: outcomeID,
	})

	slog.Info("outcome rated", "user_id", userID, "outcome_id", outcomeID, "rating", rating)
	return nil
}

// History returns the user's outcome log, newest first.
func (s *ProfileService) History(ctx context.Context, userID string) ([]profile.OutcomeRecord, error) {
	recs, err := s.store.ListOutcomes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes: %w", err)
	}
	return recs, nil
}

// load reads the authoritative profile from the store, bypassing the
// cache. Callers hold the user lock.
func (s *ProfileService) load(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return profile.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) cached(ctx context.Context, userID string) (*profile.Profile, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, profileKey(userID))
	if err != nil || !ok {
		return nil, false
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (s *ProfileService) cacheSet(ctx context.Context, p *profile.Profile) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, profileKey(p.UserID), data, s.ttl); err != nil {
		slog.Debug("profile cache set failed", "user_id", p.UserID, "error", err)
	}
}

func (s *ProfileService) publishUpdated(ctx context.Context, payload messagequeue.ProfileUpdatedPayload) {
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectProfileUpdated, data); err != nil {
		slog.Warn("profile event publish failed", "user_id", payload.UserID, "error", err)
	}
}

// userLock returns the mutex serializing writes for one user.
func (s *ProfileService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

func profileKey(userID string) string { return "profile:" + userID }
