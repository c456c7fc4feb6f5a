package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/Concierge/internal/adapter/postgres"
	"github.com/Strob0t/Concierge/internal/domain"
	"github.com/Strob0t/Concierge/internal/domain/intent"
	"github.com/Strob0t/Concierge/internal/domain/plan"
	"github.com/Strob0t/Concierge/internal/domain/profile"
	"github.com/Strob0t/Concierge/internal/port/database"
)

// setupStore creates a pgxpool connection, runs all migrations, and returns a
// ready-to-use Store. The pool is closed via t.Cleanup.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool)
}

func TestProfileRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	userID := "user-" + uuid.NewString()
	if _, err := store.GetProfile(ctx, userID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetProfile for unknown user: err = %v, want ErrNotFound", err)
	}

	p := profile.New(userID)
	p.QualityPrefs["transportation"] = intent.QualityLuxury
	p.ActivityCounts["transportation"] = 3
	p.LastUpdated = time.Now().UTC()
	if err := store.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	got, err := store.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.QualityPrefs["transportation"] != intent.QualityLuxury {
		t.Errorf("quality pref = %s, want luxury", got.QualityPrefs["transportation"])
	}
	if got.ActivityCounts["transportation"] != 3 {
		t.Errorf("activity count = %d, want 3", got.ActivityCounts["transportation"])
	}

	// upsert replaces the document
	p.ActivityCounts["transportation"] = 4
	if err := store.SaveProfile(ctx, p); err != nil {
		t.Fatalf("SaveProfile upsert: %v", err)
	}
	got, err = store.GetProfile(ctx, userID)
	if err != nil {
		t.Fatalf("GetProfile after upsert: %v", err)
	}
	if got.ActivityCounts["transportation"] != 4 {
		t.Errorf("activity count after upsert = %d, want 4", got.ActivityCounts["transportation"])
	}
}

func TestOutcomeAppendAndList(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	userID := "user-" + uuid.NewString()
	first := profile.OutcomeRecord{
		ID:        uuid.NewString(),
		Category:  "transportation",
		Archetype: plan.ArchetypeEfficiency,
		Status:    profile.OutcomeSuccess,
		Timestamp: time.Now().UTC().Add(-time.Hour),
	}
	second := profile.OutcomeRecord{
		ID:        uuid.NewString(),
		Category:  "purchase",
		Archetype: plan.ArchetypeLuxury,
		Status:    profile.OutcomeFailure,
		Timestamp: time.Now().UTC(),
	}
	for _, rec := range []profile.OutcomeRecord{first, second} {
		if err := store.AppendOutcome(ctx, userID, rec); err != nil {
			t.Fatalf("AppendOutcome: %v", err)
		}
	}

	got, err := store.ListOutcomes(ctx, userID)
	if err != nil {
		t.Fatalf("ListOutcomes: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListOutcomes returned %d records, want 2", len(got))
	}
	if got[0].ID != second.ID {
		t.Errorf("first record = %s, want newest %s", got[0].ID, second.ID)
	}
}

func TestRecordApproval(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	err := store.RecordApproval(ctx, database.ApprovalAudit{
		SessionID:   uuid.NewString(),
		UserID:      "user-" + uuid.NewString(),
		ChosenIndex: 1,
		Accepted:    true,
	})
	if err != nil {
		t.Fatalf("RecordApproval: %v", err)
	}
}
