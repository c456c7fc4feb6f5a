package approval_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Strob0t/Concierge/internal/adapter/approval"
)

func TestIssueAndValidate(t *testing.T) {
	tokens := approval.New("test-secret")
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !tokens.Validate(ctx, tok, "sess-1") {
		t.Error("valid token rejected")
	}
}

func TestTokenIsSingleUse(t *testing.T) {
	tokens := approval.New("test-secret")
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !tokens.Validate(ctx, tok, "sess-1") {
		t.Fatal("first use rejected")
	}
	if tokens.Validate(ctx, tok, "sess-1") {
		t.Error("second use accepted")
	}
}

func TestTokenBoundToSession(t *testing.T) {
	tokens := approval.New("test-secret")
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if tokens.Validate(ctx, tok, "sess-2") {
		t.Error("token accepted for a different session")
	}
	// the failed attempt must not consume the token
	if !tokens.Validate(ctx, tok, "sess-1") {
		t.Error("token rejected for its own session after cross-session attempt")
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now()
	tokens := approval.NewWithClock("test-secret", func() time.Time { return now })
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if tokens.Validate(ctx, tok, "sess-1") {
		t.Error("expired token accepted")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	tokens := approval.New("test-secret")
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.SplitN(tok, ".", 2)
	forged := parts[0] + ".AAAA" + parts[1][4:]
	if tokens.Validate(ctx, forged, "sess-1") {
		t.Error("tampered token accepted")
	}

	other := approval.New("other-secret")
	if other.Validate(ctx, tok, "sess-1") {
		t.Error("token signed with different secret accepted")
	}
}

func TestForget(t *testing.T) {
	tokens := approval.New("test-secret")
	ctx := context.Background()

	tok, err := tokens.Issue(ctx, "sess-1", time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if !tokens.Validate(ctx, tok, "sess-1") {
		t.Fatal("first use rejected")
	}
	tokens.Forget("sess-1")
	// Forget drops the consumed-token state, so the token validates again
	if !tokens.Validate(ctx, tok, "sess-1") {
		t.Error("token rejected after Forget cleared used state")
	}
}
