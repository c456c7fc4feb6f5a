// Package approval implements the approval token ports with HMAC-SHA256
// signed tokens. A token binds one session to one approval decision: it
// expires with the approval window and is consumed on first use.
package approval

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Tokens issues and validates single-use approval tokens. It satisfies both
// the Issuer and Validator ports.
type Tokens struct {
	secret []byte
	now    func() time.Time

	mu   sync.Mutex
	used map[string]bool
}

// New creates a token service with the given signing secret.
func New(secret string) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		now:    time.Now,
		used:   make(map[string]bool),
	}
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(secret string, now func() time.Time) *Tokens {
	t := New(secret)
	t.now = now
	return t
}

// Issue creates a token bound to sessionID, valid for ttl.
func (t *Tokens) Issue(_ context.Context, sessionID string, ttl time.Duration) (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating token nonce: %w", err)
	}
	expires := t.now().Add(ttl).Unix()
	payload := fmt.Sprintf("%s|%d|%s", sessionID, expires, b64(nonce))
	return b64([]byte(payload)) + "." + t.sign(payload), nil
}

// Validate checks the token's signature, session binding, and expiry, and
// consumes it. A token validates successfully at most once.
func (t *Tokens) Validate(_ context.Context, token, sessionID string) bool {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return false
	}
	payload := string(raw)
	if !hmac.Equal([]byte(t.sign(payload)), []byte(parts[1])) {
		return false
	}

	fields := strings.Split(payload, "|")
	if len(fields) != 3 || fields[0] != sessionID {
		return false
	}
	expires, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || t.now().Unix() > expires {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.used[token] {
		return false
	}
	t.used[token] = true
	return true
}

// Forget drops consumed-token state for a session's tokens. Called when a
// session reaches a terminal stage so the used set does not grow unbounded.
func (t *Tokens) Forget(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	prefix := sessionID + "|"
	for token := range t.used {
		if raw, err := base64.RawURLEncoding.DecodeString(strings.SplitN(token, ".", 2)[0]); err == nil &&
			strings.HasPrefix(string(raw), prefix) {
			delete(t.used, token)
		}
	}
}

func (t *Tokens) sign(payload string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(payload))
	return b64(mac.Sum(nil))
}

func b64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}
