// Package approval defines the approval token ports (interfaces). Tokens
// are single-use, bound to one session, and expire; the core never
// interprets token internals.
package approval

import (
	"context"
	"time"
)

// Issuer mints an approval token for a session. The token is returned to
// the caller alongside the proposed plan and must accompany the approve
// call.
type Issuer interface {
	Issue(ctx context.Context, sessionID string, ttl time.Duration) (string, error)
}

// Validator checks an approval token. Validate must return true at most
// once per token: a token resolves to exactly one session, must be
// unexpired, and is consumed by a successful validation.
type Validator interface {
	Validate(ctx context.Context, token, sessionID string) bool
}
