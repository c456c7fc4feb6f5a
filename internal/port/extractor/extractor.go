// Package extractor defines the intent extractor port (interface).
package extractor

import (
	"context"

	"github.com/Strob0t/Concierge/internal/domain/intent"
)

// Extractor turns raw user input into a structured intent. The core treats
// its output as already-validated data, confidence score included.
type Extractor interface {
	Extract(ctx context.Context, raw string) (*intent.Intent, error)
}
