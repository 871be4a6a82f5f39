// Package history persists completed games. Grounded on the teacher's
// storage/postgres.go repository shape: a pgxpool.Pool and %w-wrapped
// domain errors.
package history

import (
	"context"

	"github.com/TheAwiteb/xors/internal/domain"
)

// Sink records a finished game's summary. Implementations must not
// block the GameSession actor that produced it — callers are expected
// to invoke Record from a separate goroutine or a buffered worker.
type Sink interface {
	Record(ctx context.Context, summary domain.GameSummary) error
}
