package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSink persists GameSummary rows, grounded on
// storage/postgres.go's PostgresRepo: a pgxpool.Pool, %w-wrapped
// domain.UnexpectedDatabaseError on anything not context
// cancellation, rounds/final_scores serialized as jsonb.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(ctx context.Context, connString string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Close() {
	s.pool.Close()
}

func (s *PostgresSink) Record(ctx context.Context, summary domain.GameSummary) error {
	rounds, err := json.Marshal(summary.Rounds)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	scores, err := json.Marshal(summary.FinalScores)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, x_player, o_player, rounds, final_scores, reason, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, summary.GameId, summary.XPlayer, summary.OPlayer, rounds, scores, summary.Reason, summary.StartedAt, summary.EndedAt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	return nil
}
