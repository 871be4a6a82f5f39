package history_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/TheAwiteb/xors/internal/domain"
	"github.com/TheAwiteb/xors/internal/history"
	"github.com/TheAwiteb/xors/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestMain spins up a throwaway Postgres via testcontainers, grounded
// on the teacher's storage/postgres_test.go TestMain, and applies the
// same embedded migrations cmd/server would run at startup.
var sink *history.PostgresSink

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine3.22",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testusername"),
		postgres.WithPassword("testpassword"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		panic(err)
	}

	if err := migrations.Migrate(connString); err != nil {
		panic(err)
	}

	sink, err = history.NewPostgresSink(ctx, connString)
	if err != nil {
		panic(err)
	}

	code := m.Run()

	sink.Close()
	pgContainer.Terminate(ctx)
	os.Exit(code)
}

func TestPostgresSink_RecordAndRejectDuplicate(t *testing.T) {
	ctx := context.Background()
	alice := domain.PlayerId("22222222-2222-2222-2222-222222222222")
	bob := domain.PlayerId("33333333-3333-3333-3333-333333333333")

	summary := domain.GameSummary{
		GameId:  "11111111-1111-1111-1111-111111111111",
		XPlayer: alice,
		OPlayer: bob,
		Rounds: []domain.RoundResult{
			{Round: 1, Winner: alice},
			{Round: 2, Winner: bob},
			{Round: 3, Winner: alice},
		},
		FinalScores: map[domain.PlayerId]int{alice: 2, bob: 1},
		Reason:      domain.ReasonPlayerWon,
		StartedAt:   time.Now().Add(-time.Minute).UTC(),
		EndedAt:     time.Now().UTC(),
	}

	err := sink.Record(ctx, summary)
	require.NoError(t, err)

	// Recording the same game id twice hits the primary key and comes
	// back as a wrapped UnexpectedDatabaseError, not a panic.
	err = sink.Record(ctx, summary)
	assert.Error(t, err)
}
