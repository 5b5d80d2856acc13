package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/sweeper/internal/database"
)

func TestOutcomeFilterWhereClause(t *testing.T) {
	clause, args := OutcomeFilter{}.WhereClause()
	assert.Empty(t, clause)
	assert.Empty(t, args)

	won, size := "won", 9
	clause, args = OutcomeFilter{Outcome: &won, Size: &size}.WhereClause()
	assert.Equal(t, "outcome = @outcome AND size = @size", clause)
	assert.Equal(t, "won", args["outcome"])
	assert.Equal(t, 9, args["size"])
}

func setupQueries(t *testing.T) *Queries {
	t.Helper()
	url, ok := os.LookupEnv("TEST_DATABASE_URL")
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	_, err := database.Migrate(url, database.Migrations)
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return New(pool)
}

func TestRecordAndListOutcomes(t *testing.T) {
	q := setupQueries(t)
	ctx := context.Background()

	ended := time.Now().UTC().Truncate(time.Millisecond)
	o := GameOutcome{
		GameId:    uuid.NewString(),
		SessionId: uuid.NewString(),
		Size:      7,
		MineCount: 3,
		Outcome:   "lost",
		Revealed:  12,
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
	require.NoError(t, q.RecordOutcome(ctx, o))
	assert.ErrorIs(t, q.RecordOutcome(ctx, o), ErrAlreadyRecorded)

	// the same session after a restart
	next := o
	next.GameId = uuid.NewString()
	next.Outcome = "won"
	require.NoError(t, q.RecordOutcome(ctx, next))

	size := 7
	outcomes, err := q.ListOutcomes(ctx, OutcomeFilter{Size: &size, Limit: 500})
	require.NoError(t, err)

	bySession := make(map[string]string)
	for _, got := range outcomes {
		if got.SessionId == o.SessionId {
			bySession[got.GameId] = got.Outcome
			assert.Equal(t, o.Revealed, got.Revealed)
			assert.True(t, o.EndedAt.Equal(got.EndedAt))
		}
	}
	assert.Equal(t, map[string]string{o.GameId: "lost", next.GameId: "won"}, bySession)
}
