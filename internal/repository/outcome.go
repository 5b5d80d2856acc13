package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrAlreadyRecorded = errors.New("outcome already recorded for game")

// GameOutcome is the journal row written once per finished board. A
// session that restarts writes one row per board, each under its own
// GameId. It never carries the board, so a session cannot be restored
// from it.
type GameOutcome struct {
	GameId    string    `db:"game_id" json:"game_id"`
	SessionId string    `db:"session_id" json:"session_id"`
	Size      int       `db:"size" json:"size"`
	MineCount int       `db:"mine_count" json:"mine_count"`
	Outcome   string    `db:"outcome" json:"outcome"`
	Revealed  int       `db:"revealed" json:"revealed"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	EndedAt   time.Time `db:"ended_at" json:"ended_at"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

func (q *Queries) RecordOutcome(ctx context.Context, o GameOutcome) error {
	_, err := q.db.Exec(
		ctx,
		`INSERT INTO game_outcome (
			game_id, session_id, size, mine_count, outcome, revealed,
			started_at, ended_at
		)
		VALUES (
			@game_id, @session_id, @size, @mine_count, @outcome, @revealed, @started_at, @ended_at
		);`,
		pgx.NamedArgs{
			"game_id":    o.GameId,
			"session_id": o.SessionId,
			"size":       o.Size,
			"mine_count": o.MineCount,
			"outcome":    o.Outcome,
			"revealed":   o.Revealed,
			"started_at": o.StartedAt,
			"ended_at":   o.EndedAt,
		},
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		return ErrAlreadyRecorded
	}
	return err
}

type OutcomeFilter struct {
	Outcome *string
	Size    *int
	Limit   int
}

func (f OutcomeFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Outcome != nil {
		clauses = append(clauses, "outcome = @outcome")
		args["outcome"] = *f.Outcome
	}
	if f.Size != nil {
		clauses = append(clauses, "size = @size")
		args["size"] = *f.Size
	}
	return strings.Join(clauses, " AND "), args
}

const defaultOutcomeLimit = 50

func (q *Queries) ListOutcomes(
	ctx context.Context, filter OutcomeFilter,
) ([]GameOutcome, error) {
	query := `
	SELECT
		game_id, session_id, size, mine_count, outcome, revealed,
		started_at, ended_at, created_at
	FROM game_outcome`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultOutcomeLimit
	}
	query += " ORDER BY ended_at DESC LIMIT @limit;"
	args["limit"] = limit

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[GameOutcome])
}
