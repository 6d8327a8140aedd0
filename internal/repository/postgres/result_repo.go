package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
)

// ResultRepo archives concluded sessions and keeps a lifetime outcome tally.
type ResultRepo struct {
	DB *sql.DB
}

func NewResultRepo(db *sql.DB) *ResultRepo {
	return &ResultRepo{DB: db}
}

// Record inserts the result and bumps its outcome counter in one transaction.
func (r *ResultRepo) Record(ctx context.Context, result domain.Result) error {
	players, err := json.Marshal(result.Players)
	if err != nil {
		return fmt.Errorf("failed to marshal players: %w", err)
	}
	board, err := json.Marshal(result.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
	INSERT INTO session_result (room_id, outcome, moves, duration_ms, players, board, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		result.RoomID, string(result.Outcome), result.Moves, result.Duration().Milliseconds(),
		players, board, result.StartedAt, result.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to insert session result: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO outcome_tally (outcome, total) VALUES ($1, 1)
	ON CONFLICT (outcome) DO UPDATE SET total = outcome_tally.total + 1`,
		string(result.Outcome))
	if err != nil {
		return fmt.Errorf("failed to update outcome tally: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *ResultRepo) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary

	rows, err := r.DB.QueryContext(ctx, `SELECT outcome, total FROM outcome_tally`)
	if err != nil {
		return summary, fmt.Errorf("failed to query outcome tally: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var total int64
		if err := rows.Scan(&outcome, &total); err != nil {
			return summary, err
		}
		addTotal(&summary, domain.Outcome(outcome), total)
	}
	return summary, rows.Err()
}

// Recent returns the latest archived results, newest first.
func (r *ResultRepo) Recent(ctx context.Context, limit int) ([]domain.Result, error) {
	rows, err := r.DB.QueryContext(ctx, `
	SELECT room_id, outcome, moves, players, board, started_at, finished_at
	FROM session_result
	ORDER BY finished_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session results: %w", err)
	}
	defer rows.Close()

	results := []domain.Result{}
	for rows.Next() {
		var res domain.Result
		var outcome string
		var players, board []byte
		if err := rows.Scan(&res.RoomID, &outcome, &res.Moves, &players, &board, &res.StartedAt, &res.FinishedAt); err != nil {
			return nil, err
		}
		res.Outcome = domain.Outcome(outcome)
		if err := json.Unmarshal(players, &res.Players); err != nil {
			return nil, fmt.Errorf("failed to decode players: %w", err)
		}
		if err := json.Unmarshal(board, &res.Board); err != nil {
			return nil, fmt.Errorf("failed to decode board: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// PruneOlderThan deletes archived results finished before cutoff. The
// outcome tally is lifetime and is left alone.
func (r *ResultRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM session_result WHERE finished_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune session results: %w", err)
	}
	return res.RowsAffected()
}

func addTotal(s *domain.Summary, outcome domain.Outcome, total int64) {
	if outcome == domain.OutcomeDraw {
		s.Draws += total
		return
	}
	switch winner, _ := outcome.Winner(); winner {
	case domain.RoleX:
		s.XWins += total
	case domain.RoleO:
		s.OWins += total
	}
}
