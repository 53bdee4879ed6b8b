package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"persona-quiz-service/internal/domain"
)

// AttemptRecorder persists completed attempts to Postgres. Rows are
// append-only: an attempt is written exactly once and never updated, so a
// duplicate dispatch (which the session state machine already prevents) would
// surface as a primary-key conflict rather than silently overwrite.
type AttemptRecorder struct {
	pool *pgxpool.Pool
}

func NewAttemptRecorder(pool *pgxpool.Pool) *AttemptRecorder {
	return &AttemptRecorder{pool: pool}
}

func (r *AttemptRecorder) RecordAttempt(ctx context.Context, attempt domain.Attempt) error {
	raw, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (id, quiz_id, result_id, completed_at, data) VALUES ($1, $2, $3, $4, $5)`,
		attempt.ID, attempt.QuizID, attempt.ResultID, attempt.CompletedAt, raw,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}
