package memory

import (
	"context"
	"sync"

	"persona-quiz-service/internal/domain"
)

// AttemptRecorder keeps completed attempts in memory. It backs the no-database
// deployment mode and doubles as the recording sink in tests.
type AttemptRecorder struct {
	mu       sync.Mutex
	attempts []domain.Attempt
}

func NewAttemptRecorder() *AttemptRecorder {
	return &AttemptRecorder{}
}

func (r *AttemptRecorder) RecordAttempt(_ context.Context, attempt domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return nil
}

// Attempts returns a copy of everything recorded so far.
func (r *AttemptRecorder) Attempts() []domain.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Attempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}
