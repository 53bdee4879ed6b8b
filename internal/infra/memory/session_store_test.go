package memory

import (
	"context"
	"testing"

	"persona-quiz-service/internal/app"
	"persona-quiz-service/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session, err := app.NewSession("s1", sampleQuiz())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	store.Put(session)

	if got, ok := store.Get("s1"); !ok || got != session {
		t.Fatalf("expected stored session, got ok=%v", ok)
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}

func TestAttemptRecorderKeepsCopies(t *testing.T) {
	recorder := NewAttemptRecorder()

	if err := recorder.RecordAttempt(context.Background(), domain.Attempt{ID: "a1", QuizID: "quiz-1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	attempts := recorder.Attempts()
	if len(attempts) != 1 || attempts[0].ID != "a1" {
		t.Fatalf("expected recorded attempt, got %+v", attempts)
	}
}
