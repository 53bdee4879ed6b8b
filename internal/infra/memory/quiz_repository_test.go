package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"persona-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryValidatesAtBoundary(t *testing.T) {
	malformed := sampleQuiz()
	malformed.Questions[0].Options[0].Scores = domain.ScoreMap{" ": 1}
	repo := NewQuizRepository(NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-bad": malformed,
	}), time.Minute)

	_, err := repo.GetQuiz(context.Background(), "quiz-bad")
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
}

func TestQuizRepositorySortsQuestionsForPlay(t *testing.T) {
	quiz := sampleQuiz()
	quiz.Questions[0].Order = 5
	repo := NewQuizRepository(NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": quiz,
	}), time.Minute)

	got, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Questions[0].ID != "q2" {
		t.Fatalf("expected play order by question order, got %q first", got.Questions[0].ID)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Which element are you?",
		Questions: []domain.Question{
			{
				ID: "q1", Order: 0, Text: "Pick a season",
				Options: []domain.Option{
					{ID: "o1", Order: 0, Text: "Summer", Scores: domain.ScoreMap{"fire": 2}},
					{ID: "o2", Order: 1, Text: "Winter", Scores: domain.ScoreMap{"water": 2}},
				},
			},
			{
				ID: "q2", Order: 1, Text: "Pick a pace",
				Options: []domain.Option{
					{ID: "o3", Order: 0, Text: "Sprint", Scores: domain.ScoreMap{"fire": 3}},
					{ID: "o4", Order: 1, Text: "Stroll", Scores: domain.ScoreMap{"water": 3}},
				},
			},
		},
		Results: []domain.Result{
			{ID: "r1", PersonalityLabel: "fire", Title: "Fire"},
			{ID: "r2", PersonalityLabel: "water", Title: "Water"},
		},
	}
}
