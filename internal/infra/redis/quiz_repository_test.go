package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"persona-quiz-service/internal/domain"
	"persona-quiz-service/internal/infra/memory"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:snapshot:quiz-1") {
		t.Fatalf("expected snapshot cached in redis")
	}

	// Second call hits the cache, loader not incremented, content intact.
	cached, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if len(cached.Questions) != len(quiz.Questions) || len(cached.Results) != len(quiz.Results) {
		t.Fatalf("cached snapshot differs: %+v vs %+v", cached, quiz)
	}
	if cached.Questions[0].Options[0].Scores["fire"] != 2 {
		t.Fatalf("expected score maps to survive the cache, got %v", cached.Questions[0].Options[0].Scores)
	}
}

func TestQuizRepositoryRecoversFromCorruptCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	if err := mr.Set("quiz:snapshot:quiz-1", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected fallback to loader, calls=%d", loader.calls)
	}
}

type countingLoader struct {
	memory.QuizLoader
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
		},
		Results: []domain.Result{
			{ID: "r1", PersonalityLabel: "fire", Title: "Fire"},
			{ID: "r2", PersonalityLabel: "water", Title: "Water"},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
