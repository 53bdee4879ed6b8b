package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"persona-quiz-service/internal/app"
	"persona-quiz-service/internal/config"
	"persona-quiz-service/internal/domain"
	"persona-quiz-service/internal/infra/memory"
	pgstore "persona-quiz-service/internal/infra/postgres"
	redisstore "persona-quiz-service/internal/infra/redis"
	transport "persona-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the personality-quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgstore.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisstore.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = redisstore.NewSessionStore(redisClient, redisTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var recorder app.AttemptRecorder = memory.NewAttemptRecorder()
	if pool != nil {
		recorder = pgstore.NewAttemptRecorder(pool)
	}

	service := app.NewPlayService(sessions, quizRepo, recorder)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting persona quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides demo content for running without a database.
func sampleQuizzes() map[string]domain.Quiz {
	six, ten := 6, 10
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:       "quiz-1",
			Title:    "What kind of traveler are you?",
			Category: "lifestyle",
			Questions: []domain.Question{
				{
					ID:    "q1",
					Order: 0,
					Text:  "Your ideal first day in a new city?",
					Options: []domain.Option{
						{ID: "o1", Order: 0, Text: "A museum marathon", Scores: domain.ScoreMap{"planner": 2}},
						{ID: "o2", Order: 1, Text: "Wander until something looks interesting", Scores: domain.ScoreMap{"drifter": 2}},
					},
				},
				{
					ID:    "q2",
					Order: 1,
					Text:  "How far ahead do you book?",
					Options: []domain.Option{
						{ID: "o3", Order: 0, Text: "Months; spreadsheets exist for a reason", Scores: domain.ScoreMap{"planner": 3}},
						{ID: "o4", Order: 1, Text: "The night before, maybe", Scores: domain.ScoreMap{"drifter": 3}},
					},
				},
			},
			Results: []domain.Result{
				{
					ID:               "r1",
					PersonalityLabel: "planner",
					Title:            "The Planner",
					Description:      "Every hour accounted for, every ticket pre-booked.",
					Strengths:        []string{"organized", "prepared"},
					Weaknesses:       []string{"inflexible"},
					MinScore:         &six,
					MaxScore:         &ten,
				},
				{
					ID:               "r2",
					PersonalityLabel: "drifter",
					Title:            "The Drifter",
					Description:      "The itinerary is whatever the day brings.",
					Strengths:        []string{"adaptable", "curious"},
					Weaknesses:       []string{"misses reservations"},
				},
			},
		},
	}
}
