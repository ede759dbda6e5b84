package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"challenge-session-service/internal/app"
	"challenge-session-service/internal/config"
	"challenge-session-service/internal/domain"
	"challenge-session-service/internal/infra/judge"
	"challenge-session-service/internal/infra/memory"
	pgloader "challenge-session-service/internal/infra/postgres"
	redisinfra "challenge-session-service/internal/infra/redis"
	transport "challenge-session-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the challenge session server",
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
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.ProblemLoader = memory.NewStaticProblemLoader(sampleProblems())
	if pool != nil {
		loader = pgloader.NewProblemLoader(pool)
	}

	problemTTL := config.Duration(cfg.Problem.TTL, 10*time.Minute)
	var problems app.ProblemRepository
	if redisClient != nil {
		problems = redisinfra.NewProblemRepository(redisClient, loader, problemTTL)
	} else {
		problems = memory.NewProblemRepository(loader, problemTTL)
	}

	var registry app.SessionRegistry
	if redisClient != nil {
		registry = redisinfra.NewSessionRegistry(redisClient, redisTTL)
	} else {
		registry = memory.NewSessionRegistry()
	}

	var evaluator app.Evaluator
	if cfg.Judge.URL != "" {
		evaluator = judge.NewHTTPEvaluator(cfg.Judge.URL, config.Duration(cfg.Judge.Timeout, 30*time.Second))
	} else {
		log.Printf("no judge configured, using accept-all evaluator")
		evaluator = memory.NewStaticEvaluator(domain.Verdict{Passed: true, Score: 100})
	}

	var snapshots app.SnapshotStore
	if pool != nil {
		snapshots = pgloader.NewSnapshotStore(pool)
	}

	service := app.NewChallengeService(registry, problems, evaluator, app.ServiceConfig{
		Retention:   config.Duration(cfg.Session.Retention, 10*time.Minute),
		WarningLead: config.Duration(cfg.Session.WarningLead, 0),
		EvalTimeout: config.Duration(cfg.Judge.Timeout, 30*time.Second),
		Snapshots:   snapshots,
	})
	wsHandler := transport.NewWSHandler(service)
	sessionHandler := transport.NewSessionHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("POST /sessions", sessionHandler.HandleCreate)
	mux.HandleFunc("GET /sessions/{id}", sessionHandler.HandleSnapshot)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting challenge service on :%s", finalPort)
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

// sampleProblems provides a minimal catalog for running without Postgres;
// production deployments load problems from the problems table.
func sampleProblems() map[string]domain.Problem {
	return map[string]domain.Problem{
		"two-sum": {
			ID:          "two-sum",
			Title:       "Two Sum",
			Difficulty:  "Easy",
			Description: "Given an array of integers and a target sum, return indices of the two numbers such that they add up to the target.",
		},
		"add-two-numbers": {
			ID:          "add-two-numbers",
			Title:       "Add Two Numbers",
			Difficulty:  "Medium",
			Description: "You are given two non-empty linked lists representing two non-negative integers. Add the two numbers and return the sum as a linked list.",
		},
		"valid-parentheses": {
			ID:          "valid-parentheses",
			Title:       "Valid Parentheses",
			Difficulty:  "Medium",
			Description: "Given a string containing just the characters '(', ')', '{', '}', '[' and ']', determine if the input string is valid.",
		},
	}
}
