package redis

import (
	"context"
	"testing"
	"time"

	"challenge-session-service/internal/domain"
	"challenge-session-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestProblemRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{
		ProblemLoader: memory.NewStaticProblemLoader(map[string]domain.Problem{
			"two-sum": {ID: "two-sum", Title: "Two Sum", Difficulty: "Easy", Description: "Find two indices."},
		}),
	}
	repo := NewProblemRepository(client, loader, time.Minute)

	problem, err := repo.GetProblem(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("get problem: %v", err)
	}
	if problem.Title != "Two Sum" {
		t.Fatalf("unexpected problem %+v", problem)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if got := mr.HGet("problem:two-sum", "title"); got != "Two Sum" {
		t.Fatalf("expected cached title, got %q", got)
	}

	// Second call is served from the hash, loader not incremented.
	cached, err := repo.GetProblem(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Description != "Find two indices." {
		t.Fatalf("expected full metadata from cache, got %+v", cached)
	}
}

type countingLoader struct {
	ProblemLoader
	calls int
}

func (l *countingLoader) LoadProblem(ctx context.Context, problemID string) (domain.Problem, error) {
	l.calls++
	return l.ProblemLoader.LoadProblem(ctx, problemID)
}
