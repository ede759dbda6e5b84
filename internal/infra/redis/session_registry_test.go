package redis

import (
	"testing"
	"time"

	"challenge-session-service/internal/app"
	"challenge-session-service/internal/domain"
	"challenge-session-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestSessionRegistrySetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	registry := NewSessionRegistry(client, time.Minute)

	c := app.NewCoordinator(domain.Session{
		ID:               "s1",
		CreatorID:        "creator",
		ProblemIDs:       []string{"p1"},
		TimeLimitSeconds: 60,
	}, app.CoordinatorDeps{Evaluator: memory.NewStaticEvaluator(domain.Verdict{Passed: true, Score: 1})})
	defer c.Stop()

	registry.Add("s1", c)
	if !mr.Exists("challenge:session:s1") {
		t.Fatalf("expected redis liveness key to be set")
	}
	if got, ok := registry.Get("s1"); !ok || got != c {
		t.Fatalf("expected registered coordinator")
	}

	registry.Remove("s1")
	if mr.Exists("challenge:session:s1") {
		t.Fatalf("expected redis key to be removed")
	}
}
