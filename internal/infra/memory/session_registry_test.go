package memory

import (
	"testing"

	"challenge-session-service/internal/app"
	"challenge-session-service/internal/domain"
)

func TestSessionRegistryLifecycle(t *testing.T) {
	registry := NewSessionRegistry()

	c := app.NewCoordinator(domain.Session{
		ID:               "s1",
		CreatorID:        "creator",
		ProblemIDs:       []string{"p1"},
		TimeLimitSeconds: 60,
	}, app.CoordinatorDeps{Evaluator: NewStaticEvaluator(domain.Verdict{Passed: true, Score: 1})})
	defer c.Stop()

	registry.Add("s1", c)
	if got, ok := registry.Get("s1"); !ok || got != c {
		t.Fatalf("expected registered coordinator")
	}

	registry.Remove("s1")
	if _, ok := registry.Get("s1"); ok {
		t.Fatalf("expected coordinator removed")
	}
}
