package memory

import (
	"context"
	"testing"
	"time"

	"challenge-session-service/internal/domain"
)

func TestProblemRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		ProblemLoader: NewStaticProblemLoader(map[string]domain.Problem{
			"two-sum": {ID: "two-sum", Title: "Two Sum"},
		}),
	}
	repo := NewProblemRepository(loader, time.Minute)

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

	// Second call should hit cache, loader not incremented.
	_, _ = repo.GetProblem(context.Background(), "two-sum")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
}

func TestProblemRepositoryUnknownProblem(t *testing.T) {
	repo := NewProblemRepository(NewStaticProblemLoader(nil), time.Minute)
	if _, err := repo.GetProblem(context.Background(), "missing"); err != domain.ErrProblemNotFound {
		t.Fatalf("expected ErrProblemNotFound, got %v", err)
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
