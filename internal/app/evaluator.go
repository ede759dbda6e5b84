package app

import (
	"context"

	"challenge-session-service/internal/domain"
)

// Evaluator judges a submitted solution. Implementations live in infra
// (HTTP judge client, static test evaluator); the coordinator only sees
// this seam. ErrEvaluationTimeout and ErrEvaluationRuntime are normal
// failed-submission outcomes, not crashes.
type Evaluator interface {
	Evaluate(ctx context.Context, problemID, code, language string) (domain.Verdict, error)
}

// ProblemRepository loads problem catalog metadata (from cache/backing store).
type ProblemRepository interface {
	GetProblem(ctx context.Context, problemID string) (domain.Problem, error)
}

// SnapshotStore optionally persists final session snapshots so the last
// leaderboard survives a restart. Core correctness does not depend on it.
type SnapshotStore interface {
	SaveSessionSnapshot(ctx context.Context, snap domain.Snapshot) error
	LoadSessionSnapshot(ctx context.Context, sessionID string) (domain.Snapshot, error)
}
