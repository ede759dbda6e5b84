package memory

import (
	"context"
	"sync"

	"challenge-session-service/internal/domain"
)

// StaticEvaluator is a deterministic in-process evaluator for demos and
// tests. Verdicts are keyed by problem ID; unknown problems fall back to
// the default verdict.
type StaticEvaluator struct {
	mu       sync.RWMutex
	verdicts map[string]domain.Verdict
	errs     map[string]error
	fallback domain.Verdict
}

func NewStaticEvaluator(defaultVerdict domain.Verdict) *StaticEvaluator {
	return &StaticEvaluator{
		verdicts: make(map[string]domain.Verdict),
		errs:     make(map[string]error),
		fallback: defaultVerdict,
	}
}

// SetVerdict fixes the verdict returned for one problem.
func (e *StaticEvaluator) SetVerdict(problemID string, v domain.Verdict) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.verdicts[problemID] = v
}

// SetError makes evaluation of one problem fail with err.
func (e *StaticEvaluator) SetError(problemID string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[problemID] = err
}

func (e *StaticEvaluator) Evaluate(ctx context.Context, problemID, _ string, _ string) (domain.Verdict, error) {
	if err := ctx.Err(); err != nil {
		return domain.Verdict{}, domain.ErrEvaluationTimeout
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err, ok := e.errs[problemID]; ok {
		return domain.Verdict{}, err
	}
	if v, ok := e.verdicts[problemID]; ok {
		return v, nil
	}
	return e.fallback, nil
}
