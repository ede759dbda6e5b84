package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"challenge-session-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ProblemLoader fetches problem metadata from a backing store (e.g., Postgres).
type ProblemLoader interface {
	LoadProblem(ctx context.Context, problemID string) (domain.Problem, error)
}

// ProblemRepository caches problems with TTL to avoid repeated store hits.
type ProblemRepository struct {
	loader ProblemLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedProblem
}

type cachedProblem struct {
	problem   domain.Problem
	expiresAt time.Time
}

func NewProblemRepository(loader ProblemLoader, ttl time.Duration) *ProblemRepository {
	return &ProblemRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedProblem),
	}
}

func (r *ProblemRepository) GetProblem(ctx context.Context, problemID string) (domain.Problem, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[problemID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.problem, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(problemID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[problemID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.problem, nil
		}
		r.mu.RUnlock()

		problem, err := r.loader.LoadProblem(ctx, problemID)
		if err != nil {
			return domain.Problem{}, err
		}

		r.mu.Lock()
		r.cache[problemID] = cachedProblem{
			problem:   problem,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return problem, nil
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return result.(domain.Problem), nil
}

func (r *ProblemRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticProblemLoader is a simple loader backed by an in-memory map (useful for tests/demos).
type StaticProblemLoader struct {
	problems map[string]domain.Problem
}

func NewStaticProblemLoader(problems map[string]domain.Problem) *StaticProblemLoader {
	return &StaticProblemLoader{problems: problems}
}

func (l *StaticProblemLoader) LoadProblem(_ context.Context, problemID string) (domain.Problem, error) {
	if problem, ok := l.problems[problemID]; ok {
		return problem, nil
	}
	return domain.Problem{}, domain.ErrProblemNotFound
}
