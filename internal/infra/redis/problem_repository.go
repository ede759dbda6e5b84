package redis

import (
	"context"
	"math/rand"
	"time"

	"challenge-session-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ProblemLoader fetches problem metadata from a backing store (e.g., Postgres).
type ProblemLoader interface {
	LoadProblem(ctx context.Context, problemID string) (domain.Problem, error)
}

// ProblemRepository caches problems in Redis (hash per problem) and falls
// back to a loader on cache miss.
// Problems are stored as: HSET problem:{problemID} title ... difficulty ... description ...
type ProblemRepository struct {
	client *redis.Client
	loader ProblemLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewProblemRepository(client *redis.Client, loader ProblemLoader, ttl time.Duration) *ProblemRepository {
	return &ProblemRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ProblemRepository) GetProblem(ctx context.Context, problemID string) (domain.Problem, error) {
	key := r.problemKey(problemID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return problemFromHash(problemID, fields), nil
	}

	result, err, _ := r.sf.Do(problemID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			return problemFromHash(problemID, fields), nil
		}

		problem, err := r.loader.LoadProblem(ctx, problemID)
		if err != nil {
			return domain.Problem{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		pipe.HSet(ctx, key,
			"title", problem.Title,
			"difficulty", problem.Difficulty,
			"description", problem.Description,
		)
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return problem, nil
	})
	if err != nil {
		return domain.Problem{}, err
	}
	return result.(domain.Problem), nil
}

func (r *ProblemRepository) problemKey(problemID string) string {
	return "problem:" + problemID
}

func problemFromHash(problemID string, fields map[string]string) domain.Problem {
	return domain.Problem{
		ID:          problemID,
		Title:       fields["title"],
		Difficulty:  fields["difficulty"],
		Description: fields["description"],
	}
}

func (r *ProblemRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
