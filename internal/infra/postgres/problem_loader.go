package postgres

import (
	"context"
	"errors"
	"fmt"

	"challenge-session-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ProblemLoader loads problem catalog rows from Postgres.
type ProblemLoader struct {
	pool *pgxpool.Pool
}

func NewProblemLoader(pool *pgxpool.Pool) *ProblemLoader {
	return &ProblemLoader{pool: pool}
}

func (l *ProblemLoader) LoadProblem(ctx context.Context, problemID string) (domain.Problem, error) {
	problem := domain.Problem{ID: problemID}
	err := l.pool.QueryRow(ctx,
		`SELECT title, difficulty, description FROM problems WHERE id=$1`, problemID,
	).Scan(&problem.Title, &problem.Difficulty, &problem.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Problem{}, domain.ErrProblemNotFound
	}
	if err != nil {
		return domain.Problem{}, fmt.Errorf("load problem: %w", err)
	}
	return problem, nil
}
