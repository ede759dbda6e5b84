package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"challenge-session-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// SnapshotStore persists final session snapshots as JSONB so the last
// leaderboard can be served after the session actor is gone.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

func (s *SnapshotStore) SaveSessionSnapshot(ctx context.Context, snap domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO session_snapshots (session_id, data) VALUES ($1, $2)
		 ON CONFLICT (session_id) DO UPDATE SET data=EXCLUDED.data`,
		snap.Session.ID, data,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) LoadSessionSnapshot(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM session_snapshots WHERE session_id=$1`, sessionID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}
