package redis

import (
	"context"
	"sync"
	"time"

	"challenge-session-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// SessionRegistry is a Redis-aware implementation of app.SessionRegistry.
// Notes:
//   - Coordinators are in-process actors, so the authoritative map stays
//     local; Redis marks session liveness for other instances.
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans events out across instances.
type SessionRegistry struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.Coordinator
}

func NewSessionRegistry(client *redis.Client, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.Coordinator),
	}
}

func (r *SessionRegistry) Add(sessionID string, c *app.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = c
	// best-effort liveness marker
	_ = r.client.Set(context.Background(), r.key(sessionID), "1", r.ttl).Err()
}

func (r *SessionRegistry) Get(sessionID string) (*app.Coordinator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.sessions[sessionID]
	return c, ok
}

func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	_ = r.client.Del(context.Background(), r.key(sessionID)).Err()
}

func (r *SessionRegistry) key(sessionID string) string {
	return "challenge:session:" + sessionID
}
