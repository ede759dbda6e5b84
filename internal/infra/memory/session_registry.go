package memory

import (
	"sync"

	"challenge-session-service/internal/app"
)

// SessionRegistry is the in-memory implementation of app.SessionRegistry.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*app.Coordinator
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*app.Coordinator),
	}
}

func (r *SessionRegistry) Add(sessionID string, c *app.Coordinator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = c
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
}
