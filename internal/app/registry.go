package app

// SessionRegistry abstracts the session-ID -> coordinator map, the only
// cross-request mutable structure in the process (in-memory, Redis-marked,
// etc). It is never mutated from inside a session actor.
type SessionRegistry interface {
	Add(sessionID string, c *Coordinator)
	Get(sessionID string) (*Coordinator, bool)
	Remove(sessionID string)
}
