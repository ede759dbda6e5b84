package app

import (
	"time"

	"challenge-session-service/internal/domain"
)

// stateMachine owns the session lifecycle. It is only touched from the
// session actor goroutine, so it carries no lock of its own.
type stateMachine struct {
	state     domain.SessionState
	startedAt *time.Time
	endReason *domain.EndReason
}

func newStateMachine() *stateMachine {
	return &stateMachine{state: domain.StatePending}
}

// start moves Pending -> Active and stamps startedAt. Only the creator may
// start; the caller passes both IDs so the check lives with the transition.
func (m *stateMachine) start(byUserID, creatorID string, now time.Time) error {
	if byUserID != creatorID {
		return domain.ErrNotCreator
	}
	if m.state != domain.StatePending {
		return domain.ErrInvalidState
	}
	m.state = domain.StateActive
	m.startedAt = &now
	return nil
}

// end moves Active -> Ended. Calling end on an already-Ended machine is a
// no-op that reports the original reason: a winning submission and a timer
// expiry racing each other must collapse into exactly one transition.
func (m *stateMachine) end(reason domain.EndReason) (domain.EndReason, bool, error) {
	switch m.state {
	case domain.StateEnded:
		return *m.endReason, false, nil
	case domain.StatePending:
		return "", false, domain.ErrInvalidState
	}
	m.state = domain.StateEnded
	m.endReason = &reason
	return reason, true, nil
}

// canJoin reports whether joins are accepted in the current state. Late
// joins during Active are allowed; Ended sessions are closed.
func (m *stateMachine) canJoin() error {
	if m.state == domain.StateEnded {
		return domain.ErrSessionClosed
	}
	return nil
}
