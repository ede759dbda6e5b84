package app

import (
	"testing"
	"time"

	"challenge-session-service/internal/domain"
)

func TestStateMachineHappyPath(t *testing.T) {
	m := newStateMachine()
	now := time.Now()

	if err := m.start("creator", "creator", now); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if m.state != domain.StateActive {
		t.Fatalf("expected active, got %s", m.state)
	}
	if m.startedAt == nil || !m.startedAt.Equal(now) {
		t.Fatalf("expected startedAt=%v, got %v", now, m.startedAt)
	}

	reason, transitioned, err := m.end(domain.EndWon)
	if err != nil || !transitioned || reason != domain.EndWon {
		t.Fatalf("expected won transition, got reason=%s transitioned=%v err=%v", reason, transitioned, err)
	}
	if m.state != domain.StateEnded {
		t.Fatalf("expected ended, got %s", m.state)
	}
}

func TestStartRejectsNonCreator(t *testing.T) {
	m := newStateMachine()
	if err := m.start("intruder", "creator", time.Now()); err != domain.ErrNotCreator {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}
	if m.state != domain.StatePending {
		t.Fatalf("rejected start must not change state, got %s", m.state)
	}
}

func TestStartRejectsNonPending(t *testing.T) {
	m := newStateMachine()
	_ = m.start("creator", "creator", time.Now())
	if err := m.start("creator", "creator", time.Now()); err != domain.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestEndIsIdempotentAndKeepsFirstReason(t *testing.T) {
	m := newStateMachine()
	_ = m.start("creator", "creator", time.Now())

	reason, transitioned, err := m.end(domain.EndWon)
	if err != nil || !transitioned || reason != domain.EndWon {
		t.Fatalf("first end: reason=%s transitioned=%v err=%v", reason, transitioned, err)
	}

	// A second trigger (timer firing as the winning submission lands) must
	// be a no-op reporting the original reason.
	reason, transitioned, err = m.end(domain.EndTimeExpired)
	if err != nil {
		t.Fatalf("second end must not error: %v", err)
	}
	if transitioned {
		t.Fatalf("second end must not transition")
	}
	if reason != domain.EndWon {
		t.Fatalf("expected original reason won, got %s", reason)
	}
}

func TestEndRejectedWhilePending(t *testing.T) {
	m := newStateMachine()
	if _, _, err := m.end(domain.EndManual); err != domain.ErrInvalidState {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestJoinClosedAfterEnd(t *testing.T) {
	m := newStateMachine()
	if err := m.canJoin(); err != nil {
		t.Fatalf("join should be allowed while pending: %v", err)
	}
	_ = m.start("creator", "creator", time.Now())
	if err := m.canJoin(); err != nil {
		t.Fatalf("late join should be allowed while active: %v", err)
	}
	_, _, _ = m.end(domain.EndManual)
	if err := m.canJoin(); err != domain.ErrSessionClosed {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}
