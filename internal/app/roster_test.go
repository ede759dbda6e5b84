package app

import (
	"testing"
	"time"

	"challenge-session-service/internal/domain"
)

func TestAddParticipantIdempotent(t *testing.T) {
	r := newRoster([]string{"p1"})
	first := r.add("u1", time.Now())
	second := r.add("u1", time.Now().Add(time.Minute))
	if first != second {
		t.Fatalf("re-adding must return the existing participant")
	}
	if len(r.participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(r.participants))
	}
}

func TestRecordCompletionFirstSolveWins(t *testing.T) {
	r := newRoster([]string{"p1", "p2"})
	now := time.Now()
	r.add("u1", now)

	changed, err := r.recordCompletion("u1", "p1", 100, 30, now)
	if err != nil || !changed {
		t.Fatalf("first completion: changed=%v err=%v", changed, err)
	}

	// Second passing submission for the same problem must not alter score.
	changed, err = r.recordCompletion("u1", "p1", 999, 5, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("resubmission must not error: %v", err)
	}
	if changed {
		t.Fatalf("resubmission must be a no-op")
	}
	p, _ := r.get("u1")
	if got := p.Completions["p1"].Score; got != 100 {
		t.Fatalf("expected original score 100, got %d", got)
	}
}

func TestRecordCompletionValidation(t *testing.T) {
	r := newRoster([]string{"p1"})
	now := time.Now()

	if _, err := r.recordCompletion("ghost", "p1", 10, 1, now); err != domain.ErrUnknownParticipant {
		t.Fatalf("expected ErrUnknownParticipant, got %v", err)
	}
	r.add("u1", now)
	if _, err := r.recordCompletion("u1", "nope", 10, 1, now); err != domain.ErrUnknownProblem {
		t.Fatalf("expected ErrUnknownProblem, got %v", err)
	}
}

func TestHasCompletedAll(t *testing.T) {
	r := newRoster([]string{"p1", "p2"})
	now := time.Now()
	r.add("u1", now)

	if r.hasCompletedAll("u1") {
		t.Fatalf("no completions yet")
	}
	_, _ = r.recordCompletion("u1", "p1", 50, 10, now)
	if r.hasCompletedAll("u1") {
		t.Fatalf("one of two problems solved")
	}
	_, _ = r.recordCompletion("u1", "p2", 50, 20, now)
	if !r.hasCompletedAll("u1") {
		t.Fatalf("expected all problems completed")
	}
	if r.hasCompletedAll("missing") {
		t.Fatalf("unknown participant cannot have completed all")
	}
}

func TestForfeitKeepsAuditRecord(t *testing.T) {
	r := newRoster([]string{"p1"})
	now := time.Now()
	r.add("u1", now)
	_, _ = r.recordCompletion("u1", "p1", 50, 10, now)

	if err := r.forfeit("u1"); err != nil {
		t.Fatalf("forfeit failed: %v", err)
	}
	if err := r.forfeit("ghost"); err != domain.ErrUnknownParticipant {
		t.Fatalf("expected ErrUnknownParticipant, got %v", err)
	}

	p, ok := r.get("u1")
	if !ok || !p.Forfeited {
		t.Fatalf("forfeited participant must stay in roster")
	}
	if len(p.Completions) != 1 {
		t.Fatalf("completions must survive forfeit for audit")
	}
}
