package app

import (
	"time"

	"challenge-session-service/internal/domain"
)

// roster tracks session participants and their per-problem completions.
// Like the state machine it is owned by the session actor and unlocked.
type roster struct {
	problems     map[string]struct{}
	participants map[string]*domain.Participant
}

func newRoster(problemIDs []string) *roster {
	problems := make(map[string]struct{}, len(problemIDs))
	for _, id := range problemIDs {
		problems[id] = struct{}{}
	}
	return &roster{
		problems:     problems,
		participants: make(map[string]*domain.Participant),
	}
}

// add registers a participant. Re-adding is a no-op so reconnect races
// don't surface as errors.
func (r *roster) add(userID string, now time.Time) *domain.Participant {
	if p, ok := r.participants[userID]; ok {
		return p
	}
	p := &domain.Participant{
		UserID:      userID,
		JoinedAt:    now,
		Completions: make(map[string]domain.Completion),
	}
	r.participants[userID] = p
	return p
}

// recordCompletion stores the first accepted solution for (user, problem).
// A later passing submission for the same problem is a no-op: first solve
// counts, resubmissions never change the score.
func (r *roster) recordCompletion(userID, problemID string, score, timeTakenSeconds int, now time.Time) (bool, error) {
	p, ok := r.participants[userID]
	if !ok {
		return false, domain.ErrUnknownParticipant
	}
	if _, ok := r.problems[problemID]; !ok {
		return false, domain.ErrUnknownProblem
	}
	if _, done := p.Completions[problemID]; done {
		return false, nil
	}
	p.Completions[problemID] = domain.Completion{
		Score:            score,
		TimeTakenSeconds: timeTakenSeconds,
		CompletedAt:      now,
	}
	return true, nil
}

// forfeit flags the participant out of ranking. The completion records stay
// for audit retrieval.
func (r *roster) forfeit(userID string) error {
	p, ok := r.participants[userID]
	if !ok {
		return domain.ErrUnknownParticipant
	}
	p.Forfeited = true
	return nil
}

// hasCompletedAll reports whether the user has a completion for every
// problem in the session.
func (r *roster) hasCompletedAll(userID string) bool {
	p, ok := r.participants[userID]
	if !ok {
		return false
	}
	for id := range r.problems {
		if _, done := p.Completions[id]; !done {
			return false
		}
	}
	return len(r.problems) > 0
}

func (r *roster) get(userID string) (*domain.Participant, bool) {
	p, ok := r.participants[userID]
	return p, ok
}

func (r *roster) hasProblem(problemID string) bool {
	_, ok := r.problems[problemID]
	return ok
}

// snapshot returns deep copies of all participants so callers outside the
// actor can hold them safely.
func (r *roster) snapshot() []domain.Participant {
	out := make([]domain.Participant, 0, len(r.participants))
	for _, p := range r.participants {
		cp := *p
		cp.Completions = make(map[string]domain.Completion, len(p.Completions))
		for id, c := range p.Completions {
			cp.Completions[id] = c
		}
		out = append(out, cp)
	}
	return out
}
