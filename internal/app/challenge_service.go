package app

import (
	"context"
	"fmt"
	"time"

	"challenge-session-service/internal/domain"
	"github.com/google/uuid"
)

const defaultRetention = 10 * time.Minute

// CreateParams is the input to ChallengeService.Create.
type CreateParams struct {
	Title            string
	CreatorID        string
	Difficulty       string
	IsPrivate        bool
	AccessCode       string
	ProblemIDs       []string
	TimeLimitSeconds int
}

// ServiceConfig tunes the service. Zero values fall back to defaults;
// Snapshots and Clock are optional.
type ServiceConfig struct {
	Retention   time.Duration
	WarningLead time.Duration
	EvalTimeout time.Duration
	Snapshots   SnapshotStore
	Clock       func() time.Time
}

// ChallengeService contains the challenge-session use cases. Commands are
// routed by session ID to the owning coordinator; cross-session commands
// never contend with each other.
type ChallengeService struct {
	registry  SessionRegistry
	problems  ProblemRepository
	evaluator Evaluator
	cfg       ServiceConfig
}

func NewChallengeService(registry SessionRegistry, problems ProblemRepository, evaluator Evaluator, cfg ServiceConfig) *ChallengeService {
	if cfg.Retention <= 0 {
		cfg.Retention = defaultRetention
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &ChallengeService{
		registry:  registry,
		problems:  problems,
		evaluator: evaluator,
		cfg:       cfg,
	}
}

// Create validates the problem set against the catalog, spins up a
// coordinator in Pending state and registers it. The creator still joins
// like everyone else.
func (s *ChallengeService) Create(ctx context.Context, params CreateParams) (string, error) {
	if params.TimeLimitSeconds <= 0 {
		return "", fmt.Errorf("time limit must be positive")
	}
	if len(params.ProblemIDs) == 0 {
		return "", fmt.Errorf("session needs at least one problem")
	}
	for _, id := range params.ProblemIDs {
		if _, err := s.problems.GetProblem(ctx, id); err != nil {
			return "", fmt.Errorf("problem %s: %w", id, err)
		}
	}

	session := domain.Session{
		ID:               uuid.NewString(),
		Title:            params.Title,
		CreatorID:        params.CreatorID,
		Difficulty:       params.Difficulty,
		IsPrivate:        params.IsPrivate,
		AccessCode:       params.AccessCode,
		ProblemIDs:       params.ProblemIDs,
		TimeLimitSeconds: params.TimeLimitSeconds,
		CreatedAt:        s.cfg.Clock(),
	}
	c := NewCoordinator(session, CoordinatorDeps{
		Evaluator:   s.evaluator,
		Snapshots:   s.cfg.Snapshots,
		Clock:       s.cfg.Clock,
		WarningLead: s.cfg.WarningLead,
		EvalTimeout: s.cfg.EvalTimeout,
		OnEnded:     s.scheduleDestroy,
	})
	s.registry.Add(session.ID, c)
	return session.ID, nil
}

// scheduleDestroy removes an ended session after the retention window,
// which leaves time for late reconnections to fetch the final leaderboard.
func (s *ChallengeService) scheduleDestroy(sessionID string) {
	time.AfterFunc(s.cfg.Retention, func() {
		if c, ok := s.registry.Get(sessionID); ok {
			c.Stop()
			s.registry.Remove(sessionID)
		}
	})
}

func (s *ChallengeService) coordinator(sessionID string) (*Coordinator, error) {
	c, ok := s.registry.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return c, nil
}

// Join adds the user to the session and returns the current snapshot the
// transport sends as the joiner's hydrate.
func (s *ChallengeService) Join(_ context.Context, sessionID, userID, accessCode string) (domain.Snapshot, error) {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return c.Join(userID, accessCode)
}

func (s *ChallengeService) Start(_ context.Context, sessionID, userID string) error {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return err
	}
	return c.Start(userID)
}

func (s *ChallengeService) SubmitSolution(_ context.Context, sessionID, userID, problemID, code, language string) error {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return err
	}
	return c.SubmitSolution(userID, problemID, code, language)
}

func (s *ChallengeService) Forfeit(_ context.Context, sessionID, userID string) error {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return err
	}
	return c.Forfeit(userID)
}

// End is the creator's explicit manual end.
func (s *ChallengeService) End(_ context.Context, sessionID, userID string) error {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return err
	}
	return c.End(userID)
}

// Snapshot returns the current full-state view; clients seeing
// SessionClosed fall back to this for the final leaderboard.
func (s *ChallengeService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return c.Snapshot()
}

// Subscribe returns a live event stream for a session. A non-nil fromSeq
// requests backfill of missed events; ErrStaleSequence means the client
// must rejoin for a full hydrate. The caller must invoke the returned
// cancel function to avoid leaks.
func (s *ChallengeService) Subscribe(_ context.Context, sessionID string, fromSeq *uint64) (<-chan domain.Event, func(), error) {
	c, err := s.coordinator(sessionID)
	if err != nil {
		return nil, nil, err
	}
	return c.Subscribe(fromSeq)
}
