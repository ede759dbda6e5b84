package app

import (
	"context"
	"log"
	"time"

	"challenge-session-service/internal/domain"
)

const defaultEvalTimeout = 30 * time.Second

// CoordinatorDeps carries the collaborators a session actor needs.
// Snapshots, Clock, OnEnded and the tuning fields are optional.
type CoordinatorDeps struct {
	Evaluator   Evaluator
	Snapshots   SnapshotStore
	Clock       func() time.Time
	WarningLead time.Duration
	EvalTimeout time.Duration
	// OnEnded is invoked once per session after the Ended transition, off
	// the actor goroutine. The registry uses it to schedule destruction.
	OnEnded func(sessionID string)
}

// Coordinator owns one session's mutable state. Every mutation (join,
// start, verdicts, timer firings, forfeit) runs on a single actor
// goroutine, so the session, roster and state machine need no locks.
// Evaluator calls are dispatched as independent goroutines whose results
// re-enter the command queue, keeping the actor responsive while a
// submission is being judged.
type Coordinator struct {
	session   domain.Session
	sm        *stateMachine
	roster    *roster
	timer     *SessionTimer
	events    *broadcaster
	evaluator Evaluator
	snapshots SnapshotStore
	now       func() time.Time

	evalTimeout time.Duration
	onEnded     func(sessionID string)
	winner      *string

	cmds chan func()
	quit chan struct{}
}

func NewCoordinator(session domain.Session, deps CoordinatorDeps) *Coordinator {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.EvalTimeout <= 0 {
		deps.EvalTimeout = defaultEvalTimeout
	}
	timer := NewSessionTimer()
	if deps.WarningLead > 0 {
		timer = NewSessionTimerWithLead(deps.WarningLead)
	}
	session.State = domain.StatePending
	c := &Coordinator{
		session:     session,
		sm:          newStateMachine(),
		roster:      newRoster(session.ProblemIDs),
		timer:       timer,
		events:      newBroadcaster(session.ID),
		evaluator:   deps.Evaluator,
		snapshots:   deps.Snapshots,
		now:         deps.Clock,
		evalTimeout: deps.EvalTimeout,
		onEnded:     deps.OnEnded,
		cmds:        make(chan func(), 64),
		quit:        make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Coordinator) run() {
	for {
		select {
		case fn := <-c.cmds:
			fn()
		case <-c.quit:
			return
		}
	}
}

// Stop tears the actor down. Pending commands fail with ErrSessionNotFound;
// the registry calls this after the retention window.
func (c *Coordinator) Stop() {
	c.timer.Cancel()
	select {
	case <-c.quit:
	default:
		close(c.quit)
	}
}

// do runs fn on the actor goroutine and waits for it to finish.
func (c *Coordinator) do(fn func()) error {
	done := make(chan struct{})
	select {
	case c.cmds <- func() { fn(); close(done) }:
	case <-c.quit:
		return domain.ErrSessionNotFound
	}
	select {
	case <-done:
		return nil
	case <-c.quit:
		select {
		case <-done:
			return nil
		default:
			return domain.ErrSessionNotFound
		}
	}
}

// enqueue delivers fn to the actor without waiting; used by timer callbacks
// and evaluator results. Dropped silently once the actor is stopped.
func (c *Coordinator) enqueue(fn func()) {
	select {
	case c.cmds <- fn:
	case <-c.quit:
	}
}

// Join adds the user to the roster, publishing userJoined only for a
// genuinely new participant so reconnects stay quiet. Private sessions
// require the access code from everyone but the creator.
func (c *Coordinator) Join(userID, accessCode string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	var opErr error
	err := c.do(func() {
		if c.session.IsPrivate && userID != c.session.CreatorID && accessCode != c.session.AccessCode {
			opErr = domain.ErrAccessCode
			return
		}
		if opErr = c.sm.canJoin(); opErr != nil {
			return
		}
		_, existed := c.roster.get(userID)
		c.roster.add(userID, c.now())
		if !existed {
			c.events.publish(domain.EventUserJoined, domain.UserJoinedPayload{UserID: userID})
		}
		snap = c.snapshotLocked()
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snap, opErr
}

// Start arms the countdown and moves the session to Active. Creator only.
// On success a hydrate reflecting the Active state is published.
func (c *Coordinator) Start(byUserID string) error {
	var opErr error
	err := c.do(func() {
		now := c.now()
		if opErr = c.sm.start(byUserID, c.session.CreatorID, now); opErr != nil {
			return
		}
		c.session.State = domain.StateActive
		c.session.StartedAt = c.sm.startedAt
		c.armTimer()
		c.events.publish(domain.EventHydrate, c.snapshotLocked())
	})
	if err != nil {
		return err
	}
	return opErr
}

func (c *Coordinator) armTimer() {
	duration := time.Duration(c.session.TimeLimitSeconds) * time.Second
	c.timer.Arm(duration,
		func(remaining time.Duration) {
			c.enqueue(func() {
				if c.sm.state != domain.StateActive {
					return
				}
				c.events.publish(domain.EventTimeWarning, domain.TimeWarningPayload{
					SecondsRemaining: int(remaining / time.Second),
				})
			})
		},
		func() {
			c.enqueue(func() {
				c.endNow(domain.EndTimeExpired, nil)
			})
		},
	)
}

// SubmitSolution publishes the optimistic userSubmitted signal and hands
// the code to the evaluator off-actor. The verdict re-enters the command
// queue; verdicts landing after the session ended are discarded.
func (c *Coordinator) SubmitSolution(userID, problemID, code, language string) error {
	var opErr error
	err := c.do(func() {
		if c.sm.state != domain.StateActive {
			if c.sm.state == domain.StateEnded {
				opErr = domain.ErrSessionClosed
			} else {
				opErr = domain.ErrInvalidState
			}
			return
		}
		if _, ok := c.roster.get(userID); !ok {
			opErr = domain.ErrUnknownParticipant
			return
		}
		if !c.roster.hasProblem(problemID) {
			opErr = domain.ErrUnknownProblem
			return
		}
		c.events.publish(domain.EventUserSubmitted, domain.UserSubmittedPayload{
			UserID:    userID,
			ProblemID: problemID,
		})
		go c.evaluate(userID, problemID, code, language)
	})
	if err != nil {
		return err
	}
	return opErr
}

func (c *Coordinator) evaluate(userID, problemID, code, language string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.evalTimeout)
	defer cancel()
	verdict, err := c.evaluator.Evaluate(ctx, problemID, code, language)
	c.enqueue(func() {
		c.onVerdict(userID, problemID, verdict, err)
	})
}

// onVerdict runs on the actor. A judge failure is a normal userCodeFail
// outcome, never a protocol error.
func (c *Coordinator) onVerdict(userID, problemID string, verdict domain.Verdict, evalErr error) {
	if c.sm.state == domain.StateEnded {
		log.Printf("session %s: discarding verdict for %s/%s, session already ended", c.session.ID, userID, problemID)
		return
	}
	if evalErr != nil || !verdict.Passed {
		detail := "test cases failed"
		if evalErr != nil {
			detail = evalErr.Error()
		}
		c.events.publish(domain.EventCodeFail, domain.CodeFailPayload{
			UserID:    userID,
			ProblemID: problemID,
			Error:     detail,
		})
		return
	}

	now := c.now()
	timeTaken := 0
	if c.session.StartedAt != nil {
		timeTaken = int(now.Sub(*c.session.StartedAt) / time.Second)
	}
	if _, err := c.roster.recordCompletion(userID, problemID, verdict.Score, timeTaken, now); err != nil {
		log.Printf("session %s: dropping verdict for %s/%s: %v", c.session.ID, userID, problemID, err)
		return
	}
	c.events.publish(domain.EventCodeSuccess, domain.CodeSuccessPayload{
		UserID:      userID,
		ProblemID:   problemID,
		Score:       verdict.Score,
		Leaderboard: computeLeaderboard(c.roster.snapshot()),
	})
	if c.roster.hasCompletedAll(userID) {
		c.endNow(domain.EndWon, &userID)
	}
}

// Forfeit drops the user from ranking eligibility; the roster keeps the
// completion records for audit.
func (c *Coordinator) Forfeit(userID string) error {
	var opErr error
	err := c.do(func() {
		if c.sm.state == domain.StateEnded {
			opErr = domain.ErrSessionClosed
			return
		}
		if opErr = c.roster.forfeit(userID); opErr != nil {
			return
		}
		c.events.publish(domain.EventUserForfeited, domain.UserForfeitedPayload{UserID: userID})
	})
	if err != nil {
		return err
	}
	return opErr
}

// End is the creator's explicit manual end.
func (c *Coordinator) End(byUserID string) error {
	var opErr error
	err := c.do(func() {
		if byUserID != c.session.CreatorID {
			opErr = domain.ErrNotCreator
			return
		}
		opErr = c.endNow(domain.EndManual, nil)
	})
	if err != nil {
		return err
	}
	return opErr
}

// endNow performs the single Ended transition. Racing triggers (winning
// submission vs timer expiry vs manual end) are already serialized by the
// actor; the state machine makes the second call a no-op.
func (c *Coordinator) endNow(reason domain.EndReason, winner *string) error {
	_, transitioned, err := c.sm.end(reason)
	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}
	c.session.State = domain.StateEnded
	c.timer.Cancel()
	c.winner = winner

	switch reason {
	case domain.EndWon:
		c.events.publish(domain.EventUserWon, domain.UserWonPayload{UserID: *winner})
	case domain.EndTimeExpired:
		c.events.publish(domain.EventTimeExhausted, domain.TimeExhaustedPayload{})
	}
	snap := c.snapshotLocked()
	c.events.publish(domain.EventHydrate, snap)

	if c.snapshots != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.snapshots.SaveSessionSnapshot(ctx, snap); err != nil {
				log.Printf("session %s: persist final snapshot: %v", c.session.ID, err)
			}
		}()
	}
	if c.onEnded != nil {
		go c.onEnded(c.session.ID)
	}
	return nil
}

// Snapshot returns a consistent full-state view via the actor.
func (c *Coordinator) Snapshot() (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := c.do(func() {
		snap = c.snapshotLocked()
	})
	return snap, err
}

// Subscribe attaches a live event stream, optionally backfilling from a
// last-known sequence. The broadcaster carries its own lock, so this does
// not round-trip through the actor.
func (c *Coordinator) Subscribe(fromSeq *uint64) (<-chan domain.Event, func(), error) {
	return c.events.subscribe(fromSeq)
}

// snapshotLocked must run on the actor goroutine.
func (c *Coordinator) snapshotLocked() domain.Snapshot {
	participants := c.roster.snapshot()
	return domain.Snapshot{
		Session:      c.session,
		Participants: participants,
		Leaderboard:  computeLeaderboard(participants),
		EndReason:    c.sm.endReason,
		Winner:       c.winner,
		LastSeq:      c.events.lastSeq(),
	}
}
