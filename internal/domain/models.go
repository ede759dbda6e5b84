package domain

import "time"

// SessionState is the lifecycle phase of a challenge session.
// Transitions only move forward: Pending -> Active -> Ended.
type SessionState string

const (
	StatePending SessionState = "pending"
	StateActive  SessionState = "active"
	StateEnded   SessionState = "ended"
)

// EndReason records what caused the transition to Ended.
type EndReason string

const (
	EndManual      EndReason = "manual"
	EndWon         EndReason = "won"
	EndTimeExpired EndReason = "timeExpired"
)

// EventType enumerates the fixed event vocabulary broadcast to subscribers.
type EventType string

const (
	EventHydrate       EventType = "hydrate"
	EventUserJoined    EventType = "userJoined"
	EventUserSubmitted EventType = "userSubmitted"
	EventCodeSuccess   EventType = "userCodeSuccess"
	EventCodeFail      EventType = "userCodeFail"
	EventUserForfeited EventType = "userForfeited"
	EventUserWon       EventType = "userWon"
	EventTimeWarning   EventType = "timeWarning"
	EventTimeExhausted EventType = "timeExhausted"
)

// Session holds the configuration of one challenge session. Mutable
// lifecycle fields (State, StartedAt) are owned by the session actor.
type Session struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	CreatorID        string       `json:"creatorId"`
	Difficulty       string       `json:"difficulty"`
	IsPrivate        bool         `json:"isPrivate"`
	AccessCode       string       `json:"-"`
	ProblemIDs       []string     `json:"problemIds"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	State            SessionState `json:"state"`
	CreatedAt        time.Time    `json:"createdAt"`
	StartedAt        *time.Time   `json:"startedAt,omitempty"`
}

// Completion is the record of a participant's first accepted solution for
// one problem. Later resubmissions never overwrite it.
type Completion struct {
	Score            int       `json:"score"`
	TimeTakenSeconds int       `json:"timeTakenSeconds"`
	CompletedAt      time.Time `json:"completedAt"`
}

// Participant is a user who joined a session. Forfeited participants stay
// in the roster for audit but are excluded from ranking.
type Participant struct {
	UserID      string                `json:"userId"`
	JoinedAt    time.Time             `json:"joinedAt"`
	Forfeited   bool                  `json:"forfeited"`
	Completions map[string]Completion `json:"completions"`
}

// LeaderboardEntry is a derived standings row; it is recomputed from the
// roster on every read and never stored.
type LeaderboardEntry struct {
	UserID            string `json:"userId"`
	ProblemsCompleted int    `json:"problemsCompleted"`
	TotalScore        int    `json:"totalScore"`
	Rank              int    `json:"rank"`
}

// Snapshot is the full-state view carried by hydrate events and returned
// on join/reconnect.
type Snapshot struct {
	Session      Session            `json:"session"`
	Participants []Participant      `json:"participants"`
	Leaderboard  []LeaderboardEntry `json:"leaderboard"`
	EndReason    *EndReason         `json:"endReason,omitempty"`
	Winner       *string            `json:"winner,omitempty"`
	// LastSeq is the newest event sequence already reflected in this
	// snapshot; clients resume their stream from it.
	LastSeq uint64 `json:"lastSeq"`
}

// Event is one envelope on a session's broadcast stream. Seq strictly
// increases per session; clients use it to detect gaps and rehydrate.
type Event struct {
	SessionID string    `json:"sessionId"`
	Seq       uint64    `json:"seq"`
	Type      EventType `json:"type"`
	Payload   any       `json:"payload"`
}

// Problem is catalog metadata for one challenge problem.
type Problem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Difficulty  string `json:"difficulty"`
	Description string `json:"description"`
}

// TestResult is one judge test-case outcome inside a Verdict.
type TestResult struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Output string `json:"output,omitempty"`
}

// Verdict is the evaluator's decision on one submission.
type Verdict struct {
	Passed      bool         `json:"passed"`
	Score       int          `json:"score"`
	TestResults []TestResult `json:"testResults,omitempty"`
}
