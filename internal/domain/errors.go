package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for the given ID.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned for commands against an Ended session.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidState rejects a command not valid for the current lifecycle state.
	ErrInvalidState = errors.New("invalid session state for command")
	// ErrNotCreator rejects a privileged command issued by a non-owner.
	ErrNotCreator = errors.New("only the session creator may do this")
	// ErrUnknownParticipant is returned when a user acts before joining.
	ErrUnknownParticipant = errors.New("participant not found in session")
	// ErrUnknownProblem indicates a problem ID outside the session's problem set.
	ErrUnknownProblem = errors.New("problem not part of session")
	// ErrProblemNotFound indicates the problem catalog has no such problem.
	ErrProblemNotFound = errors.New("problem not found")
	// ErrAccessCode rejects a join to a private session with the wrong code.
	ErrAccessCode = errors.New("access code mismatch")
	// ErrStaleSequence tells a reconnecting client its sequence token is older
	// than the replay buffer retains; it must request a full hydrate.
	ErrStaleSequence = errors.New("sequence no longer in replay buffer")
	// ErrEvaluationTimeout is returned by evaluators when judging exceeds its deadline.
	ErrEvaluationTimeout = errors.New("evaluation timed out")
	// ErrEvaluationRuntime is returned by evaluators on judge-side runtime failure.
	ErrEvaluationRuntime = errors.New("evaluation runtime error")
)
