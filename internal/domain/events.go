package domain

// Payload shapes for each event type. The hydrate payload is a full
// Snapshot; everything else is one of the structs below.

type UserJoinedPayload struct {
	UserID string `json:"userId"`
}

type UserSubmittedPayload struct {
	UserID    string `json:"userId"`
	ProblemID string `json:"problemId"`
}

type CodeSuccessPayload struct {
	UserID      string             `json:"userId"`
	ProblemID   string             `json:"problemId"`
	Score       int                `json:"score"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type CodeFailPayload struct {
	UserID    string `json:"userId"`
	ProblemID string `json:"problemId"`
	Error     string `json:"error"`
}

type UserForfeitedPayload struct {
	UserID string `json:"userId"`
}

type UserWonPayload struct {
	UserID string `json:"userId"`
}

type TimeWarningPayload struct {
	SecondsRemaining int `json:"secondsRemaining"`
}

type TimeExhaustedPayload struct{}
