package app

import (
	"sort"
	"time"

	"challenge-session-service/internal/domain"
)

// rankedRow pairs a leaderboard entry with its tie-break timestamp.
type rankedRow struct {
	entry    domain.LeaderboardEntry
	earliest time.Time
}

// computeLeaderboard derives the ranked standings from participant state.
// It is a pure function of its input: no hidden state, safe to call on
// every read. Forfeited participants are excluded entirely.
//
// Ordering: total score desc, problems completed desc, earliest completion
// asc (rewards speed), then user ID asc for determinism. Ranks use standard
// competition numbering: tied entries share a rank and the next distinct
// entry skips past them (1,1,3 not 1,1,2).
func computeLeaderboard(participants []domain.Participant) []domain.LeaderboardEntry {
	rows := make([]rankedRow, 0, len(participants))
	for _, p := range participants {
		if p.Forfeited {
			continue
		}
		row := rankedRow{entry: domain.LeaderboardEntry{UserID: p.UserID}}
		for _, c := range p.Completions {
			row.entry.ProblemsCompleted++
			row.entry.TotalScore += c.Score
			if row.earliest.IsZero() || c.CompletedAt.Before(row.earliest) {
				row.earliest = c.CompletedAt
			}
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.entry.TotalScore != b.entry.TotalScore {
			return a.entry.TotalScore > b.entry.TotalScore
		}
		if a.entry.ProblemsCompleted != b.entry.ProblemsCompleted {
			return a.entry.ProblemsCompleted > b.entry.ProblemsCompleted
		}
		if !a.earliest.Equal(b.earliest) {
			return a.earliest.Before(b.earliest)
		}
		return a.entry.UserID < b.entry.UserID
	})

	entries := make([]domain.LeaderboardEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].entry
		if i > 0 && rows[i].tiedWith(rows[i-1]) {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}
	return entries
}

func (r rankedRow) tiedWith(other rankedRow) bool {
	return r.entry.TotalScore == other.entry.TotalScore &&
		r.entry.ProblemsCompleted == other.entry.ProblemsCompleted &&
		r.earliest.Equal(other.earliest)
}
