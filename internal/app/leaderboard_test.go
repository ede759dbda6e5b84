package app

import (
	"reflect"
	"testing"
	"time"

	"challenge-session-service/internal/domain"
)

func participantWith(userID string, completions map[string]domain.Completion) domain.Participant {
	return domain.Participant{UserID: userID, Completions: completions}
}

func TestLeaderboardOrdering(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	participants := []domain.Participant{
		participantWith("slow", map[string]domain.Completion{
			"p1": {Score: 100, CompletedAt: base.Add(10 * time.Minute)},
		}),
		participantWith("fast", map[string]domain.Completion{
			"p1": {Score: 100, CompletedAt: base.Add(2 * time.Minute)},
		}),
		participantWith("leader", map[string]domain.Completion{
			"p1": {Score: 100, CompletedAt: base.Add(5 * time.Minute)},
			"p2": {Score: 50, CompletedAt: base.Add(8 * time.Minute)},
		}),
	}

	entries := computeLeaderboard(participants)
	want := []string{"leader", "fast", "slow"}
	for i, userID := range want {
		if entries[i].UserID != userID {
			t.Fatalf("position %d: expected %s, got %+v", i, userID, entries[i])
		}
	}
	if entries[0].Rank != 1 || entries[1].Rank != 2 || entries[2].Rank != 3 {
		t.Fatalf("expected ranks 1,2,3 got %d,%d,%d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
}

func TestLeaderboardCompetitionRanking(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tiedAt := base.Add(time.Minute)
	participants := []domain.Participant{
		participantWith("a", map[string]domain.Completion{"p1": {Score: 100, CompletedAt: tiedAt}}),
		participantWith("b", map[string]domain.Completion{"p1": {Score: 100, CompletedAt: tiedAt}}),
		participantWith("c", map[string]domain.Completion{"p1": {Score: 50, CompletedAt: base}}),
	}

	entries := computeLeaderboard(participants)
	// Tied entries share a rank; the next distinct entry skips past them.
	if entries[0].Rank != 1 || entries[1].Rank != 1 {
		t.Fatalf("expected shared rank 1, got %d and %d", entries[0].Rank, entries[1].Rank)
	}
	if entries[2].Rank != 3 {
		t.Fatalf("expected rank 3 after two tied entries, got %d", entries[2].Rank)
	}
	// Equal on every key: user ID breaks the tie deterministically.
	if entries[0].UserID != "a" || entries[1].UserID != "b" {
		t.Fatalf("expected a,b order, got %s,%s", entries[0].UserID, entries[1].UserID)
	}
}

func TestLeaderboardExcludesForfeited(t *testing.T) {
	p := participantWith("quitter", map[string]domain.Completion{"p1": {Score: 50, CompletedAt: time.Now()}})
	p.Forfeited = true
	entries := computeLeaderboard([]domain.Participant{
		p,
		participantWith("stayer", nil),
	})
	if len(entries) != 1 || entries[0].UserID != "stayer" {
		t.Fatalf("expected only stayer ranked, got %+v", entries)
	}
}

func TestLeaderboardDeterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	participants := []domain.Participant{
		participantWith("u1", map[string]domain.Completion{"p1": {Score: 70, CompletedAt: base}}),
		participantWith("u2", map[string]domain.Completion{"p2": {Score: 70, CompletedAt: base.Add(time.Second)}}),
		participantWith("u3", nil),
	}

	first := computeLeaderboard(participants)
	for i := 0; i < 10; i++ {
		if again := computeLeaderboard(participants); !reflect.DeepEqual(first, again) {
			t.Fatalf("compute must be deterministic: %+v vs %+v", first, again)
		}
	}
}
