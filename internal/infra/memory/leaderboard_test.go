package memory

import (
	"context"
	"testing"
	"time"

	"literary-flow/internal/domain"
)

func TestLeaderboardUpsertsAndOrders(t *testing.T) {
	board := NewLeaderboard()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	submit := func(matchID, bank, name string, score int, status domain.Status, at time.Time) {
		t.Helper()
		err := board.SubmitResult(ctx, domain.Result{
			MatchID: matchID, BankID: bank, Score: score, Status: status, Timestamp: at,
			Player: domain.Player{ID: name, Name: name, ClassName: "12A1"},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	submit("m1", "b", "An", 0, domain.StatusInProgress, base)
	submit("m1", "b", "An", 60, domain.StatusPassed, base.Add(time.Minute))
	submit("m2", "b", "Binh", 60, domain.StatusPassed, base.Add(30*time.Second))
	submit("m3", "b", "Chi", 40, domain.StatusFailed, base)
	submit("m4", "other", "Dung", 90, domain.StatusPassed, base)

	entries, err := board.FetchLeaderboard(ctx, "b", 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 rows for bank b, got %+v", entries)
	}
	if entries[0].Name != "Binh" || entries[1].Name != "An" || entries[2].Name != "Chi" {
		t.Fatalf("unexpected order %+v", entries)
	}
	if entries[1].Status != domain.StatusPassed || entries[1].Score != 60 {
		t.Fatalf("expected final result to replace in-progress row, got %+v", entries[1])
	}

	all, _ := board.FetchLeaderboard(ctx, "", 2)
	if len(all) != 2 || all[0].Name != "Dung" {
		t.Fatalf("expected limited cross-bank rows, got %+v", all)
	}
}
