package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"literary-flow/internal/domain"
)

func TestLeaderboardRanksResults(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	board := NewLeaderboard(newClient(mr))
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

	// Limit 1 must still pick the earlier of the two tied 60s.
	top, err := board.FetchLeaderboard(ctx, "b", 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(top) != 1 || top[0].Name != "Binh" {
		t.Fatalf("expected Binh on top, got %+v", top)
	}

	entries, err := board.FetchLeaderboard(ctx, "b", 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(entries) != 3 || entries[1].Name != "An" || entries[1].Status != domain.StatusPassed || entries[2].Name != "Chi" {
		t.Fatalf("unexpected rows %+v", entries)
	}

	all, err := board.FetchLeaderboard(ctx, "", 10)
	if err != nil {
		t.Fatalf("fetch all: %v", err)
	}
	if len(all) != 4 || all[0].Name != "Dung" {
		t.Fatalf("unexpected cross-bank rows %+v", all)
	}

	empty, err := board.FetchLeaderboard(ctx, "none", 10)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty board, got %+v %v", empty, err)
	}
}
