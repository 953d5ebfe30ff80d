package tui

import (
	"testing"

	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

func TestFieldRoundTripsCells(t *testing.T) {
	f := Field{Width: 120, Height: 41}
	for _, cell := range [][2]int{{0, 1}, {60, 20}, {119, 40}} {
		x, y := f.ToCell(f.ToPoint(cell[0], cell[1]))
		if x != cell[0] || y != cell[1] {
			t.Fatalf("cell %v mapped back to (%d,%d)", cell, x, y)
		}
	}
	if x, y := f.ToCell(domain.Point{X: -25, Y: 0}); x != -30 || y != 1 {
		t.Fatalf("expected off-screen spawn at (-30,1), got (%d,%d)", x, y)
	}
}

func TestZoneCellsMapIntoZones(t *testing.T) {
	f := Field{Width: 100, Height: 31}
	layout := game.DefaultLayout()
	seen := map[domain.Category]bool{}
	for y := hudRows; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if zone, ok := layout.ZoneAt(f.ToPoint(x, y)); ok {
				seen[zone] = true
			}
		}
	}
	if len(seen) != 3 {
		t.Fatalf("expected every zone reachable from some cell, got %v", seen)
	}
}

func TestCardAt(t *testing.T) {
	f := Field{Width: 100, Height: 101}
	entities := []domain.ActiveEntity{
		{QuestionItem: domain.QuestionItem{ID: "a", Text: "abc"}, X: 10, Y: 10},
		{QuestionItem: domain.QuestionItem{ID: "b", Text: "xyz"}, X: 12, Y: 10},
	}
	// Card a spans x 10..14, card b spans 12..16 on row 11; b is on top.
	if e, dx, ok := f.cardAt(entities, 13, 11); !ok || e.ID != "b" || dx != 1 {
		t.Fatalf("expected top card b at offset 1, got %v %d %v", e.ID, dx, ok)
	}
	if e, _, ok := f.cardAt(entities, 10, 11); !ok || e.ID != "a" {
		t.Fatalf("expected card a, got %v %v", e.ID, ok)
	}
	if _, _, ok := f.cardAt(entities, 40, 11); ok {
		t.Fatalf("expected no card")
	}
}

func TestCardLabelTruncates(t *testing.T) {
	long := []rune(cardLabelText(50))
	label := cardLabel(string(long))
	if len(label) != maxCardWidth || label[len(label)-2] != '…' {
		t.Fatalf("unexpected label %q", string(label))
	}
	if got := string(cardLabel("Lập luận")); got != "[Lập luận]" {
		t.Fatalf("unexpected short label %q", got)
	}
}

func cardLabelText(n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = 'ă'
	}
	return string(out)
}
