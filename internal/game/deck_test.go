package game

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"literary-flow/internal/domain"
)

func deckItems(n int) []domain.QuestionItem {
	items := make([]domain.QuestionItem, n)
	for i := range items {
		items[i] = domain.QuestionItem{ID: fmt.Sprintf("q%d", i), Text: "t", Category: domain.CategoryLesson}
	}
	return items
}

func TestDeckShuffleIsPermutation(t *testing.T) {
	items := deckItems(14)
	deck := NewDeck(items, rand.New(rand.NewSource(1)), false)

	got := deck.Shuffle()
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
	ids := make([]string, len(got))
	for i, it := range got {
		ids[i] = it.ID
	}
	sort.Strings(ids)
	want := make([]string, len(items))
	for i, it := range items {
		want[i] = it.ID
	}
	sort.Strings(want)
	for i := range ids {
		if ids[i] != want[i] {
			t.Fatalf("shuffle is not a permutation: %v", ids)
		}
	}
}

func TestDeckFiniteRunsEmpty(t *testing.T) {
	deck := NewDeck(deckItems(3), rand.New(rand.NewSource(1)), false)
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		item, ok := deck.Draw()
		if !ok {
			t.Fatalf("draw %d: expected item", i)
		}
		if seen[item.ID] {
			t.Fatalf("item %s drawn twice in one pass", item.ID)
		}
		seen[item.ID] = true
	}
	if _, ok := deck.Draw(); ok {
		t.Fatalf("expected empty deck")
	}
	if !deck.Exhausted() {
		t.Fatalf("expected exhausted deck")
	}
}

func TestDeckReshufflesWhenEnabled(t *testing.T) {
	deck := NewDeck(deckItems(2), rand.New(rand.NewSource(1)), true)
	for i := 0; i < 7; i++ {
		if _, ok := deck.Draw(); !ok {
			t.Fatalf("draw %d: reshuffling deck ran empty", i)
		}
	}
	if deck.Exhausted() {
		t.Fatalf("reshuffling deck must never be exhausted")
	}
}

func TestDeckShuffleIsUnbiased(t *testing.T) {
	deck := NewDeck(deckItems(3), rand.New(rand.NewSource(42)), false)
	counts := map[string]int{}
	const rounds = 6000
	for i := 0; i < rounds; i++ {
		counts[deck.Shuffle()[0].ID]++
	}
	for id, n := range counts {
		if n < rounds/3-300 || n > rounds/3+300 {
			t.Fatalf("item %s led %d of %d shuffles", id, n, rounds)
		}
	}
}
