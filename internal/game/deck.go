package game

import (
	"math/rand"

	"literary-flow/internal/domain"
)

// Deck is the shuffled working queue of questions for one match.
// It is not safe for concurrent use; Match guards it with its own lock.
type Deck struct {
	items     []domain.QuestionItem
	queue     []domain.QuestionItem
	rnd       *rand.Rand
	reshuffle bool
}

// NewDeck copies items and deals a first shuffled pass.
// With reshuffle set, an exhausted deck deals a fresh pass instead of running empty.
func NewDeck(items []domain.QuestionItem, rnd *rand.Rand, reshuffle bool) *Deck {
	d := &Deck{
		items:     append([]domain.QuestionItem(nil), items...),
		rnd:       rnd,
		reshuffle: reshuffle,
	}
	d.Shuffle()
	return d
}

// Shuffle replaces the queue with a uniform permutation of all items.
func (d *Deck) Shuffle() []domain.QuestionItem {
	d.queue = append(d.queue[:0], d.items...)
	d.rnd.Shuffle(len(d.queue), func(i, j int) {
		d.queue[i], d.queue[j] = d.queue[j], d.queue[i]
	})
	return append([]domain.QuestionItem(nil), d.queue...)
}

// Draw pops the next item. ok is false when the deck is empty and reshuffling is off.
func (d *Deck) Draw() (domain.QuestionItem, bool) {
	if len(d.queue) == 0 {
		if !d.reshuffle || len(d.items) == 0 {
			return domain.QuestionItem{}, false
		}
		d.Shuffle()
	}
	item := d.queue[0]
	d.queue = d.queue[1:]
	return item, true
}

// Remaining is the number of items left in the current pass.
func (d *Deck) Remaining() int {
	return len(d.queue)
}

// Exhausted reports whether no further item will ever be drawn.
func (d *Deck) Exhausted() bool {
	return len(d.queue) == 0 && (!d.reshuffle || len(d.items) == 0)
}
