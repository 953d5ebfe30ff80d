package game

import (
	"math/rand"

	"github.com/google/uuid"

	"literary-flow/internal/domain"
)

// Spawner materializes cards from the deck on a fixed interval.
type Spawner struct {
	deck  *Deck
	rules Rules
	rnd   *rand.Rand
	newID func() string
}

// NewSpawner builds a spawner over deck. newID defaults to random UUIDs.
func NewSpawner(deck *Deck, rules Rules, rnd *rand.Rand, newID func() string) *Spawner {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Spawner{deck: deck, rules: rules, rnd: rnd, newID: newID}
}

// TrySpawn returns a new entity when more than intervalMs elapsed since lastSpawnMs
// and the deck still has a card to give.
func (s *Spawner) TrySpawn(nowMs, lastSpawnMs, intervalMs int64, score int) (domain.ActiveEntity, bool) {
	if nowMs-lastSpawnMs <= intervalMs {
		return domain.ActiveEntity{}, false
	}
	item, ok := s.deck.Draw()
	if !ok {
		return domain.ActiveEntity{}, false
	}
	// Template IDs repeat across reshuffled passes; on-screen cards need their own.
	item.ID = s.newID()
	return domain.ActiveEntity{
		QuestionItem: item,
		X:            s.uniform(s.rules.SpawnXMin, s.rules.SpawnXMax),
		Y:            s.uniform(s.rules.LaneMin, s.rules.LaneMax),
		Speed:        s.Speed(score),
	}, true
}

// Speed is the entry speed, raised with the score when progressive difficulty is on.
func (s *Spawner) Speed(score int) float64 {
	speed := s.rules.EntrySpeed
	if s.rules.SpeedScoreDivisor > 0 {
		speed += float64(score) / s.rules.SpeedScoreDivisor
	}
	return speed
}

func (s *Spawner) uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Float64()*(hi-lo)
}
