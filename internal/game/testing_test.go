package game

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"literary-flow/internal/domain"
)

var t0 = time.Date(2024, 11, 22, 9, 0, 0, 0, time.UTC)

type recordingReporter struct {
	mu      sync.Mutex
	results []domain.Result
}

func (r *recordingReporter) Submit(result domain.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func (r *recordingReporter) terminal() []domain.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Result
	for _, res := range r.results {
		if res.Status != domain.StatusInProgress {
			out = append(out, res)
		}
	}
	return out
}

type recordingSound struct {
	mu     sync.Mutex
	played []domain.Sound
}

func (s *recordingSound) Play(kind domain.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.played = append(s.played, kind)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []Event
}

func (e *recordingEvents) Publish(ev Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
}

func (e *recordingEvents) count(kind EventKind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, ev := range e.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type fixture struct {
	match    *Match
	clock    *ManualClock
	reporter *recordingReporter
	sound    *recordingSound
	events   *recordingEvents
}

func boolPtr(v bool) *bool { return &v }

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testRules() Rules {
	return Rules{
		SpawnInterval: time.Second,
		MatchDuration: 180 * time.Second,
		PassingScore:  50,
		LaneMin:       20,
		LaneMax:       40,
	}
}

func newFixture(t *testing.T, rules Rules, items ...domain.QuestionItem) *fixture {
	t.Helper()
	if len(items) == 0 {
		items = []domain.QuestionItem{{ID: "q1", Text: "Lập luận chặt chẽ, thuyết phục.", Category: domain.CategoryArt}}
	}
	f := &fixture{
		clock:    NewManualClock(t0),
		reporter: &recordingReporter{},
		sound:    &recordingSound{},
		events:   &recordingEvents{},
	}
	f.match = NewMatch(Config{
		Rules:  rules,
		Items:  items,
		BankID: "bank-1",
		Player: domain.Player{ID: "p1", Name: "An", ClassName: "12A1"},
		Hooks:  Hooks{Sound: f.sound, Reporter: f.reporter, Events: f.events},
		Clock:  f.clock,
		Rand:   rand.New(rand.NewSource(7)),
		NewID:  sequentialIDs(),
	})
	return f
}

// spawn advances the clock past the spawn interval and ticks once.
func (f *fixture) spawn(t *testing.T) domain.ActiveEntity {
	t.Helper()
	before := len(f.match.Snapshot().Entities)
	f.clock.Advance(f.match.Rules().SpawnInterval + time.Millisecond)
	f.match.Tick(f.clock.Now())
	snap := f.match.Snapshot()
	if len(snap.Entities) != before+1 {
		t.Fatalf("expected a spawned entity, have %d (was %d)", len(snap.Entities), before)
	}
	return snap.Entities[len(snap.Entities)-1]
}

// zonePoint is the centre of the default layout zone for c.
func zonePoint(c domain.Category) domain.Point {
	for _, z := range DefaultLayout().Zones {
		if z.Category == c {
			return domain.Point{X: (z.Rect.Left + z.Rect.Right) / 2, Y: (z.Rect.Top + z.Rect.Bottom) / 2}
		}
	}
	panic("unknown category " + string(c))
}
