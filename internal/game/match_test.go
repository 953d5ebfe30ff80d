package game

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"literary-flow/internal/domain"
)

func TestCorrectDropScoresAndRemoves(t *testing.T) {
	f := newFixture(t, testRules(), domain.QuestionItem{
		ID: "q1", Text: "Giọng điệu hùng hồn", Category: domain.CategoryContent, IsCorrect: boolPtr(true),
	})
	f.match.Start()
	e := f.spawn(t)

	if err := f.match.BeginDrag(e.ID); err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	outcome, err := f.match.Drop(e.ID, zonePoint(domain.CategoryContent))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if outcome != domain.OutcomeCorrect {
		t.Fatalf("expected correct, got %s", outcome)
	}
	snap := f.match.Snapshot()
	if snap.Score != 10 || snap.Lives != 5 || len(snap.Entities) != 0 {
		t.Fatalf("unexpected state after correct drop: %+v", snap)
	}
	if f.events.count(EventFeedback) != 1 || len(f.sound.played) != 1 || f.sound.played[0] != domain.SoundCorrect {
		t.Fatalf("expected one correct feedback and sound, got feedback=%d sounds=%v", f.events.count(EventFeedback), f.sound.played)
	}
}

func TestWrongContentDropCostsLife(t *testing.T) {
	for _, zone := range domain.Categories {
		f := newFixture(t, testRules(), domain.QuestionItem{
			ID: "q1", Text: "Kêu gọi sử dụng bạo lực", Category: domain.CategoryContent, IsCorrect: boolPtr(false),
		})
		f.match.Start()
		e := f.spawn(t)

		outcome, err := f.match.Drop(e.ID, zonePoint(zone))
		if err != nil {
			t.Fatalf("drop: %v", err)
		}
		if outcome != domain.OutcomeWrongContent {
			t.Fatalf("zone %s: expected wrong content, got %s", zone, outcome)
		}
		snap := f.match.Snapshot()
		if snap.Lives != 4 || snap.Score != 0 || len(snap.Entities) != 0 {
			t.Fatalf("zone %s: unexpected state %+v", zone, snap)
		}
		if len(f.sound.played) != 1 || f.sound.played[0] != domain.SoundWrong {
			t.Fatalf("expected one wrong sound, got %v", f.sound.played)
		}
	}
}

func TestDropOutsideZonesOnlyReleases(t *testing.T) {
	f := newFixture(t, testRules())
	f.match.Start()
	e := f.spawn(t)

	if err := f.match.BeginDrag(e.ID); err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	outcome, err := f.match.Drop(e.ID, domain.Point{X: 500, Y: -300})
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if outcome != domain.OutcomeMiss {
		t.Fatalf("expected miss, got %s", outcome)
	}
	snap := f.match.Snapshot()
	if snap.Score != 0 || snap.Lives != 5 {
		t.Fatalf("expected unchanged score and lives, got %+v", snap)
	}
	if len(snap.Entities) != 1 || snap.Entities[0].IsDragging {
		t.Fatalf("expected entity back in flight, got %+v", snap.Entities)
	}
	if f.events.count(EventFeedback) != 0 || len(f.sound.played) != 0 {
		t.Fatalf("miss must not emit cues")
	}
}

func TestWrongCategoryPolicies(t *testing.T) {
	cases := []struct {
		policy       WrongCategoryPolicy
		wantEntities int
	}{
		{WrongCategoryRemove, 0},
		{WrongCategoryReturn, 1},
	}
	for _, tc := range cases {
		rules := testRules()
		rules.WrongCategory = tc.policy
		f := newFixture(t, rules)
		f.match.Start()
		e := f.spawn(t)
		_ = f.match.BeginDrag(e.ID)

		outcome, err := f.match.Drop(e.ID, zonePoint(domain.CategoryLesson))
		if err != nil {
			t.Fatalf("drop: %v", err)
		}
		if outcome != domain.OutcomeWrongCategory {
			t.Fatalf("expected wrong category, got %s", outcome)
		}
		snap := f.match.Snapshot()
		if snap.Lives != 4 || len(snap.Entities) != tc.wantEntities {
			t.Fatalf("policy %s: unexpected state %+v", tc.policy, snap)
		}
		if tc.wantEntities == 1 && snap.Entities[0].IsDragging {
			t.Fatalf("returned entity must float again")
		}
	}
}

func TestDraggedEntityIsFrozen(t *testing.T) {
	f := newFixture(t, testRules())
	f.match.Start()
	e := f.spawn(t)
	if err := f.match.BeginDrag(e.ID); err != nil {
		t.Fatalf("begin drag: %v", err)
	}
	for i := 0; i < 10; i++ {
		f.match.Tick(f.clock.Now())
	}
	if got := f.match.Snapshot().Entities[0].X; got != e.X {
		t.Fatalf("dragged entity moved from %v to %v", e.X, got)
	}
}

func TestExitMissPenalizesOnlyCatchableCards(t *testing.T) {
	cases := []struct {
		name      string
		isCorrect *bool
		penalize  bool
		wantLives int
	}{
		{"unflagged", nil, false, 4},
		{"valid", boolPtr(true), false, 4},
		{"invalid passes", boolPtr(false), false, 5},
		{"invalid penalized", boolPtr(false), true, 4},
	}
	for _, tc := range cases {
		rules := testRules()
		rules.EntrySpeed = 50
		rules.PenalizeAllMisses = tc.penalize
		f := newFixture(t, rules, domain.QuestionItem{ID: "q", Text: "x", Category: domain.CategoryArt, IsCorrect: tc.isCorrect})
		f.match.Start()
		f.spawn(t)

		f.match.Tick(f.clock.Now())
		f.match.Tick(f.clock.Now())

		snap := f.match.Snapshot()
		if len(snap.Entities) != 0 {
			t.Fatalf("%s: expected entity evicted, got %+v", tc.name, snap.Entities)
		}
		if snap.Lives != tc.wantLives {
			t.Fatalf("%s: expected %d lives, got %d", tc.name, tc.wantLives, snap.Lives)
		}
		if f.events.count(EventMissed) != 1 {
			t.Fatalf("%s: expected one missed event", tc.name)
		}
	}
}

func TestTimeExpiryUsesPassingThreshold(t *testing.T) {
	cases := []struct {
		increment int
		want      domain.Phase
		status    domain.Status
	}{
		{80, domain.PhaseVictory, domain.StatusPassed},
		{79, domain.PhaseGameOver, domain.StatusFailed},
	}
	for _, tc := range cases {
		rules := testRules()
		rules.PassingScore = 80
		rules.ScoreIncrement = tc.increment
		rules.MatchDuration = 3 * time.Second
		f := newFixture(t, rules)
		f.match.Start()
		e := f.spawn(t)
		if _, err := f.match.Drop(e.ID, zonePoint(domain.CategoryArt)); err != nil {
			t.Fatalf("drop: %v", err)
		}

		if !f.match.Countdown() || !f.match.Countdown() {
			t.Fatalf("match ended early")
		}
		if f.match.Countdown() {
			t.Fatalf("expected match to end at zero")
		}
		snap := f.match.Snapshot()
		if snap.Phase != tc.want || snap.TimeRemaining != 0 {
			t.Fatalf("score %d: expected %s, got %+v", tc.increment, tc.want, snap)
		}
		results := f.reporter.terminal()
		if len(results) != 1 || results[0].Status != tc.status || results[0].Score != tc.increment {
			t.Fatalf("expected one %s result, got %+v", tc.status, results)
		}
	}
}

func TestPassAnyPassesScorelessMatch(t *testing.T) {
	rules := testRules()
	rules.PassingScore = PassAny
	rules.MatchDuration = time.Second
	if got := rules.WithDefaults().PassingScore; got != PassAny {
		t.Fatalf("defaults overwrote PassAny: %d", got)
	}
	f := newFixture(t, rules)
	f.match.Start()
	if f.match.Countdown() {
		t.Fatalf("expected match to end at zero")
	}
	results := f.reporter.terminal()
	if len(results) != 1 || results[0].Status != domain.StatusPassed || results[0].Score != 0 {
		t.Fatalf("expected a passed result with score 0, got %+v", results)
	}
}

func TestLifeDepletionEndsImmediately(t *testing.T) {
	f := newFixture(t, testRules())
	f.match.Start()
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, f.spawn(t).ID)
	}
	for i, id := range ids {
		if _, err := f.match.Drop(id, zonePoint(domain.CategoryLesson)); err != nil {
			t.Fatalf("drop %d: %v", i, err)
		}
	}
	snap := f.match.Snapshot()
	if snap.Phase != domain.PhaseGameOver || snap.Lives != 0 {
		t.Fatalf("expected immediate game over, got %+v", snap)
	}
	if snap.TimeRemaining != 180 {
		t.Fatalf("timer must not be involved, remaining %d", snap.TimeRemaining)
	}
	results := f.reporter.terminal()
	if len(results) != 1 || results[0].Status != domain.StatusFailed {
		t.Fatalf("expected one failed result, got %+v", results)
	}
}

func TestScoreCapForcesVictory(t *testing.T) {
	rules := testRules()
	rules.ScoreCap = 20
	f := newFixture(t, rules)
	f.match.Start()
	first, second := f.spawn(t), f.spawn(t)

	if _, err := f.match.Drop(first.ID, zonePoint(domain.CategoryArt)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if f.match.Phase() != domain.PhasePlaying {
		t.Fatalf("expected playing below the cap")
	}
	if _, err := f.match.Drop(second.ID, zonePoint(domain.CategoryArt)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	snap := f.match.Snapshot()
	if snap.Phase != domain.PhaseVictory || snap.Score != 20 {
		t.Fatalf("expected victory at the cap, got %+v", snap)
	}
}

func TestFiniteDeckEndsWhenFieldClears(t *testing.T) {
	rules := testRules()
	rules.FiniteDeck = true
	rules.PassingScore = 20
	f := newFixture(t, rules,
		domain.QuestionItem{ID: "a", Text: "Luận đề rõ ràng", Category: domain.CategoryLesson},
		domain.QuestionItem{ID: "b", Text: "Lí lẽ, bằng chứng thuyết phục", Category: domain.CategoryLesson},
	)
	f.match.Start()
	first, second := f.spawn(t), f.spawn(t)

	f.clock.Advance(time.Hour)
	f.match.Tick(f.clock.Now())
	if n := len(f.match.Snapshot().Entities); n != 2 {
		t.Fatalf("empty deck must not spawn, have %d entities", n)
	}

	if _, err := f.match.Drop(first.ID, zonePoint(domain.CategoryLesson)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if f.match.Phase() != domain.PhasePlaying {
		t.Fatalf("round must continue while cards remain")
	}
	if _, err := f.match.Drop(second.ID, zonePoint(domain.CategoryLesson)); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if got := f.match.Phase(); got != domain.PhaseVictory {
		t.Fatalf("expected victory once the deck is served, got %s", got)
	}
}

func TestStartResetsState(t *testing.T) {
	f := newFixture(t, testRules())
	fresh := f.match.Start()
	pristine := f.match.Snapshot()

	e := f.spawn(t)
	_, _ = f.match.Drop(e.ID, zonePoint(domain.CategoryArt))
	e = f.spawn(t)
	_, _ = f.match.Drop(e.ID, zonePoint(domain.CategoryContent))
	f.spawn(t)
	f.match.Countdown()

	gen := f.match.Start()
	if gen != fresh+1 {
		t.Fatalf("expected generation %d, got %d", fresh+1, gen)
	}
	snap := f.match.Snapshot()
	if snap.Phase != domain.PhasePlaying || snap.Score != 0 || snap.Lives != 5 ||
		snap.TimeRemaining != 180 || len(snap.Entities) != 0 || snap.DeckRemaining != pristine.DeckRemaining {
		t.Fatalf("expected reset state, got %+v", snap)
	}
	if snap.MatchID == pristine.MatchID {
		t.Fatalf("expected a new match id")
	}
}

func TestTerminalStateIsFinal(t *testing.T) {
	rules := testRules()
	rules.MatchDuration = time.Second
	f := newFixture(t, rules)
	f.match.Start()
	e := f.spawn(t)
	f.match.Countdown()

	if f.match.Phase() != domain.PhaseGameOver {
		t.Fatalf("expected game over")
	}
	if f.match.Tick(f.clock.Now().Add(time.Hour)) || f.match.Countdown() {
		t.Fatalf("terminal match must not keep playing")
	}
	if _, err := f.match.Drop(e.ID, zonePoint(domain.CategoryArt)); !errors.Is(err, domain.ErrNotPlaying) {
		t.Fatalf("expected ErrNotPlaying, got %v", err)
	}
	if err := f.match.BeginDrag(e.ID); !errors.Is(err, domain.ErrNotPlaying) {
		t.Fatalf("expected ErrNotPlaying, got %v", err)
	}
	if n := len(f.reporter.terminal()); n != 1 {
		t.Fatalf("expected exactly one terminal result, got %d", n)
	}
	if f.match.Snapshot().Score != 0 {
		t.Fatalf("score changed after terminal transition")
	}
}

func TestStaleGenerationIsIgnored(t *testing.T) {
	f := newFixture(t, testRules())
	old := f.match.Start()
	f.match.Start()

	if f.match.tick(old, f.clock.Now().Add(time.Hour)) {
		t.Fatalf("stale tick reported playing")
	}
	if f.match.countdown(old) {
		t.Fatalf("stale countdown reported playing")
	}
	snap := f.match.Snapshot()
	if len(snap.Entities) != 0 || snap.TimeRemaining != 180 {
		t.Fatalf("stale generation mutated state: %+v", snap)
	}
}

func TestAbortReturnsToMenuWithoutResult(t *testing.T) {
	f := newFixture(t, testRules())
	gen := f.match.Start()
	f.spawn(t)
	f.match.Abort()

	snap := f.match.Snapshot()
	if snap.Phase != domain.PhaseMenu || len(snap.Entities) != 0 {
		t.Fatalf("expected menu with empty field, got %+v", snap)
	}
	if f.match.tick(gen, f.clock.Now().Add(time.Hour)) {
		t.Fatalf("aborted generation must not tick")
	}
	if n := len(f.reporter.terminal()); n != 0 {
		t.Fatalf("abort must not report a result, got %d", n)
	}
}

func TestUnknownEntity(t *testing.T) {
	f := newFixture(t, testRules())
	f.match.Start()
	if err := f.match.BeginDrag("nope"); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
	if _, err := f.match.Drop("nope", domain.Point{}); !errors.Is(err, domain.ErrEntityNotFound) {
		t.Fatalf("expected ErrEntityNotFound, got %v", err)
	}
}

func TestInvariantsUnderRandomPlay(t *testing.T) {
	rules := testRules()
	rules.EntrySpeed = 7
	rules.ScoreCap = 100
	rules.SpawnInterval = 300 * time.Millisecond
	yes, no := true, false
	f := newFixture(t, rules,
		domain.QuestionItem{ID: "a", Text: "a", Category: domain.CategoryContent, IsCorrect: &yes},
		domain.QuestionItem{ID: "b", Text: "b", Category: domain.CategoryArt, IsCorrect: &no},
		domain.QuestionItem{ID: "c", Text: "c", Category: domain.CategoryLesson},
	)
	rnd := rand.New(rand.NewSource(99))

	for round := 0; round < 20; round++ {
		f.match.Start()
		prev := f.match.Snapshot()
		for step := 0; step < 400 && f.match.Phase() == domain.PhasePlaying; step++ {
			switch rnd.Intn(4) {
			case 0, 1:
				f.clock.Advance(time.Duration(rnd.Intn(400)) * time.Millisecond)
				f.match.Tick(f.clock.Now())
			case 2:
				f.match.Countdown()
			case 3:
				snap := f.match.Snapshot()
				if len(snap.Entities) == 0 {
					continue
				}
				e := snap.Entities[rnd.Intn(len(snap.Entities))]
				_ = f.match.BeginDrag(e.ID)
				_, _ = f.match.Drop(e.ID, domain.Point{X: rnd.Float64() * 100, Y: rnd.Float64() * 100})
			}
			cur := f.match.Snapshot()
			if cur.Lives < 0 || cur.Lives > rules.WithDefaults().MaxLives || cur.Lives > prev.Lives {
				t.Fatalf("lives invariant broken: %d -> %d", prev.Lives, cur.Lives)
			}
			if cur.Score < prev.Score || cur.Score > rules.ScoreCap {
				t.Fatalf("score invariant broken: %d -> %d", prev.Score, cur.Score)
			}
			if cur.TimeRemaining > prev.TimeRemaining {
				t.Fatalf("time increased: %d -> %d", prev.TimeRemaining, cur.TimeRemaining)
			}
			prev = cur
		}
	}

	finals := f.reporter.terminal()
	starts := len(f.reporter.results) - len(finals)
	if starts != 20 || len(finals) > 20 {
		t.Fatalf("expected 20 starts and at most one result per match, got %d starts %d results", starts, len(finals))
	}
	perMatch := map[string]int{}
	for _, r := range finals {
		perMatch[r.MatchID]++
		if perMatch[r.MatchID] > 1 {
			t.Fatalf("match %s reported twice", r.MatchID)
		}
	}
}
