// Package tui is the terminal frontend: a single local player drags cards with the mouse.
package tui

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"literary-flow/internal/app"
	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

const popupTTL = 700 * time.Millisecond

// Options configures a terminal game.
type Options struct {
	Bank        domain.Bank
	Rules       game.Rules
	Player      domain.Player
	Sound       game.SoundPlayer
	Reporter    game.ResultReporter
	Leaderboard app.LeaderboardReader
	Clock       game.Clock
}

type popup struct {
	kind    domain.FeedbackKind
	point   domain.Point
	expires time.Time
}

type drag struct {
	id      string
	text    string
	grabDX  int
	x, y    int
	hovered domain.Category
	inZone  bool
}

// frameEvent wakes the UI loop after a game frame or a hook.
type frameEvent struct{ t time.Time }

func (e *frameEvent) When() time.Time { return e.t }

type quitEvent struct{ t time.Time }

func (e *quitEvent) When() time.Time { return e.t }

// Game runs a match on a tcell screen.
type Game struct {
	screen tcell.Screen
	opts   Options
	match  *game.Match
	runner *game.Runner
	layout game.Layout
	now    func() time.Time

	drag *drag

	mu      sync.Mutex
	popups  []popup
	result  *domain.Result
	board   []domain.LeaderboardEntry
	boardOK bool
}

// New builds a game in the menu phase. The screen must already be initialized.
func New(screen tcell.Screen, opts Options) *Game {
	if opts.Clock == nil {
		opts.Clock = game.SystemClock{}
	}
	g := &Game{
		screen: screen,
		opts:   opts,
		layout: game.DefaultLayout(),
		now:    opts.Clock.Now,
	}
	g.match = game.NewMatch(game.Config{
		Rules:  opts.Rules,
		Items:  opts.Bank.Items,
		BankID: opts.Bank.ID,
		Player: opts.Player,
		Zones:  g.layout,
		Clock:  opts.Clock,
		Hooks:  game.Hooks{Sound: opts.Sound, Reporter: g, Events: g},
	})
	g.runner = game.NewRunner(g.match, game.RunnerConfig{
		Clock:   opts.Clock,
		OnFrame: func(game.Snapshot) { g.wake() },
	})
	return g
}

// Run processes terminal events until the player quits or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g.screen.EnableMouse()
	defer g.screen.DisableMouse()
	defer g.stop()

	go func() {
		<-ctx.Done()
		_ = g.screen.PostEvent(&quitEvent{t: time.Now()})
	}()

	g.draw()
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !g.handle(ev) {
			return ctx.Err()
		}
		g.draw()
	}
}

// handle applies one event and reports whether the loop continues.
func (g *Game) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *quitEvent:
		return false
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		return g.handleKey(ev)
	case *tcell.EventMouse:
		x, y := ev.Position()
		g.handleMouse(x, y, ev.Buttons())
	}
	return true
}

func (g *Game) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	phase := g.match.Phase()
	switch {
	case ev.Key() == tcell.KeyEnter && phase != domain.PhasePlaying:
		g.start()
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'r' && phase.Terminal():
		g.start()
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
		return false
	}
	return true
}

func (g *Game) handleMouse(x, y int, buttons tcell.ButtonMask) {
	if g.match.Phase() != domain.PhasePlaying {
		g.drag = nil
		return
	}
	field := g.field()
	pressed := buttons&tcell.Button1 != 0

	switch {
	case pressed && g.drag == nil:
		e, dx, ok := field.cardAt(g.match.Snapshot().Entities, x, y)
		if !ok {
			return
		}
		if err := g.match.BeginDrag(e.ID); err != nil {
			return
		}
		g.drag = &drag{id: e.ID, text: e.Text, grabDX: dx, x: x, y: y}
	case pressed && g.drag != nil:
		g.drag.x, g.drag.y = x, y
		g.drag.hovered, g.drag.inZone = g.match.HoverZone(field.ToPoint(x, y))
	case !pressed && g.drag != nil:
		id := g.drag.id
		g.drag = nil
		if _, err := g.match.Drop(id, field.ToPoint(x, y)); err != nil {
			slog.Debug("drop", "entity_id", id, "err", err)
		}
	}
}

func (g *Game) start() {
	g.mu.Lock()
	g.popups = nil
	g.result = nil
	g.board = nil
	g.boardOK = false
	g.mu.Unlock()
	g.drag = nil
	if g.runner != nil {
		g.runner.Start(context.Background())
		return
	}
	g.match.Start()
}

func (g *Game) stop() {
	if g.runner != nil {
		g.runner.Abort()
		return
	}
	g.match.Abort()
}

func (g *Game) field() Field {
	w, h := g.screen.Size()
	return Field{Width: w, Height: h}
}

func (g *Game) wake() {
	_ = g.screen.PostEvent(&frameEvent{t: time.Now()})
}

// Publish implements game.EventSink.
func (g *Game) Publish(ev game.Event) {
	if ev.Kind == game.EventFeedback && ev.Feedback != nil {
		g.mu.Lock()
		g.popups = append(g.popups, popup{kind: ev.Feedback.Kind, point: ev.Feedback.Point, expires: g.now().Add(popupTTL)})
		g.mu.Unlock()
	}
	g.wake()
}

// Submit implements game.ResultReporter. Final results are kept for the result screen.
func (g *Game) Submit(result domain.Result) {
	if g.opts.Reporter != nil {
		g.opts.Reporter.Submit(result)
	}
	if result.Status == domain.StatusInProgress {
		return
	}
	g.mu.Lock()
	g.result = &result
	g.mu.Unlock()
	if g.opts.Leaderboard != nil {
		go g.loadBoard(result.BankID)
	}
	g.wake()
}

func (g *Game) loadBoard(bankID string) {
	// Give the reporter a moment to deliver the final row first.
	time.Sleep(500 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := g.opts.Leaderboard.FetchLeaderboard(ctx, bankID, 5)
	if err != nil {
		slog.Warn("fetch leaderboard", "bank_id", bankID, "err", err)
		return
	}
	g.mu.Lock()
	g.board = entries
	g.boardOK = true
	g.mu.Unlock()
	g.wake()
}
