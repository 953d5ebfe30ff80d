package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"literary-flow/internal/domain"
	"literary-flow/internal/game"
)

var (
	styleDefault = tcell.StyleDefault
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleCard    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightYellow)
	styleDrag    = styleCard.Bold(true).Reverse(true)
	styleCorrect = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleWrong   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	zoneStyles = map[domain.Category]tcell.Style{
		domain.CategoryContent: tcell.StyleDefault.Background(tcell.ColorDarkBlue),
		domain.CategoryArt:     tcell.StyleDefault.Background(tcell.ColorDarkMagenta),
		domain.CategoryLesson:  tcell.StyleDefault.Background(tcell.ColorDarkGreen),
	}
)

func (g *Game) draw() {
	g.screen.Clear()
	snap := g.match.Snapshot()
	switch snap.Phase {
	case domain.PhaseMenu:
		g.drawMenu()
	case domain.PhasePlaying:
		g.drawPlaying(snap)
	default:
		g.drawResult(snap)
	}
	g.screen.Show()
}

func (g *Game) drawMenu() {
	w, h := g.screen.Size()
	lines := []string{
		"LITERARY FLOW",
		g.opts.Bank.Title,
		"",
		"Kéo mỗi thẻ vào đúng ô: " + strings.Join(categoryLabels(), " / "),
		"Thẻ sai nội dung thả vào bất kỳ ô nào đều mất mạng.",
		"",
		"Enter: bắt đầu    q: thoát",
	}
	top := h/2 - len(lines)/2
	for i, line := range lines {
		style := styleDefault
		if i == 0 {
			style = styleTitle
		}
		drawCentered(g.screen, w, top+i, line, style)
	}
}

func (g *Game) drawPlaying(snap game.Snapshot) {
	field := g.field()
	g.drawHUD(snap)
	g.drawZones(field)

	for _, e := range snap.Entities {
		if g.drag != nil && e.ID == g.drag.id {
			continue
		}
		x, y := field.ToCell(domain.Point{X: e.X, Y: e.Y})
		drawRunes(g.screen, x, y, cardLabel(e.Text), styleCard)
	}
	if g.drag != nil {
		drawRunes(g.screen, g.drag.x-g.drag.grabDX, g.drag.y, cardLabel(g.drag.text), styleDrag)
	}

	now := g.now()
	g.mu.Lock()
	live := g.popups[:0]
	for _, p := range g.popups {
		if now.After(p.expires) {
			continue
		}
		live = append(live, p)
		x, y := field.ToCell(p.point)
		if p.kind == domain.FeedbackCorrect {
			drawText(g.screen, x, y-1, "✓ ĐÚNG", styleCorrect)
		} else {
			drawText(g.screen, x, y-1, "✗ SAI", styleWrong)
		}
	}
	g.popups = live
	g.mu.Unlock()
}

func (g *Game) drawHUD(snap game.Snapshot) {
	w, _ := g.screen.Size()
	for x := 0; x < w; x++ {
		g.screen.SetContent(x, 0, ' ', nil, styleHUD)
	}
	hud := fmt.Sprintf(" Điểm: %d   Mạng: %s   Thời gian: %s   %s",
		snap.Score, hearts(snap.Lives, snap.MaxLives), clock(snap.TimeRemaining), g.opts.Player.Name)
	drawText(g.screen, 0, 0, hud, styleHUD)
}

func (g *Game) drawZones(field Field) {
	for _, zone := range g.layout.Zones {
		style := zoneStyles[zone.Category]
		if g.drag != nil && g.drag.inZone && g.drag.hovered == zone.Category {
			style = style.Reverse(true)
		}
		minX, minY, maxX := -1, -1, -1
		for y := hudRows; y < field.Height; y++ {
			for x := 0; x < field.Width; x++ {
				if !zone.Rect.Contains(field.ToPoint(x, y)) {
					continue
				}
				g.screen.SetContent(x, y, ' ', nil, style)
				if minX < 0 || x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if minY < 0 {
					minY = y
				}
			}
		}
		if minY >= 0 {
			label := zone.Category.Label()
			mid := minX + (maxX-minX+1)/2 - len([]rune(label))/2
			drawText(g.screen, mid, minY, label, style.Bold(true))
		}
	}
}

func (g *Game) drawResult(snap game.Snapshot) {
	w, h := g.screen.Size()
	title := "KẾT THÚC"
	style := styleWrong
	if snap.Phase == domain.PhaseVictory {
		title = "CHIẾN THẮNG"
		style = styleCorrect
	}
	lines := []string{
		fmt.Sprintf("Điểm: %d (cần %d)", snap.Score, max(g.match.Rules().PassingScore, 0)),
	}

	g.mu.Lock()
	if g.boardOK {
		lines = append(lines, "", "Bảng xếp hạng")
		for i, e := range g.board {
			lines = append(lines, fmt.Sprintf("%d. %s (%s) %d", i+1, e.Name, e.ClassName, e.Score))
		}
	}
	g.mu.Unlock()
	lines = append(lines, "", "r: chơi lại    q: thoát")

	top := h/2 - (len(lines)+1)/2
	drawCentered(g.screen, w, top, title, style)
	for i, line := range lines {
		drawCentered(g.screen, w, top+1+i, line, styleDefault)
	}
}

func categoryLabels() []string {
	out := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, c.Label())
	}
	return out
}

func hearts(lives, maxLives int) string {
	if lives < 0 {
		lives = 0
	}
	if maxLives < lives {
		maxLives = lives
	}
	return strings.Repeat("♥", lives) + strings.Repeat("♡", maxLives-lives)
}

func clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	drawRunes(s, x, y, []rune(text), style)
}

// drawRunes clips to the screen, so cards may sit partly off-field.
func drawRunes(s tcell.Screen, x, y int, runes []rune, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for i, r := range runes {
		cx := x + i
		if cx < 0 || cx >= w {
			continue
		}
		s.SetContent(cx, y, r, nil, style)
	}
}

func drawCentered(s tcell.Screen, w, y int, text string, style tcell.Style) {
	drawText(s, (w-len([]rune(text)))/2, y, text, style)
}
