package tui

import (
	"math"

	"literary-flow/internal/domain"
)

const (
	hudRows      = 1
	maxCardWidth = 30
)

// Field maps play-field percentages onto terminal cells below the HUD row.
type Field struct {
	Width  int
	Height int
}

func (f Field) rows() int {
	if f.Height <= hudRows {
		return 1
	}
	return f.Height - hudRows
}

func (f Field) cols() int {
	if f.Width <= 0 {
		return 1
	}
	return f.Width
}

// ToCell returns the cell holding p.
func (f Field) ToCell(p domain.Point) (int, int) {
	x := int(math.Floor(p.X / 100 * float64(f.cols())))
	y := hudRows + int(math.Floor(p.Y/100*float64(f.rows())))
	return x, y
}

// ToPoint returns the center of a cell in percentages.
func (f Field) ToPoint(x, y int) domain.Point {
	return domain.Point{
		X: (float64(x) + 0.5) / float64(f.cols()) * 100,
		Y: (float64(y-hudRows) + 0.5) / float64(f.rows()) * 100,
	}
}

// cardLabel is the single-line face of a card.
func cardLabel(text string) []rune {
	runes := []rune(text)
	if len(runes) > maxCardWidth-2 {
		runes = append(runes[:maxCardWidth-3], '…')
	}
	out := make([]rune, 0, len(runes)+2)
	out = append(out, '[')
	out = append(out, runes...)
	return append(out, ']')
}

// cardAt returns the entity whose card covers cell (x, y), topmost first.
func (f Field) cardAt(entities []domain.ActiveEntity, x, y int) (domain.ActiveEntity, int, bool) {
	for i := len(entities) - 1; i >= 0; i-- {
		e := entities[i]
		cx, cy := f.ToCell(domain.Point{X: e.X, Y: e.Y})
		if cy == y && x >= cx && x < cx+len(cardLabel(e.Text)) {
			return e, x - cx, true
		}
	}
	return domain.ActiveEntity{}, 0, false
}
