package game

import "literary-flow/internal/domain"

// ZoneLocator answers which drop zone, if any, contains a release point.
type ZoneLocator interface {
	ZoneAt(p domain.Point) (domain.Category, bool)
}

// Layout is a ZoneLocator over fixed rectangles, checked in order.
type Layout struct {
	Zones []domain.Zone `json:"zones"`
}

// DefaultLayout places the three zones side by side in the bottom third of the field.
func DefaultLayout() Layout {
	return Layout{Zones: []domain.Zone{
		{Category: domain.CategoryContent, Rect: domain.Rect{Left: 4, Top: 70, Right: 31, Bottom: 98}},
		{Category: domain.CategoryArt, Rect: domain.Rect{Left: 36.5, Top: 70, Right: 63.5, Bottom: 98}},
		{Category: domain.CategoryLesson, Rect: domain.Rect{Left: 69, Top: 70, Right: 96, Bottom: 98}},
	}}
}

func (l Layout) ZoneAt(p domain.Point) (domain.Category, bool) {
	for _, z := range l.Zones {
		if z.Rect.Contains(p) {
			return z.Category, true
		}
	}
	return "", false
}

// Resolve decides the outcome of dropping item on zone. found is false when the
// release point is outside every zone. Content validity is checked before category.
func Resolve(item domain.QuestionItem, zone domain.Category, found bool) domain.Outcome {
	switch {
	case !found:
		return domain.OutcomeMiss
	case !item.ValidContent():
		return domain.OutcomeWrongContent
	case zone == item.Category:
		return domain.OutcomeCorrect
	default:
		return domain.OutcomeWrongCategory
	}
}
