package game

import "literary-flow/internal/domain"

// Advance moves every free card by its speed and evicts the ones past exitBoundary.
// Dragged cards are frozen. Survivors keep spawn order.
func Advance(entities []domain.ActiveEntity, exitBoundary float64) (survivors, missed []domain.ActiveEntity) {
	survivors = make([]domain.ActiveEntity, 0, len(entities))
	for _, e := range entities {
		if e.IsDragging {
			survivors = append(survivors, e)
			continue
		}
		e.X += e.Speed
		if e.X > exitBoundary {
			missed = append(missed, e)
			continue
		}
		survivors = append(survivors, e)
	}
	return survivors, missed
}

// ShouldCatch reports whether letting e leave the field costs a life.
// Invalid statements are meant to be ignored unless penalizeAll is set.
func ShouldCatch(e domain.ActiveEntity, penalizeAll bool) bool {
	return penalizeAll || e.ValidContent()
}
