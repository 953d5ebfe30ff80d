package game

import (
	"testing"

	"literary-flow/internal/domain"
)

func TestResolve(t *testing.T) {
	art := domain.QuestionItem{Category: domain.CategoryArt}
	artValid := domain.QuestionItem{Category: domain.CategoryArt, IsCorrect: boolPtr(true)}
	artInvalid := domain.QuestionItem{Category: domain.CategoryArt, IsCorrect: boolPtr(false)}

	cases := []struct {
		name  string
		item  domain.QuestionItem
		zone  domain.Category
		found bool
		want  domain.Outcome
	}{
		{"no zone", art, "", false, domain.OutcomeMiss},
		{"no zone invalid", artInvalid, "", false, domain.OutcomeMiss},
		{"match unflagged", art, domain.CategoryArt, true, domain.OutcomeCorrect},
		{"match valid", artValid, domain.CategoryArt, true, domain.OutcomeCorrect},
		{"mismatch", art, domain.CategoryLesson, true, domain.OutcomeWrongCategory},
		{"invalid on matching zone", artInvalid, domain.CategoryArt, true, domain.OutcomeWrongContent},
		{"invalid on other zone", artInvalid, domain.CategoryContent, true, domain.OutcomeWrongContent},
	}
	for _, tc := range cases {
		if got := Resolve(tc.item, tc.zone, tc.found); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestDefaultLayoutZoneAt(t *testing.T) {
	layout := DefaultLayout()
	for _, c := range domain.Categories {
		got, ok := layout.ZoneAt(zonePoint(c))
		if !ok || got != c {
			t.Fatalf("expected %s at its centre, got %s (%v)", c, got, ok)
		}
	}
	if _, ok := layout.ZoneAt(domain.Point{X: 50, Y: 30}); ok {
		t.Fatalf("expected no zone in the flight area")
	}
	if _, ok := layout.ZoneAt(domain.Point{X: 33.5, Y: 85}); ok {
		t.Fatalf("expected no zone in the gutter between zones")
	}
}
