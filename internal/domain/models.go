package domain

import "time"

// Category is one of the three drop zones a card belongs to.
type Category string

const (
	CategoryContent Category = "content"
	CategoryArt     Category = "art"
	CategoryLesson  Category = "lesson"
)

// Categories lists the zones in display order.
var Categories = []Category{CategoryContent, CategoryArt, CategoryLesson}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryContent, CategoryArt, CategoryLesson:
		return true
	}
	return false
}

// Label is the zone title shown to players.
func (c Category) Label() string {
	switch c {
	case CategoryContent:
		return "NỘI DUNG"
	case CategoryArt:
		return "NGHỆ THUẬT"
	case CategoryLesson:
		return "BÀI HỌC"
	}
	return string(c)
}

// QuestionItem is an immutable card template from the question bank.
// IsCorrect is nil for banks that do not mark content validity.
type QuestionItem struct {
	ID        string   `json:"id" yaml:"id"`
	Text      string   `json:"text" yaml:"text"`
	Category  Category `json:"category" yaml:"category"`
	IsCorrect *bool    `json:"isCorrect,omitempty" yaml:"is_correct,omitempty"`
}

// ValidContent reports whether the card states valid content.
// Items without a correctness flag always count as valid.
func (q QuestionItem) ValidContent() bool {
	return q.IsCorrect == nil || *q.IsCorrect
}

// Bank is a named, validated pool of question items.
type Bank struct {
	ID    string         `json:"id" yaml:"id"`
	Title string         `json:"title" yaml:"title"`
	Items []QuestionItem `json:"items" yaml:"items"`
}

// ActiveEntity is a card in flight. X and Y are percentages of the play field.
type ActiveEntity struct {
	QuestionItem
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Speed      float64 `json:"speed"`
	IsDragging bool    `json:"isDragging"`
}

// Phase is the match state machine position.
type Phase string

const (
	PhaseMenu     Phase = "menu"
	PhasePlaying  Phase = "playing"
	PhaseVictory  Phase = "victory"
	PhaseGameOver Phase = "game_over"
)

// Terminal reports whether the phase ends a match.
func (p Phase) Terminal() bool {
	return p == PhaseVictory || p == PhaseGameOver
}

// Outcome is the resolution of a single drop.
type Outcome string

const (
	OutcomeCorrect       Outcome = "correct"
	OutcomeWrongCategory Outcome = "wrong_category"
	OutcomeWrongContent  Outcome = "wrong_content"
	OutcomeMiss          Outcome = "miss"
)

// Status is the leaderboard label of a result.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
)

// Point is a position in play field percentages.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in play field percentages. Edges are inclusive.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// Zone is a fixed-category drop target.
type Zone struct {
	Category Category `json:"category"`
	Rect     Rect     `json:"rect"`
}

// FeedbackKind distinguishes the popup shown after a drop.
type FeedbackKind string

const (
	FeedbackCorrect FeedbackKind = "correct"
	FeedbackWrong   FeedbackKind = "wrong"
)

// Feedback is a visual cue anchored at the drop point.
type Feedback struct {
	Kind  FeedbackKind `json:"kind"`
	Point Point        `json:"point"`
}

// Sound is the cue passed to the audio hook.
type Sound string

const (
	SoundCorrect Sound = "correct"
	SoundWrong   Sound = "wrong"
)

// Player identifies who is playing a match.
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassName string `json:"className"`
}

// Result is reported to the leaderboard when a match starts and when it ends.
type Result struct {
	MatchID   string    `json:"matchId"`
	BankID    string    `json:"bankId"`
	Player    Player    `json:"player"`
	Score     int       `json:"score"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// LeaderboardEntry is a read-only row of the leaderboard.
type LeaderboardEntry struct {
	Name      string    `json:"name"`
	ClassName string    `json:"className"`
	Score     int       `json:"score"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
}

// EntryFromResult projects a result onto a leaderboard row.
func EntryFromResult(r Result) LeaderboardEntry {
	return LeaderboardEntry{
		Name:      r.Player.Name,
		ClassName: r.Player.ClassName,
		Score:     r.Score,
		Timestamp: r.Timestamp,
		Status:    r.Status,
	}
}
