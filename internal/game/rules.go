package game

import "time"

// WrongCategoryPolicy decides what happens to a valid card dropped on the wrong zone.
type WrongCategoryPolicy string

const (
	// WrongCategoryRemove penalizes and removes the card.
	WrongCategoryRemove WrongCategoryPolicy = "remove"
	// WrongCategoryReturn penalizes and puts the card back in flight.
	WrongCategoryReturn WrongCategoryPolicy = "return"
)

// PassAny is a PassingScore every score meets.
const PassAny = -1

// Rules is the configuration surface of a match. Zero fields fall back to DefaultRules.
type Rules struct {
	SpawnInterval time.Duration
	MatchDuration time.Duration
	FrameInterval time.Duration

	// PassingScore is the threshold for a timed-out match. Zero means the default;
	// PassAny lets every finished match pass.
	PassingScore   int
	MaxLives       int
	ScoreIncrement int
	// ScoreCap ends the match with a victory when reached. Zero disables the cap.
	ScoreCap int

	EntrySpeed float64
	// SpeedScoreDivisor adds score/divisor to the entry speed. Zero keeps speed constant.
	SpeedScoreDivisor float64
	ExitBoundary      float64
	SpawnXMin         float64
	SpawnXMax         float64
	LaneMin           float64
	LaneMax           float64

	// FiniteDeck stops spawning once every card was served and ends the round
	// when the field is clear. Otherwise the deck is reshuffled indefinitely.
	FiniteDeck        bool
	WrongCategory     WrongCategoryPolicy
	PenalizeAllMisses bool
}

// DefaultRules mirrors the classroom build of the game.
func DefaultRules() Rules {
	return Rules{
		SpawnInterval:  4500 * time.Millisecond,
		MatchDuration:  180 * time.Second,
		FrameInterval:  16 * time.Millisecond,
		PassingScore:   50,
		MaxLives:       5,
		ScoreIncrement: 10,
		EntrySpeed:     0.35,
		ExitBoundary:   110,
		SpawnXMin:      -25,
		SpawnXMax:      -25,
		LaneMin:        15,
		LaneMax:        60,
		WrongCategory:  WrongCategoryRemove,
	}
}

// WithDefaults fills unset fields from DefaultRules.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.SpawnInterval <= 0 {
		r.SpawnInterval = d.SpawnInterval
	}
	if r.MatchDuration <= 0 {
		r.MatchDuration = d.MatchDuration
	}
	if r.FrameInterval <= 0 {
		r.FrameInterval = d.FrameInterval
	}
	if r.PassingScore == 0 {
		r.PassingScore = d.PassingScore
	}
	if r.MaxLives <= 0 {
		r.MaxLives = d.MaxLives
	}
	if r.ScoreIncrement <= 0 {
		r.ScoreIncrement = d.ScoreIncrement
	}
	if r.ScoreCap < 0 {
		r.ScoreCap = 0
	}
	if r.EntrySpeed <= 0 {
		r.EntrySpeed = d.EntrySpeed
	}
	if r.SpeedScoreDivisor < 0 {
		r.SpeedScoreDivisor = 0
	}
	if r.ExitBoundary <= 0 {
		r.ExitBoundary = d.ExitBoundary
	}
	if r.SpawnXMin == 0 && r.SpawnXMax == 0 {
		r.SpawnXMin, r.SpawnXMax = d.SpawnXMin, d.SpawnXMax
	}
	if r.SpawnXMax < r.SpawnXMin {
		r.SpawnXMin, r.SpawnXMax = r.SpawnXMax, r.SpawnXMin
	}
	if r.LaneMin == 0 && r.LaneMax == 0 {
		r.LaneMin, r.LaneMax = d.LaneMin, d.LaneMax
	}
	if r.LaneMax < r.LaneMin {
		r.LaneMin, r.LaneMax = r.LaneMax, r.LaneMin
	}
	if r.WrongCategory != WrongCategoryReturn {
		r.WrongCategory = WrongCategoryRemove
	}
	return r
}

// DurationSeconds is the countdown start value.
func (r Rules) DurationSeconds() int {
	return int(r.MatchDuration / time.Second)
}
