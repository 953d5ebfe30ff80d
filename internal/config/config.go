package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"literary-flow/internal/game"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Bank struct {
		ID   string `yaml:"id"`
		Path string `yaml:"path"`
		TTL  string `yaml:"ttl"`
	} `yaml:"bank"`
	Game        GameConfig `yaml:"game"`
	Leaderboard struct {
		WebhookURL string `yaml:"webhook_url"`
		Limit      int    `yaml:"limit"`
		Timeout    string `yaml:"timeout"`
		Queue      int    `yaml:"queue"`
	} `yaml:"leaderboard"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// GameConfig is the YAML form of game.Rules. Durations are Go duration strings.
type GameConfig struct {
	SpawnInterval     string  `yaml:"spawn_interval"`
	MatchDuration     string  `yaml:"match_duration"`
	FrameInterval     string  `yaml:"frame_interval"`
	PassingScore      *int    `yaml:"passing_score"`
	MaxLives          int     `yaml:"max_lives"`
	ScoreIncrement    int     `yaml:"score_increment"`
	ScoreCap          int     `yaml:"score_cap"`
	EntrySpeed        float64 `yaml:"entry_speed"`
	SpeedScoreDivisor float64 `yaml:"speed_score_divisor"`
	ExitBoundary      float64 `yaml:"exit_boundary"`
	SpawnXMin         float64 `yaml:"spawn_x_min"`
	SpawnXMax         float64 `yaml:"spawn_x_max"`
	LaneMin           float64 `yaml:"lane_min"`
	LaneMax           float64 `yaml:"lane_max"`
	FiniteDeck        bool    `yaml:"finite_deck"`
	WrongCategory     string  `yaml:"wrong_category"`
	PenalizeAllMisses bool    `yaml:"penalize_all_misses"`
}

// Load reads YAML config from path. A missing file yields an empty config,
// which every consumer fills with defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Rules converts the game section into match rules with defaults applied.
func (c Config) Rules() game.Rules {
	g := c.Game
	return game.Rules{
		SpawnInterval:     TTLDuration(g.SpawnInterval, 0),
		MatchDuration:     TTLDuration(g.MatchDuration, 0),
		FrameInterval:     TTLDuration(g.FrameInterval, 0),
		PassingScore:      passingScore(g.PassingScore),
		MaxLives:          g.MaxLives,
		ScoreIncrement:    g.ScoreIncrement,
		ScoreCap:          g.ScoreCap,
		EntrySpeed:        g.EntrySpeed,
		SpeedScoreDivisor: g.SpeedScoreDivisor,
		ExitBoundary:      g.ExitBoundary,
		SpawnXMin:         g.SpawnXMin,
		SpawnXMax:         g.SpawnXMax,
		LaneMin:           g.LaneMin,
		LaneMax:           g.LaneMax,
		FiniteDeck:        g.FiniteDeck,
		WrongCategory:     game.WrongCategoryPolicy(g.WrongCategory),
		PenalizeAllMisses: g.PenalizeAllMisses,
	}.WithDefaults()
}

// passingScore maps an explicit 0 to game.PassAny; an absent key keeps the default.
func passingScore(v *int) int {
	switch {
	case v == nil:
		return 0
	case *v <= 0:
		return game.PassAny
	default:
		return *v
	}
}

// BankID returns the configured bank or fallback.
func (c Config) BankID(fallback string) string {
	if c.Bank.ID == "" {
		return fallback
	}
	return c.Bank.ID
}

// LeaderboardLimit returns the configured page size, 20 by default.
func (c Config) LeaderboardLimit() int {
	if c.Leaderboard.Limit <= 0 {
		return 20
	}
	return c.Leaderboard.Limit
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
