package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/object"
)

// Difficulty bounds.
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ItemWeights are percent chances for each special item kind.
// Whatever remains up to 100 is the chance of a normal word.
type ItemWeights struct {
	Life   int `yaml:"life"`
	Bomb   int `yaml:"bomb"`
	Golden int `yaml:"golden"`
}

// Total returns the combined special-item chance.
func (w ItemWeights) Total() int {
	return w.Life + w.Bomb + w.Golden
}

// Profile is the tuning for one difficulty level.
type Profile struct {
	Level         int           `yaml:"level"`
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	BaseFallSpeed float64       `yaml:"base_fall_speed"`
	MaxWords      int           `yaml:"max_words"`
	Items         ItemWeights   `yaml:"items"`
	ScoreMin      int           `yaml:"score_min"`
	ScoreMax      int           `yaml:"score_max"`
}

var (
	maxWordsTable = [MaxDifficulty]int{3, 4, 5, 6, 7}
	itemTable     = [MaxDifficulty]ItemWeights{
		{Life: 8, Bomb: 2, Golden: 10},
		{Life: 6, Bomb: 4, Golden: 12},
		{Life: 5, Bomb: 6, Golden: 15},
		{Life: 4, Bomb: 8, Golden: 15},
		{Life: 3, Bomb: 10, Golden: 18},
	}
	scoreTable = [MaxDifficulty][2]int{
		{10, 20},
		{20, 35},
		{30, 50},
		{45, 70},
		{60, 100},
	}
)

// DefaultProfile returns the built-in profile for a level.
// Out-of-range levels are clamped.
func DefaultProfile(level int) Profile {
	level = ClampDifficulty(level)
	i := level - 1
	return Profile{
		Level:         level,
		SpawnInterval: time.Duration(3000-level*300) * time.Millisecond,
		BaseFallSpeed: 0.3 + float64(level)*0.15,
		MaxWords:      maxWordsTable[i],
		Items:         itemTable[i],
		ScoreMin:      scoreTable[i][0],
		ScoreMax:      scoreTable[i][1],
	}
}

// ClampDifficulty forces a level into MinDifficulty..MaxDifficulty.
func ClampDifficulty(level int) int {
	return min(max(level, MinDifficulty), MaxDifficulty)
}

// Validate reports the first inconsistency in the profile.
func (p Profile) Validate() error {
	var errs []error
	if p.Items.Life < 0 || p.Items.Bomb < 0 || p.Items.Golden < 0 {
		errs = append(errs, errors.New("item weights must not be negative"))
	}
	if total := p.Items.Total(); total > 100 {
		errs = append(errs, fmt.Errorf("item weights sum to %d, above 100", total))
	}
	if p.ScoreMin < 0 || p.ScoreMin > p.ScoreMax {
		errs = append(errs, fmt.Errorf("score range [%d,%d] is invalid", p.ScoreMin, p.ScoreMax))
	}
	if p.MaxWords < 1 {
		errs = append(errs, errors.New("max words must be at least 1"))
	}
	if p.SpawnInterval <= 0 {
		errs = append(errs, errors.New("spawn interval must be positive"))
	}
	if p.BaseFallSpeed <= 0 {
		errs = append(errs, errors.New("base fall speed must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("level %d: %w", p.Level, err)
	}
	return nil
}

// RollItem picks an item kind using the profile's weights.
func (p Profile) RollItem(r Rand) object.ItemKind {
	roll := r.IntN(100)
	switch {
	case roll < p.Items.Life:
		return object.ItemLife
	case roll < p.Items.Life+p.Items.Bomb:
		return object.ItemBomb
	case roll < p.Items.Total():
		return object.ItemGolden
	default:
		return object.ItemNormal
	}
}

// DrawScore draws a base score uniformly from [ScoreMin, ScoreMax].
func (p Profile) DrawScore(r Rand) int {
	return p.ScoreMin + r.IntN(p.ScoreMax-p.ScoreMin+1)
}

// Profiles is the full difficulty table.
type Profiles [MaxDifficulty]Profile

// DefaultProfiles returns the built-in table.
func DefaultProfiles() Profiles {
	var ps Profiles
	for i := range ps {
		ps[i] = DefaultProfile(i + 1)
	}
	return ps
}

// For returns the profile for a level, clamping out-of-range levels.
func (ps Profiles) For(level int) Profile {
	return ps[ClampDifficulty(level)-1]
}

// Validate checks every level.
func (ps Profiles) Validate() error {
	var errs []error
	for i, p := range ps {
		if p.Level != i+1 {
			errs = append(errs, fmt.Errorf("profile %d is labelled level %d", i+1, p.Level))
			continue
		}
		errs = append(errs, p.Validate())
	}
	return errors.Join(errs...)
}
