package engine

import (
	"errors"
	"fmt"
	"time"
)

// TypoPolicy selects the penalty for input that matches no live word.
type TypoPolicy int

const (
	TypoLoseLife    TypoPolicy = iota // Reset combo and lose one life
	TypoDeductScore                   // Reset combo and deduct TypoPenalty points
)

// String returns the policy name used in tuning files.
func (p TypoPolicy) String() string {
	switch p {
	case TypoLoseLife:
		return "life"
	case TypoDeductScore:
		return "score"
	default:
		return fmt.Sprintf("TypoPolicy(%d)", int(p))
	}
}

// UnmarshalText parses "life" or "score".
func (p *TypoPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "life":
		*p = TypoLoseLife
	case "score":
		*p = TypoDeductScore
	default:
		return fmt.Errorf("unknown typo policy %q", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p TypoPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ReactionTier awards Bonus when a word is typed within Within of its spawn.
type ReactionTier struct {
	Within time.Duration `yaml:"within"`
	Bonus  int           `yaml:"bonus"`
}

// Rules are the session-wide scoring and escalation constants.
type Rules struct {
	InitialLife int `yaml:"initial_life"`
	MaxLife     int `yaml:"max_life"`

	WordsPerSpeedUp     int     `yaml:"words_per_speed_up"`
	SpeedRampFactor     float64 `yaml:"speed_ramp_factor"`
	EntrySpeedPerLevel  float64 `yaml:"entry_speed_per_level"`
	ComboStep           int     `yaml:"combo_step"`
	ComboMultiplierBase float64 `yaml:"combo_multiplier_base"`

	FeverThreshold int           `yaml:"fever_threshold"`
	FeverDuration  time.Duration `yaml:"fever_duration"`
	FeverBonus     int           `yaml:"fever_bonus"`

	CorrectMilestone      int `yaml:"correct_milestone"`
	CorrectMilestoneBonus int `yaml:"correct_milestone_bonus"`
	BombPenalty           int `yaml:"bomb_penalty"`

	Typo        TypoPolicy `yaml:"typo_policy"`
	TypoPenalty int        `yaml:"typo_penalty"`

	// Tiers are checked in order; the first match wins.
	ReactionTiers []ReactionTier `yaml:"reaction_tiers"`
}

// DefaultRules returns the built-in rules.
func DefaultRules() Rules {
	return Rules{
		InitialLife:           3,
		MaxLife:               5,
		WordsPerSpeedUp:       5,
		SpeedRampFactor:       0.3,
		EntrySpeedPerLevel:    0.1,
		ComboStep:             10,
		ComboMultiplierBase:   1.2,
		FeverThreshold:        50,
		FeverDuration:         10 * time.Second,
		FeverBonus:            200,
		CorrectMilestone:      10,
		CorrectMilestoneBonus: 100,
		BombPenalty:           100,
		Typo:                  TypoLoseLife,
		TypoPenalty:           20,
		ReactionTiers: []ReactionTier{
			{Within: 2 * time.Second, Bonus: 50},
			{Within: 4 * time.Second, Bonus: 30},
			{Within: 6 * time.Second, Bonus: 15},
		},
	}
}

// Validate reports inconsistent rules.
func (r Rules) Validate() error {
	var errs []error
	if r.InitialLife < 1 || r.InitialLife > r.MaxLife {
		errs = append(errs, fmt.Errorf("initial life %d must be in 1..max life %d", r.InitialLife, r.MaxLife))
	}
	if r.WordsPerSpeedUp < 1 {
		errs = append(errs, errors.New("words per speed up must be at least 1"))
	}
	if r.SpeedRampFactor < 0 {
		errs = append(errs, errors.New("speed ramp factor must not be negative"))
	}
	if r.ComboStep < 1 {
		errs = append(errs, errors.New("combo step must be at least 1"))
	}
	if r.ComboMultiplierBase < 1 {
		errs = append(errs, errors.New("combo multiplier base must be at least 1"))
	}
	if r.FeverThreshold < 1 || r.FeverDuration <= 0 {
		errs = append(errs, errors.New("fever threshold and duration must be positive"))
	}
	if r.CorrectMilestone < 1 {
		errs = append(errs, errors.New("correct milestone must be at least 1"))
	}
	if r.BombPenalty < 0 || r.TypoPenalty < 0 {
		errs = append(errs, errors.New("penalties must not be negative"))
	}
	return errors.Join(errs...)
}

// reactionBonus returns the bonus for a reaction time.
func (r Rules) reactionBonus(elapsed time.Duration) int {
	for _, tier := range r.ReactionTiers {
		if elapsed < tier.Within {
			return tier.Bonus
		}
	}
	return 0
}

// Tuning bundles the difficulty table with the rules.
type Tuning struct {
	Profiles Profiles `yaml:"profiles"`
	Rules    Rules    `yaml:"rules"`
}

// DefaultTuning returns the built-in tuning.
func DefaultTuning() Tuning {
	return Tuning{
		Profiles: DefaultProfiles(),
		Rules:    DefaultRules(),
	}
}

// Validate checks profiles and rules.
func (t Tuning) Validate() error {
	return errors.Join(t.Profiles.Validate(), t.Rules.Validate())
}
