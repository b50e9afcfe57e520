package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ChoiHyunKong/Ai-Language-Game/internal/engine"
)

// tuningFile is the on-disk shape. Fields left out keep their defaults.
type tuningFile struct {
	Rules    *engine.Rules `yaml:"rules"`
	Profiles []yaml.Node   `yaml:"profiles"`
}

type levelKey struct {
	Level int `yaml:"level"`
}

// LoadTuning reads YAML overrides from path on top of the defaults.
func LoadTuning(path string) (engine.Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return engine.Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTuning applies YAML overrides to the default tuning and validates the result.
//
//	rules:
//	  typo_policy: score
//	  fever_duration: 8s
//	profiles:
//	  - level: 5
//	    max_words: 9
//	    items: {life: 2, bomb: 12, golden: 20}
func ParseTuning(data []byte) (engine.Tuning, error) {
	t := engine.DefaultTuning()
	f := tuningFile{Rules: &t.Rules}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return engine.Tuning{}, fmt.Errorf("parse tuning: %w", err)
	}

	for i := range f.Profiles {
		node := &f.Profiles[i]
		var key levelKey
		if err := node.Decode(&key); err != nil {
			return engine.Tuning{}, fmt.Errorf("profile %d: %w", i, err)
		}
		if key.Level < engine.MinDifficulty || key.Level > engine.MaxDifficulty {
			return engine.Tuning{}, fmt.Errorf("profile %d: level %d out of range", i, key.Level)
		}
		if err := node.Decode(&t.Profiles[key.Level-1]); err != nil {
			return engine.Tuning{}, fmt.Errorf("profile level %d: %w", key.Level, err)
		}
	}

	if err := t.Validate(); err != nil {
		return engine.Tuning{}, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}
