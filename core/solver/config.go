package solver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the solver weights and search budget. The defaults reproduce
// the canonical objective: scheduling a task dominates everything else, then
// priority, energy match and an early-start preference break ties.
type Config struct {
	TimeLimit          time.Duration `json:"time_limit" yaml:"time_limit" koanf:"time_limit"`
	ScheduledBonus     int           `json:"scheduled_bonus" yaml:"scheduled_bonus" koanf:"scheduled_bonus"`
	PriorityWeight     int           `json:"priority_weight" yaml:"priority_weight" koanf:"priority_weight"`
	StartPenaltyWeight int           `json:"start_penalty_weight" yaml:"start_penalty_weight" koanf:"start_penalty_weight"`
	EnergyWeight       int           `json:"energy_weight" yaml:"energy_weight" koanf:"energy_weight"`
}

// SetDefaults fills zero fields with the canonical weights.
func (c *Config) SetDefaults() {
	if c.TimeLimit <= 0 {
		c.TimeLimit = 30 * time.Second
	}
	if c.ScheduledBonus == 0 {
		c.ScheduledBonus = 10000
	}
	if c.PriorityWeight == 0 {
		c.PriorityWeight = 10
	}
	if c.StartPenaltyWeight == 0 {
		c.StartPenaltyWeight = 1
	}
	if c.EnergyWeight == 0 {
		c.EnergyWeight = 50
	}
}

// LoadConfig loads a Config from a JSON or YAML file, keyed by extension.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return DecodeConfig(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, nil
}
