package config

import "fmt"

// LoggingConfig defines the service log level and output format.
type LoggingConfig struct {
	// Level selects the minimum level: "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// Pretty enables the human-readable console writer.
	Pretty bool `json:"pretty"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level against the known set.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
}
