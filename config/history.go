package config

// HistoryConfig defines the SQLite store used for per-user generation
// history.
type HistoryConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
	// Limit caps the number of past days handed to the refinement service.
	Limit int `json:"limit"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "chronoplan.db"
	}
	if c.Limit <= 0 {
		c.Limit = 7
	}
}
