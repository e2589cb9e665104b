package config

// PromServerConfig defines the Prometheus scrape endpoint.
type PromServerConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *PromServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":2112"
	}
}
