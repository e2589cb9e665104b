package config

import (
	"fmt"

	"github.com/aurelh/chronoplan/infra/refine"
)

// RefineConfig defines settings for the external refinement service.
// When disabled the deterministic formatter is the only output path.
type RefineConfig struct {
	Enabled    bool   `json:"enabled"`
	URL        string `json:"url"`
	APIKey     string `json:"api_key"`
	TimeoutMS  int    `json:"timeout_ms"`
	MaxRetries int    `json:"max_retries"`
}

// SetDefaults applies the client defaults.
func (c *RefineConfig) SetDefaults() {
	cc := c.ClientConfig()
	cc.SetDefaults()
	c.TimeoutMS = cc.TimeoutMS
	c.MaxRetries = cc.MaxRetries
}

// Validate requires an endpoint when the service is enabled.
func (c RefineConfig) Validate() error {
	if c.Enabled && c.URL == "" {
		return fmt.Errorf("refine.url is required when refinement is enabled")
	}
	return nil
}

// ClientConfig converts to the HTTP client configuration.
func (c RefineConfig) ClientConfig() refine.Config {
	return refine.Config{
		URL:        c.URL,
		APIKey:     c.APIKey,
		TimeoutMS:  c.TimeoutMS,
		MaxRetries: c.MaxRetries,
	}
}
