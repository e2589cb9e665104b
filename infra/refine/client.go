// Package refine implements the HTTP client for the external refinement
// service. Failures are surfaced as errors so the caller can fall back to
// the deterministic formatter.
package refine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/aurelh/chronoplan/core/logger"
	"github.com/aurelh/chronoplan/core/model"
	corerefine "github.com/aurelh/chronoplan/core/refine"
)

// Config holds the refinement endpoint settings.
type Config struct {
	URL        string `json:"url" yaml:"url" koanf:"url"`
	APIKey     string `json:"api_key" yaml:"api_key" koanf:"api_key"`
	TimeoutMS  int    `json:"timeout_ms" yaml:"timeout_ms" koanf:"timeout_ms"`
	MaxRetries int    `json:"max_retries" yaml:"max_retries" koanf:"max_retries"`
}

// SetDefaults fills zero fields with conservative values.
func (c *Config) SetDefaults() {
	if c.TimeoutMS <= 0 {
		c.TimeoutMS = 10000
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
}

// Client talks to the refinement service over HTTP.
type Client struct {
	cfg    Config
	http   *http.Client
	logger logger.Logger
}

// NewClient builds a Client for the configured endpoint.
func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("refine: endpoint URL is required")
	}
	cfg.SetDefaults()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		logger: log,
	}, nil
}

type refineRequest struct {
	Skeleton []model.PlacedTask `json:"skeleton"`
	Context  corerefine.Context `json:"context"`
}

type refineResponse struct {
	Blocks []model.Block `json:"blocks"`
}

// Refine posts the solver skeleton and returns the service's block list.
// Transient failures are retried with exponential backoff; client errors
// other than 429 abort immediately.
func (c *Client) Refine(ctx context.Context, skeleton []model.PlacedTask, rc corerefine.Context) ([]model.Block, error) {
	body, err := json.Marshal(refineRequest{Skeleton: skeleton, Context: rc})
	if err != nil {
		return nil, fmt.Errorf("refine: encode request: %w", err)
	}

	var blocks []model.Block
	attempt := 0
	op := func() error {
		attempt++
		var opErr error
		blocks, opErr = c.post(ctx, body)
		if opErr != nil && c.logger != nil {
			c.logger.Warnf("refinement attempt %d failed: %v", attempt, opErr)
		}
		return opErr
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.cfg.MaxRetries)), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]model.Block, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("refine: build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refine: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("refine: service returned %d: %s", resp.StatusCode, string(msg))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var out refineResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("refine: decode response: %w", err))
	}
	return out.Blocks, nil
}
