package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/core/solver"
)

type Config struct {
	Logging    LoggingConfig    `json:"logging"`
	Solver     solver.Config    `json:"solver"`
	Refine     RefineConfig     `json:"refine"`
	Metrics    metrics.Config   `json:"metrics"`
	History    HistoryConfig    `json:"history"`
	Prometheus PromServerConfig `json:"prometheus"`
	Sentry     SentryConfig     `json:"sentry"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("CP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "cp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Logging.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Refine.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Prometheus.SetDefaults()
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Refine.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
