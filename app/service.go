// Package app wires configuration into a running schedule generation
// service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aurelh/chronoplan/config"
	"github.com/aurelh/chronoplan/core/chronotype"
	"github.com/aurelh/chronoplan/core/energy"
	coremetrics "github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/core/model"
	coremonitoring "github.com/aurelh/chronoplan/core/monitoring"
	corerefine "github.com/aurelh/chronoplan/core/refine"
	"github.com/aurelh/chronoplan/core/scheduler"
	"github.com/aurelh/chronoplan/core/sleep"
	"github.com/aurelh/chronoplan/core/solver"
	"github.com/aurelh/chronoplan/infra/history"
	"github.com/aurelh/chronoplan/infra/logger"
	"github.com/aurelh/chronoplan/infra/metrics"
	"github.com/aurelh/chronoplan/infra/monitoring"
	"github.com/aurelh/chronoplan/infra/refine"
	"github.com/aurelh/chronoplan/internal/eventbus"
)

// Service owns the generation pipeline and its supporting infrastructure.
type Service struct {
	Generator *scheduler.Generator
	History   *history.SQLiteStore

	sink        coremetrics.MetricsSink
	bus         *eventbus.Bus
	monitor     coremonitoring.Monitor
	log         logger.Logger
	promEnabled bool
	promAddr    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Pretty)
	logg := logger.New("service")

	monitor, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremonitoring.Init(monitor)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	var store *history.SQLiteStore
	if cfg.History.Enabled {
		store, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("history store: %w", err)
		}
		sink = coremetrics.NewMultiSink(sink, store)
	}

	var refiner corerefine.Service
	if cfg.Refine.Enabled {
		client, err := refine.NewClient(cfg.Refine.ClientConfig(), logger.New("refine"))
		if err != nil {
			return nil, fmt.Errorf("refine client: %w", err)
		}
		refiner = client
		if store != nil {
			refiner = history.NewEnricher(client, store, cfg.History.Limit, logg)
		}
	}

	bus := eventbus.New()
	gen, err := scheduler.NewGenerator(
		chronotype.MEQAnalyzer{},
		sleep.NewWindowCalculator(logger.New("sleep")),
		energy.NewCurveProvider(logger.New("energy")),
		solver.New(cfg.Solver, logger.New("solver")),
		refiner,
		sink,
		bus,
		logger.New("scheduler"),
	)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	return &Service{
		Generator:   gen,
		History:     store,
		sink:        sink,
		bus:         bus,
		monitor:     monitor,
		log:         logg,
		promEnabled: cfg.Prometheus.Enabled,
		promAddr:    cfg.Prometheus.Addr,
	}, nil
}

// Start launches the event collector and, when enabled, the Prometheus
// endpoint. It returns immediately; both stop with the context.
func (s *Service) Start(ctx context.Context) {
	metrics.StartEventCollector(ctx, s.bus, s.sink)
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
}

// Generate runs the pipeline for one day and reports failures to the
// monitor.
func (s *Service) Generate(ctx context.Context, input model.ScheduleInput) model.GeneratedSchedule {
	out := s.Generator.Generate(ctx, input)
	if out.Err != "" {
		coremonitoring.CaptureException(errors.New(out.Err), map[string]string{
			"user_id": input.UserID.String(),
			"date":    input.Date,
		})
	}
	return out
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	s.monitor.Flush(2 * time.Second)
	if s.History != nil {
		return s.History.Close()
	}
	return nil
}
