package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/aurelh/chronoplan/core/metrics"
	"github.com/aurelh/chronoplan/infra/logger"
)

// InfluxSink writes generation events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordGeneration writes the generation summary as a line protocol point.
func (s *InfluxSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_generation").
		AddTag("user_id", ev.UserID.String()).
		AddTag("outcome", ev.Outcome).
		AddTag("date", ev.Date).
		AddField("schedule_id", ev.ScheduleID.String()).
		AddField("solve_ms", round3(ev.SolveDuration.Seconds()*1000)).
		AddField("tasks_placed", ev.TasksPlaced).
		AddField("tasks_skipped", ev.TasksSkipped).
		AddField("utilization", round3(ev.Summary.UtilizationRatio)).
		AddField("task_coverage", round3(ev.Summary.TaskCoverage)).
		AddField("scheduled_min", ev.Summary.ScheduledMin).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSolve writes one solver run.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solver_run").
		AddTag("date", ev.Date).
		AddTag("optimal", boolTag(ev.Optimal)).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("placed", ev.Placed).
		AddField("skipped", ev.Skipped).
		AddField("excluded", ev.Excluded).
		AddField("objective", ev.Objective).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFallback records a deterministic fallback application.
func (s *InfluxSink) RecordFallback(ev coremetrics.FallbackEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fallback_applied").
		AddTag("user_id", ev.UserID.String()).
		AddTag("date", ev.Date).
		AddField("reasons", strings.Join(ev.Reasons, "; ")).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordStage records a pipeline stage transition.
func (s *InfluxSink) RecordStage(ev coremetrics.StageEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("pipeline_stage").
		AddTag("user_id", ev.UserID.String()).
		AddTag("stage", ev.Stage).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
