// Package metrics defines interfaces and records for observing schedule
// generation. Sinks like PromSink and InfluxSink record generation outcomes,
// solver runs and fallback applications and can be combined with
// NewMultiSink. The factory helpers return a MultiSink automatically when
// multiple sinks are configured.
package metrics
