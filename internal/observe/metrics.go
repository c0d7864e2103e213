// Package observe provides application-wide observability primitives for
// schale-mcp: OpenTelemetry metrics, tool-call tracing, and the SDK provider
// setup that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped from the optional /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all schale-mcp metrics.
const meterName = "github.com/schale-tools/schale-mcp"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation. A nil *Metrics is valid: every recording method
// is a no-op on a nil receiver, so components can take metrics optionally.
type Metrics struct {
	// FetchDuration tracks upstream SchaleDB fetch latency, cache misses
	// only. Attributes: endpoint, status (ok|error).
	FetchDuration metric.Float64Histogram

	// CacheLookups counts data-cache lookups. Attributes: cache (data|
	// localization), outcome (hit|miss).
	CacheLookups metric.Int64Counter

	// FetchErrors counts failed upstream fetches. Attribute: endpoint.
	FetchErrors metric.Int64Counter

	// ToolCalls counts MCP tool invocations. Attributes: tool,
	// status (ok|error).
	ToolCalls metric.Int64Counter

	// ToolDuration tracks MCP tool handler latency. Attribute: tool.
	ToolDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// a remote JSON fetch plus in-memory filtering.
var latencyBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.FetchDuration, err = m.Float64Histogram("schale.fetch.duration",
		metric.WithDescription("Latency of upstream SchaleDB fetches (cache misses)."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("schale.cache.lookups",
		metric.WithDescription("Data and localization cache lookups by outcome."),
	); err != nil {
		return nil, err
	}
	if met.FetchErrors, err = m.Int64Counter("schale.fetch.errors",
		metric.WithDescription("Failed upstream SchaleDB fetches."),
	); err != nil {
		return nil, err
	}
	if met.ToolCalls, err = m.Int64Counter("schale.tool.calls",
		metric.WithDescription("MCP tool invocations by tool and status."),
	); err != nil {
		return nil, err
	}
	if met.ToolDuration, err = m.Float64Histogram("schale.tool.duration",
		metric.WithDescription("Latency of MCP tool handlers."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordFetch records one upstream fetch with its outcome and duration in
// seconds.
func (m *Metrics) RecordFetch(ctx context.Context, endpoint string, seconds float64, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		m.FetchErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("endpoint", endpoint)))
	}
	m.FetchDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	))
}

// RecordCacheLookup records one cache lookup against the named cache.
func (m *Metrics) RecordCacheLookup(ctx context.Context, cache string, hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache", cache),
		attribute.String("outcome", outcome),
	))
}

// RecordToolCall records one MCP tool invocation with its duration in
// seconds.
func (m *Metrics) RecordToolCall(ctx context.Context, tool string, seconds float64, isError bool) {
	if m == nil {
		return
	}
	status := "ok"
	if isError {
		status = "error"
	}
	m.ToolCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", status),
	))
	m.ToolDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("tool", tool)))
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *Metrics
)

// DefaultMetrics returns the process-wide [Metrics] instance built from the
// globally registered meter provider. Instruments are created on first use,
// so call this after [InitProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		m, err := NewMetrics(otel.GetMeterProvider())
		if err != nil {
			// Instrument names above are valid; this only trips on a broken
			// provider. A nil instance records nothing.
			m = nil
		}
		defaultMetrics = m
	})
	return defaultMetrics
}
