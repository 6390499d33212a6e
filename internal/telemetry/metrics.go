package telemetry

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ImporterMeterName is the name used for the importer metrics meter
const ImporterMeterName = "github.com/stacklok/course-metadata-importer/importer"

// ImportMetrics holds the OpenTelemetry instruments for import runs.
// A nil *ImportMetrics is valid and records nothing.
type ImportMetrics struct {
	importDuration  metric.Float64Histogram
	recordsWritten  metric.Int64Counter
	recordsSkipped  metric.Int64Counter
	catalogRequests metric.Int64Counter
}

// NewImportMetrics creates the import instruments on the given provider.
// If provider is nil, it returns nil (no-op metrics).
func NewImportMetrics(provider metric.MeterProvider) (*ImportMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ImporterMeterName)

	importDuration, err := meter.Float64Histogram(
		"course_importer_import_duration_seconds",
		metric.WithDescription("Duration of import runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600, 1800, 3600),
	)
	if err != nil {
		return nil, err
	}

	recordsWritten, err := meter.Int64Counter(
		"course_importer_records_written_total",
		metric.WithDescription("Number of course details records upserted"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	recordsSkipped, err := meter.Int64Counter(
		"course_importer_records_skipped_total",
		metric.WithDescription("Number of course runs skipped during extraction"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	catalogRequests, err := meter.Int64Counter(
		"course_importer_catalog_requests_total",
		metric.WithDescription("Number of HTTP requests sent to the catalog"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &ImportMetrics{
		importDuration:  importDuration,
		recordsWritten:  recordsWritten,
		recordsSkipped:  recordsSkipped,
		catalogRequests: catalogRequests,
	}, nil
}

// RecordImportDuration records how long an import run of the given kind took
func (m *ImportMetrics) RecordImportDuration(ctx context.Context, kind string, duration time.Duration, success bool) {
	if m == nil || m.importDuration == nil {
		return
	}
	m.importDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	))
}

// AddRecordsWritten counts upserted records
func (m *ImportMetrics) AddRecordsWritten(ctx context.Context, kind string, n int) {
	if m == nil || m.recordsWritten == nil || n == 0 {
		return
	}
	m.recordsWritten.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
}

// AddRecordsSkipped counts course runs that produced no record
func (m *ImportMetrics) AddRecordsSkipped(ctx context.Context, kind, reason string, n int) {
	if m == nil || m.recordsSkipped == nil || n == 0 {
		return
	}
	m.recordsSkipped.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("reason", reason),
	))
}

// RecordCatalogRequest counts a single catalog HTTP request. status is 0 when
// no response was received.
func (m *ImportMetrics) RecordCatalogRequest(ctx context.Context, endpoint string, status int) {
	if m == nil || m.catalogRequests == nil {
		return
	}
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	m.catalogRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", statusLabel),
	))
}
