// Package otel provides OpenTelemetry instrumentation utilities for the course metadata importer.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for business context used across the application.
const (
	AttrImportKind   = attribute.Key("import.kind")
	AttrChunkIndex   = attribute.Key("import.chunk.index")
	AttrChunkSize    = attribute.Key("import.chunk.size")
	AttrLookup       = attribute.Key("import.lookup")
	AttrCatalogPath  = attribute.Key("catalog.endpoint")
	AttrResultCount  = attribute.Key("result.count")
	AttrWrittenCount = attribute.Key("result.written")
	AttrSkippedCount = attribute.Key("result.skipped")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns a no-op span.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records an error on a span and sets the span status to error.
// It safely handles nil spans and nil errors.
// The status description stays generic so catalog URLs and connection strings
// only appear in span events.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}
