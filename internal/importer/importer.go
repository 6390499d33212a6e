package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/course-metadata-importer/internal/catalog"
	"github.com/stacklok/course-metadata-importer/internal/courserun"
	"github.com/stacklok/course-metadata-importer/internal/otel"
	"github.com/stacklok/course-metadata-importer/internal/store"
	"github.com/stacklok/course-metadata-importer/internal/telemetry"
)

// TracerName is the instrumentation name of the importer spans
const TracerName = "github.com/stacklok/course-metadata-importer/importer"

// Result summarises a finished import
type Result struct {
	RunID      uuid.UUID
	Kind       store.ImportKind
	StartedAt  time.Time
	FinishedAt time.Time
	// Requested is the number of course runs selected for the import
	Requested int
	Written   int
	Skipped   []Skip
	// ResumeTimestamp is only set by Refresh
	ResumeTimestamp *time.Time
}

// Importer pulls course details from the catalog into the local store
type Importer struct {
	runs     store.CourseRunSource
	details  store.DetailsStore
	status   store.ImportStatusStore
	catalogs CatalogProvider

	opts      Options
	extractor *extractor
	logger    *slog.Logger
	metrics   *telemetry.ImportMetrics
	tracer    trace.Tracer
}

// Option configures an Importer
type Option func(*Importer)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMetrics enables import metrics
func WithMetrics(m *telemetry.ImportMetrics) Option {
	return func(i *Importer) {
		i.metrics = m
	}
}

// WithTracer enables import spans
func WithTracer(tracer trace.Tracer) Option {
	return func(i *Importer) {
		i.tracer = tracer
	}
}

// New creates an Importer. Zero fields in opts are filled from DefaultOptions.
func New(
	runs store.CourseRunSource,
	details store.DetailsStore,
	status store.ImportStatusStore,
	catalogs CatalogProvider,
	opts Options,
	options ...Option,
) (*Importer, error) {
	if runs == nil || details == nil || status == nil || catalogs == nil {
		return nil, errors.New("importer requires a course run source, details store, status store and catalog provider")
	}

	resolved, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("invalid importer options: %w", err)
	}

	i := &Importer{
		runs:     runs,
		details:  details,
		status:   status,
		catalogs: catalogs,
		opts:     resolved,
		logger:   slog.Default(),
	}
	for _, o := range options {
		o(i)
	}
	i.extractor = &extractor{
		logger:                 i.logger,
		modePriority:           resolved.ModePriority,
		alternativeCourseTypes: resolved.AlternativeCourseTypes,
	}

	return i, nil
}

// ImportAll imports every enrollable course run that has no details yet
func (i *Importer) ImportAll(ctx context.Context) (*Result, error) {
	locators, err := i.SelectLocators(ctx, store.KindImport)
	if err != nil {
		return nil, err
	}
	return i.ImportCourses(ctx, store.KindImport, locators)
}

// Backfill imports every known course run
func (i *Importer) Backfill(ctx context.Context) (*Result, error) {
	locators, err := i.SelectLocators(ctx, store.KindBackfill)
	if err != nil {
		return nil, err
	}
	return i.ImportCourses(ctx, store.KindBackfill, locators)
}

// ImportSpecific imports the given course-run keys. Duplicates are dropped and
// an unparseable key fails the whole call before anything is fetched.
func (i *Importer) ImportSpecific(ctx context.Context, keys []string) (*Result, error) {
	locators, err := courserun.ParseAll(dedupe(keys))
	if err != nil {
		return nil, newError(StageSelect, err, "failed to parse course run keys")
	}
	return i.ImportCourses(ctx, store.KindImport, locators)
}

// SelectLocators lists the course runs an import of the given kind covers.
// Stored keys that cannot be parsed are logged and left out.
func (i *Importer) SelectLocators(ctx context.Context, kind store.ImportKind) ([]courserun.Locator, error) {
	var (
		keys []string
		err  error
	)
	switch kind {
	case store.KindImport:
		keys, err = i.runs.ListEnrollableCourseRunIDs(ctx, i.opts.Now())
	case store.KindBackfill:
		keys, err = i.runs.ListAllCourseRunIDs(ctx)
	default:
		return nil, newError(StageSelect, fmt.Errorf("unsupported kind %q", kind), "failed to select course runs")
	}
	if err != nil {
		return nil, newError(StageSelect, err, "failed to list course runs")
	}

	locators := make([]courserun.Locator, 0, len(keys))
	for _, key := range keys {
		loc, err := courserun.Parse(key)
		if err != nil {
			i.logger.WarnContext(ctx, "Ignoring invalid course run key", "course_run_key", key, "error", err)
			continue
		}
		locators = append(locators, loc)
	}

	i.logger.InfoContext(ctx, "Selected course runs", "kind", kind, "count", len(locators))
	return locators, nil
}

// ImportCourses fetches and stores details for locators in chunks. The first
// failing chunk aborts the import; records from earlier chunks stay written.
func (i *Importer) ImportCourses(ctx context.Context, kind store.ImportKind, locators []courserun.Locator) (result *Result, retErr error) {
	ctx, span := otel.StartSpan(ctx, i.tracer, "importer.ImportCourses",
		trace.WithAttributes(
			otel.AttrImportKind.String(string(kind)),
			otel.AttrLookup.String(string(i.opts.Lookup)),
			otel.AttrResultCount.Int(len(locators)),
		),
	)
	defer span.End()

	result = &Result{
		RunID:     uuid.New(),
		Kind:      kind,
		StartedAt: i.opts.Now(),
		Requested: len(locators),
	}
	defer func() {
		i.finish(ctx, span, result, retErr)
	}()

	logger := i.logger.With("kind", kind, "import_id", result.RunID)
	if len(locators) == 0 {
		logger.InfoContext(ctx, "No course runs to import")
		return result, i.record(ctx, result)
	}

	cat, err := i.catalogs.Catalog(ctx)
	if err != nil {
		return result, newError(StageCredentials, err, "failed to create catalog client")
	}

	chunks := Chunk(locators, i.opts.ChunkSize)
	logger.InfoContext(ctx, "Starting import",
		"course_runs", len(locators),
		"chunks", len(chunks),
		"chunk_size", i.opts.ChunkSize,
		"lookup", i.opts.Lookup,
	)

	for idx, chunk := range chunks {
		written, skipped, err := i.importChunk(ctx, cat, idx, chunk)
		result.Written += written
		result.Skipped = append(result.Skipped, skipped...)
		if err != nil {
			logger.ErrorContext(ctx, "Import aborted",
				"chunk_index", idx,
				"chunks_remaining", len(chunks)-idx-1,
				"error", err,
			)
			return result, err
		}
	}

	return result, i.record(ctx, result)
}

func (i *Importer) importChunk(ctx context.Context, cat Catalog, idx int, chunk []courserun.Locator) (int, []Skip, error) {
	ctx, span := otel.StartSpan(ctx, i.tracer, "importer.chunk",
		trace.WithAttributes(
			otel.AttrChunkIndex.Int(idx),
			otel.AttrChunkSize.Int(len(chunk)),
		),
	)
	defer span.End()

	index, err := i.fetch(ctx, cat, chunk)
	if err != nil {
		otel.RecordError(span, err)
		return 0, nil, err
	}

	records, skipped := i.extractor.extractAll(ctx, chunk, index)

	written := 0
	for _, record := range records {
		if err := i.details.Upsert(ctx, record); err != nil {
			otel.RecordError(span, err)
			return written, skipped, newError(StageStore, err, "failed to store course details for %s", record.ID)
		}
		written++
	}

	span.SetAttributes(
		otel.AttrWrittenCount.Int(written),
		otel.AttrSkippedCount.Int(len(skipped)),
	)
	i.logger.DebugContext(ctx, "Chunk imported",
		"chunk_index", idx,
		"chunk_size", len(chunk),
		"written", written,
		"skipped", len(skipped),
	)
	return written, skipped, nil
}

// fetch requests the courses of one chunk and indexes them for extraction
func (i *Importer) fetch(ctx context.Context, cat Catalog, chunk []courserun.Locator) (courseIndex, error) {
	if i.opts.Lookup == LookupByKey {
		courseKeys := make([]string, 0, len(chunk))
		for _, loc := range chunk {
			courseKeys = append(courseKeys, loc.CourseKey())
		}
		courses, err := cat.FetchCoursesByKeys(ctx, dedupe(courseKeys))
		if err != nil {
			return nil, newError(StageFetch, err, "failed to fetch courses by key")
		}
		return newKeyIndex(courses), nil
	}

	runs, err := cat.ResolveCourseRuns(ctx, courserun.Keys(chunk))
	if err != nil {
		return nil, newError(StageFetch, err, "failed to resolve course runs")
	}
	courseUUIDs := make([]string, 0, len(runs))
	for _, r := range runs {
		if r.CourseUUID != "" {
			courseUUIDs = append(courseUUIDs, r.CourseUUID)
		}
	}
	courseUUIDs = dedupe(courseUUIDs)

	var courses []catalog.Course
	if len(courseUUIDs) > 0 {
		courses, err = cat.FetchCoursesByUUIDs(ctx, courseUUIDs)
		if err != nil {
			return nil, newError(StageFetch, err, "failed to fetch courses by uuid")
		}
	}
	return newUUIDIndex(runs, courses), nil
}

// Delete removes the stored details of the given course-run keys and returns
// how many existed. Nothing is deleted unless every key parses.
func (i *Importer) Delete(ctx context.Context, keys []string) (int, error) {
	locators, err := courserun.ParseAll(dedupe(keys))
	if err != nil {
		return 0, newError(StageSelect, err, "refusing to delete")
	}

	deleted := 0
	for _, key := range courserun.Keys(locators) {
		existed, err := i.details.Delete(ctx, key)
		if err != nil {
			return deleted, newError(StageStore, err, "failed to delete course details for %s", key)
		}
		if !existed {
			i.logger.DebugContext(ctx, "No course details stored", "course_run_key", key)
			continue
		}
		deleted++
		i.logger.InfoContext(ctx, "Deleted course details", "course_run_key", key)
	}
	return deleted, nil
}

// record stores the import run once it completed
func (i *Importer) record(ctx context.Context, result *Result) error {
	result.FinishedAt = i.opts.Now()
	err := i.status.RecordImport(ctx, store.ImportRun{
		ID:              result.RunID,
		Kind:            result.Kind,
		StartedAt:       result.StartedAt,
		FinishedAt:      result.FinishedAt,
		Written:         result.Written,
		Skipped:         len(result.Skipped),
		ResumeTimestamp: result.ResumeTimestamp,
	})
	if err != nil {
		return newError(StageStore, err, "failed to record import status")
	}
	return nil
}

// finish logs the outcome and reports it to metrics and the run span
func (i *Importer) finish(ctx context.Context, span trace.Span, result *Result, err error) {
	if result.FinishedAt.IsZero() {
		result.FinishedAt = i.opts.Now()
	}
	duration := result.FinishedAt.Sub(result.StartedAt)
	kind := string(result.Kind)

	i.metrics.RecordImportDuration(ctx, kind, duration, err == nil)
	i.metrics.AddRecordsWritten(ctx, kind, result.Written)
	for reason, n := range countSkips(result.Skipped) {
		i.metrics.AddRecordsSkipped(ctx, kind, string(reason), n)
	}

	span.SetAttributes(
		otel.AttrWrittenCount.Int(result.Written),
		otel.AttrSkippedCount.Int(len(result.Skipped)),
	)
	if err != nil {
		otel.RecordError(span, err)
		return
	}

	i.logger.InfoContext(ctx, "Import completed",
		"kind", kind,
		"import_id", result.RunID,
		"requested", result.Requested,
		"written", result.Written,
		"skipped", len(result.Skipped),
		"duration", duration,
	)
}

func countSkips(skipped []Skip) map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, s := range skipped {
		counts[s.Reason]++
	}
	return counts
}

// dedupe drops repeated values, keeping the first occurrence
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
