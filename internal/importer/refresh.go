package importer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/course-metadata-importer/internal/otel"
	"github.com/stacklok/course-metadata-importer/internal/store"
)

// Refresh rewrites the stored details of every course run the catalog reports
// as updated since the given time. A nil since resumes from the last
// successful refresh. The refresh start time is recorded as the next resume
// point, so updates made while a refresh runs are picked up again.
func (i *Importer) Refresh(ctx context.Context, since *time.Time) (result *Result, retErr error) {
	ctx, span := otel.StartSpan(ctx, i.tracer, "importer.Refresh",
		trace.WithAttributes(otel.AttrImportKind.String(string(store.KindRefresh))),
	)
	defer span.End()

	started := i.opts.Now()
	result = &Result{
		RunID:     uuid.New(),
		Kind:      store.KindRefresh,
		StartedAt: started,
	}
	defer func() {
		i.finish(ctx, span, result, retErr)
	}()

	from, err := i.resumeFrom(ctx, since)
	if err != nil {
		return result, err
	}

	storedIDs, err := i.details.ListIDs(ctx)
	if err != nil {
		return result, newError(StageSelect, err, "failed to list stored course details")
	}
	stored := make(map[string]struct{}, len(storedIDs))
	for _, id := range storedIDs {
		stored[id] = struct{}{}
	}

	cat, err := i.catalogs.Catalog(ctx)
	if err != nil {
		return result, newError(StageCredentials, err, "failed to create catalog client")
	}

	logger := i.logger.With("kind", store.KindRefresh, "import_id", result.RunID)
	logger.InfoContext(ctx, "Starting refresh", "since", from, "stored_course_runs", len(stored))

	for page, err := range cat.UpdatedSince(ctx, from) {
		if err != nil {
			return result, newError(StageFetch, err, "failed to fetch updated courses")
		}
		for c := range page.Results {
			course := &page.Results[c]
			for _, run := range course.CourseRuns {
				if _, ok := stored[run.Key]; !ok {
					continue
				}
				result.Requested++
				record, ok := i.extractor.extract(ctx, course, run.Key)
				if !ok {
					result.Skipped = append(result.Skipped, Skip{Key: run.Key, Reason: SkipCourseRunNotFound})
					continue
				}
				if err := i.details.Upsert(ctx, record); err != nil {
					return result, newError(StageStore, err, "failed to store course details for %s", run.Key)
				}
				result.Written++
			}
		}
	}

	result.ResumeTimestamp = &started
	return result, i.record(ctx, result)
}

func (i *Importer) resumeFrom(ctx context.Context, since *time.Time) (time.Time, error) {
	if since != nil {
		return since.UTC(), nil
	}
	last, err := i.status.LastSuccessfulRefresh(ctx)
	if errors.Is(err, store.ErrNoImportStatus) {
		return time.Time{}, newError(StageSelect, ErrNoRefreshTimestamp, "cannot refresh")
	}
	if err != nil {
		return time.Time{}, newError(StageStore, err, "failed to read last refresh timestamp")
	}
	return last, nil
}
