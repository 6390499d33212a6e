package store

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/stacklok/course-metadata-importer/internal/db/pgtypes"
	"github.com/stacklok/course-metadata-importer/internal/db/sqlc"
)

// DBStore implements every store interface on top of PostgreSQL
type DBStore struct {
	queries *sqlc.Queries
}

var (
	_ CourseRunSource   = (*DBStore)(nil)
	_ DetailsStore      = (*DBStore)(nil)
	_ ImportStatusStore = (*DBStore)(nil)
	_ UserDirectory     = (*DBStore)(nil)
)

// NewDBStore creates a store over a pool, a single connection or a transaction
func NewDBStore(db sqlc.DBTX) *DBStore {
	return &DBStore{queries: sqlc.New(db)}
}

// ListAllCourseRunIDs implements CourseRunSource
func (s *DBStore) ListAllCourseRunIDs(ctx context.Context) ([]string, error) {
	ids, err := s.queries.ListCourseOverviewIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course runs: %w", err)
	}
	return ids, nil
}

// ListEnrollableCourseRunIDs implements CourseRunSource
func (s *DBStore) ListEnrollableCourseRunIDs(ctx context.Context, now time.Time) ([]string, error) {
	ids, err := s.queries.ListEnrollableCourseOverviewIDs(ctx, pgtypes.Timestamptz(&now))
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollable course runs: %w", err)
	}
	return ids, nil
}

// ListIDs implements DetailsStore
func (s *DBStore) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.queries.ListCourseDetailsIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list course details: %w", err)
	}
	return ids, nil
}

// Upsert implements DetailsStore
func (s *DBStore) Upsert(ctx context.Context, details CourseDetails) error {
	if details.ID == "" {
		return fmt.Errorf("course details id is required")
	}
	_, err := s.queries.UpsertCourseDetails(ctx, sqlc.UpsertCourseDetailsParams{
		ID:            details.ID,
		CourseType:    details.CourseType,
		ProductSource: details.ProductSource,
		EnrollBy:      pgtypes.Timestamptz(details.EnrollBy),
		StartDate:     pgtypes.Timestamptz(details.StartDate),
		EndDate:       pgtypes.Timestamptz(details.EndDate),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert course details %s: %w", details.ID, err)
	}
	return nil
}

// Delete implements DetailsStore
func (s *DBStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.queries.DeleteCourseDetails(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete course details %s: %w", id, err)
	}
	return n > 0, nil
}

// LastSuccessfulRefresh implements ImportStatusStore
func (s *DBStore) LastSuccessfulRefresh(ctx context.Context) (time.Time, error) {
	ts, err := s.queries.GetLastResumeTimestamp(ctx, sqlc.ImportKindRefresh)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrNoImportStatus
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last refresh: %w", err)
	}
	t := pgtypes.TimePtr(ts)
	if t == nil {
		return time.Time{}, ErrNoImportStatus
	}
	return *t, nil
}

// RecordImport implements ImportStatusStore
func (s *DBStore) RecordImport(ctx context.Context, run ImportRun) error {
	err := s.queries.InsertImportStatus(ctx, sqlc.InsertImportStatusParams{
		ID:              pgtypes.UUID(run.ID),
		Kind:            sqlc.ImportKind(run.Kind),
		StartedAt:       pgtypes.Timestamptz(&run.StartedAt),
		FinishedAt:      pgtypes.Timestamptz(&run.FinishedAt),
		RecordsWritten:  clampInt32(run.Written),
		RecordsSkipped:  clampInt32(run.Skipped),
		ResumeTimestamp: pgtypes.Timestamptz(run.ResumeTimestamp),
	})
	if err != nil {
		return fmt.Errorf("failed to record %s import: %w", run.Kind, err)
	}
	return nil
}

// GetUserByUsername implements UserDirectory
func (s *DBStore) GetUserByUsername(ctx context.Context, username string) (*ServiceUser, error) {
	row, err := s.queries.GetServiceUserByUsername(ctx, username)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrServiceUserNotFound, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	return &ServiceUser{
		ID:       row.ID,
		Username: row.Username,
		Email:    row.Email,
		IsActive: row.IsActive,
	}, nil
}

func clampInt32(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}
