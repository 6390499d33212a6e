package sqlc

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/course-metadata-importer/database"
)

func ts(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func TestUpsertCourseDetails(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	params := UpsertCourseDetailsParams{
		ID:            "course-v1:edX+DemoX+Demo_Course",
		CourseType:    "verified-audit",
		ProductSource: "edx",
		EnrollBy:      ts(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		StartDate:     ts(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	}

	first, err := queries.UpsertCourseDetails(ctx, params)
	require.NoError(t, err)
	require.Equal(t, params.ID, first.ID)
	require.False(t, first.EndDate.Valid)

	// same payload twice yields the same stored record
	second, err := queries.UpsertCourseDetails(ctx, params)
	require.NoError(t, err)
	require.Equal(t, first.CourseType, second.CourseType)
	require.True(t, first.EnrollBy.Time.Equal(second.EnrollBy.Time))
	require.True(t, first.CreatedAt.Time.Equal(second.CreatedAt.Time))

	// overwrite replaces every field, including clearing dates
	params.CourseType = "executive-education-2u"
	params.ProductSource = ""
	params.EnrollBy = pgtype.Timestamptz{}
	third, err := queries.UpsertCourseDetails(ctx, params)
	require.NoError(t, err)
	require.Equal(t, "executive-education-2u", third.CourseType)
	require.Empty(t, third.ProductSource)
	require.False(t, third.EnrollBy.Valid)

	ids, err := queries.ListCourseDetailsIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{params.ID}, ids)

	deleted, err := queries.DeleteCourseDetails(ctx, params.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = queries.GetCourseDetails(ctx, params.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	deleted, err = queries.DeleteCourseDetails(ctx, params.ID)
	require.NoError(t, err)
	require.Zero(t, deleted)
}

func TestListEnrollableCourseOverviewIDs(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := now.Add(30 * 24 * time.Hour)
	past := now.Add(-30 * 24 * time.Hour)

	overviews := []UpsertCourseOverviewParams{
		{ID: "course-v1:edX+Open+2024", Org: "edX", EndDate: ts(future)},
		{ID: "course-v1:edX+Enroll+2024", Org: "edX", EndDate: ts(future), EnrollmentEnd: ts(future)},
		{ID: "course-v1:edX+Closed+2024", Org: "edX", EndDate: ts(future), EnrollmentEnd: ts(past)},
		{ID: "course-v1:edX+Ended+2023", Org: "edX", EndDate: ts(past)},
		{ID: "course-v1:edX+NoEnd+2024", Org: "edX"},
		{ID: "course-v1:edX+Imported+2024", Org: "edX", EndDate: ts(future)},
	}
	for _, o := range overviews {
		require.NoError(t, queries.UpsertCourseOverview(ctx, o))
	}
	_, err := queries.UpsertCourseDetails(ctx, UpsertCourseDetailsParams{
		ID:         "course-v1:edX+Imported+2024",
		CourseType: "verified-audit",
	})
	require.NoError(t, err)

	all, err := queries.ListCourseOverviewIDs(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(overviews))

	enrollable, err := queries.ListEnrollableCourseOverviewIDs(ctx, ts(now))
	require.NoError(t, err)
	require.Equal(t, []string{"course-v1:edX+Enroll+2024", "course-v1:edX+Open+2024"}, enrollable)
}

func TestServiceUsers(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	_, err := queries.GetServiceUserByUsername(ctx, "catalog_worker")
	require.ErrorIs(t, err, sql.ErrNoRows)

	inserted, err := queries.InsertServiceUser(ctx, InsertServiceUserParams{
		Username: "catalog_worker",
		Email:    "catalog_worker@example.com",
		IsActive: true,
	})
	require.NoError(t, err)

	got, err := queries.GetServiceUserByUsername(ctx, "catalog_worker")
	require.NoError(t, err)
	require.Equal(t, inserted, got)
}

func TestImportStatus(t *testing.T) {
	t.Parallel()

	db, cleanupFunc := database.SetupTestDB(t)
	t.Cleanup(cleanupFunc)
	queries := New(db)
	ctx := context.Background()

	_, err := queries.GetLastResumeTimestamp(ctx, ImportKindRefresh)
	require.ErrorIs(t, err, sql.ErrNoRows)

	base := time.Date(2024, 12, 12, 13, 0, 0, 0, time.UTC)
	for i, kind := range []ImportKind{ImportKindRefresh, ImportKindImport, ImportKindRefresh} {
		start := base.Add(time.Duration(i) * time.Hour)
		params := InsertImportStatusParams{
			ID:             pgtype.UUID{Bytes: uuid.New(), Valid: true},
			Kind:           kind,
			StartedAt:      ts(start),
			FinishedAt:     ts(start.Add(time.Minute)),
			RecordsWritten: 10,
		}
		if kind == ImportKindRefresh {
			params.ResumeTimestamp = ts(start)
		}
		require.NoError(t, queries.InsertImportStatus(ctx, params))
	}

	last, err := queries.GetLastResumeTimestamp(ctx, ImportKindRefresh)
	require.NoError(t, err)
	require.True(t, last.Valid)
	require.True(t, last.Time.Equal(base.Add(2*time.Hour)))
}
