package importer_test

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/course-metadata-importer/internal/catalog"
	"github.com/stacklok/course-metadata-importer/internal/courserun"
	"github.com/stacklok/course-metadata-importer/internal/importer"
	importermocks "github.com/stacklok/course-metadata-importer/internal/importer/mocks"
	"github.com/stacklok/course-metadata-importer/internal/store"
	storemocks "github.com/stacklok/course-metadata-importer/internal/store/mocks"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	runs    *storemocks.MockCourseRunSource
	details *storemocks.MockDetailsStore
	status  *storemocks.MockImportStatusStore
	catalog *importermocks.MockCatalog

	upserted []store.CourseDetails
	recorded []store.ImportRun
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		runs:    storemocks.NewMockCourseRunSource(ctrl),
		details: storemocks.NewMockDetailsStore(ctrl),
		status:  storemocks.NewMockImportStatusStore(ctrl),
		catalog: importermocks.NewMockCatalog(ctrl),
	}
}

func (f *fixture) importer(t *testing.T, opts importer.Options) *importer.Importer {
	t.Helper()
	opts.Now = func() time.Time { return now }
	provider := importer.CatalogProviderFunc(func(context.Context) (importer.Catalog, error) {
		return f.catalog, nil
	})
	imp, err := importer.New(f.runs, f.details, f.status, provider, opts,
		importer.WithLogger(slog.New(slog.DiscardHandler)),
	)
	require.NoError(t, err)
	return imp
}

func (f *fixture) expectUpserts() {
	f.details.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d store.CourseDetails) error {
			f.upserted = append(f.upserted, d)
			return nil
		}).AnyTimes()
}

func (f *fixture) expectRecord() {
	f.status.EXPECT().RecordImport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run store.ImportRun) error {
			f.recorded = append(f.recorded, run)
			return nil
		}).Times(1)
}

func date(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, ok := importer.ParseDate(value)
	require.True(t, ok)
	return parsed
}

func demoCourse() catalog.Course {
	return catalog.Course{
		Key:           "edX+DemoX",
		UUID:          "8f8e5124-1dab-47e6-8fa6-3fbdc0738f0a",
		CourseType:    "verified-audit",
		ProductSource: &catalog.ProductSource{Slug: "edx"},
		CourseRuns: []catalog.CourseRun{{
			Key:   "course-v1:edX+DemoX+Demo_Course",
			Start: "2024-03-01T00:00:00Z",
			End:   "2024-06-01T00:00:00Z",
			Seats: []catalog.Seat{
				{Type: "audit", UpgradeDeadline: "2024-01-01"},
				{Type: "verified", UpgradeDeadline: "2024-02-01"},
			},
		}},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	provider := importer.CatalogProviderFunc(func(context.Context) (importer.Catalog, error) { return f.catalog, nil })

	_, err := importer.New(nil, f.details, f.status, provider, importer.Options{})
	require.Error(t, err)

	_, err = importer.New(f.runs, f.details, f.status, provider, importer.Options{Lookup: "slug"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid importer options")
}

func TestImportCourses_ByUUID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByUUID})
	course := demoCourse()

	locators := []courserun.Locator{
		courserun.MustParse("course-v1:edX+DemoX+Demo_Course"),
		courserun.MustParse("course-v1:edX+Gone+2024"),
	}

	gomock.InOrder(
		f.catalog.EXPECT().
			ResolveCourseRuns(gomock.Any(), []string{"course-v1:edX+DemoX+Demo_Course", "course-v1:edX+Gone+2024"}).
			Return([]catalog.CourseRun{{Key: "course-v1:edX+DemoX+Demo_Course", CourseUUID: course.UUID}}, nil),
		f.catalog.EXPECT().
			FetchCoursesByUUIDs(gomock.Any(), []string{course.UUID}).
			Return([]catalog.Course{course}, nil),
	)
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.ImportCourses(context.Background(), store.KindImport, locators)
	require.NoError(t, err)

	want := []store.CourseDetails{{
		ID:            "course-v1:edX+DemoX+Demo_Course",
		CourseType:    "verified-audit",
		ProductSource: "edx",
		EnrollBy:      date(t, "2024-02-01"),
		StartDate:     date(t, "2024-03-01T00:00:00Z"),
		EndDate:       date(t, "2024-06-01T00:00:00Z"),
	}}
	if diff := cmp.Diff(want, f.upserted); diff != "" {
		t.Errorf("upserted records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, result.Requested)
	assert.Equal(t, 1, result.Written)
	assert.Equal(t, []importer.Skip{{Key: "course-v1:edX+Gone+2024", Reason: importer.SkipCourseNotFound}}, result.Skipped)

	require.Len(t, f.recorded, 1)
	assert.Equal(t, result.RunID, f.recorded[0].ID)
	assert.Equal(t, store.KindImport, f.recorded[0].Kind)
	assert.Equal(t, 1, f.recorded[0].Written)
	assert.Equal(t, 1, f.recorded[0].Skipped)
	assert.Nil(t, f.recorded[0].ResumeTimestamp)
}

func TestImportCourses_ByUUIDNothingResolved(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByUUID})

	f.catalog.EXPECT().ResolveCourseRuns(gomock.Any(), gomock.Any()).Return(nil, nil)
	f.expectRecord()

	result, err := imp.ImportCourses(context.Background(), store.KindImport,
		[]courserun.Locator{courserun.MustParse("course-v1:edX+Gone+1")})
	require.NoError(t, err)
	assert.Zero(t, result.Written)
	assert.Len(t, result.Skipped, 1)
}

func TestImportCourses_ByKeyChunksInOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})

	const total = 120
	locators := make([]courserun.Locator, 0, total)
	for i := range total {
		locators = append(locators, courserun.MustParse(fmt.Sprintf("course-v1:edX+C%03d+1T2024", i)))
	}

	var requested [][]string
	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, keys []string) ([]catalog.Course, error) {
			requested = append(requested, keys)
			courses := make([]catalog.Course, 0, len(keys))
			for _, k := range keys {
				courses = append(courses, catalog.Course{
					Key:        k,
					CourseType: "audit",
					CourseRuns: []catalog.CourseRun{{Key: "course-v1:" + k + "+1T2024"}},
				})
			}
			return courses, nil
		}).Times(3)
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.ImportCourses(context.Background(), store.KindBackfill, locators)
	require.NoError(t, err)

	require.Len(t, requested, 3)
	assert.Len(t, requested[0], 50)
	assert.Len(t, requested[1], 50)
	assert.Len(t, requested[2], 20)
	assert.Equal(t, "edX+C000", requested[0][0])
	assert.Equal(t, "edX+C119", requested[2][19])

	require.Len(t, f.upserted, total)
	for i, d := range f.upserted {
		assert.Equal(t, locators[i].String(), d.ID)
	}
	assert.Equal(t, total, result.Written)
	assert.Empty(t, result.Skipped)
}

func TestImportCourses_ByKeyDedupesCourses(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})
	course := demoCourse()
	course.CourseRuns = append(course.CourseRuns, catalog.CourseRun{Key: "course-v1:edX+DemoX+2T2024"})

	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), []string{"edX+DemoX"}).Return([]catalog.Course{course}, nil)
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.ImportCourses(context.Background(), store.KindImport, []courserun.Locator{
		courserun.MustParse("course-v1:edX+DemoX+Demo_Course"),
		courserun.MustParse("course-v1:edX+DemoX+2T2024"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Written)
}

func TestImportCourses_FetchErrorAborts(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey, ChunkSize: 1})

	boom := errors.New("catalog unavailable")
	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), []string{"edX+DemoX"}).Return([]catalog.Course{demoCourse()}, nil)
	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), []string{"edX+Second"}).Return(nil, boom)
	f.expectUpserts()

	result, err := imp.ImportCourses(context.Background(), store.KindImport, []courserun.Locator{
		courserun.MustParse("course-v1:edX+DemoX+Demo_Course"),
		courserun.MustParse("course-v1:edX+Second+1"),
		courserun.MustParse("course-v1:edX+Third+1"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, importer.StageFetch, importer.StageOf(err))
	assert.Equal(t, 1, result.Written)
	assert.Len(t, f.upserted, 1)
}

func TestImportCourses_StoreError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})

	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), gomock.Any()).Return([]catalog.Course{demoCourse()}, nil)
	f.details.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := imp.ImportCourses(context.Background(), store.KindImport,
		[]courserun.Locator{courserun.MustParse("course-v1:edX+DemoX+Demo_Course")})
	require.Error(t, err)
	assert.Equal(t, importer.StageStore, importer.StageOf(err))
}

func TestImportCourses_CredentialsError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	provider := importer.CatalogProviderFunc(func(context.Context) (importer.Catalog, error) {
		return nil, store.ErrServiceUserNotFound
	})
	imp, err := importer.New(f.runs, f.details, f.status, provider, importer.Options{},
		importer.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)

	_, err = imp.ImportCourses(context.Background(), store.KindImport,
		[]courserun.Locator{courserun.MustParse("course-v1:edX+DemoX+1")})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrServiceUserNotFound)
	assert.Equal(t, importer.StageCredentials, importer.StageOf(err))
}

func TestImportCourses_Empty(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	// No catalog client is built when there is nothing to import.
	provider := importermocks.NewMockCatalogProvider(gomock.NewController(t))
	imp, err := importer.New(f.runs, f.details, f.status, provider, importer.Options{Now: func() time.Time { return now }},
		importer.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	f.expectRecord()

	result, err := imp.ImportCourses(context.Background(), store.KindImport, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Requested)
	require.Len(t, f.recorded, 1)
	assert.Zero(t, f.recorded[0].Written)
}

func TestImportAll_SelectsEnrollable(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})

	f.runs.EXPECT().ListEnrollableCourseRunIDs(gomock.Any(), now).
		Return([]string{"course-v1:edX+DemoX+Demo_Course", "not-a-key"}, nil)
	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), []string{"edX+DemoX"}).Return([]catalog.Course{demoCourse()}, nil)
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.ImportAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Requested)
	assert.Equal(t, 1, result.Written)
	assert.Equal(t, store.KindImport, f.recorded[0].Kind)
}

func TestBackfill_SelectsAll(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})

	f.runs.EXPECT().ListAllCourseRunIDs(gomock.Any()).Return([]string{"course-v1:edX+DemoX+Demo_Course"}, nil)
	f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), gomock.Any()).Return([]catalog.Course{demoCourse()}, nil)
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.Backfill(context.Background())
	require.NoError(t, err)
	assert.Equal(t, store.KindBackfill, result.Kind)
	assert.Equal(t, store.KindBackfill, f.recorded[0].Kind)
}

func TestSelectLocators_Error(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{})

	f.runs.EXPECT().ListAllCourseRunIDs(gomock.Any()).Return(nil, errors.New("db down"))

	_, err := imp.Backfill(context.Background())
	require.Error(t, err)
	assert.Equal(t, importer.StageSelect, importer.StageOf(err))

	_, err = imp.SelectLocators(context.Background(), store.KindRefresh)
	require.Error(t, err)
}

func TestImportSpecific(t *testing.T) {
	t.Parallel()

	t.Run("imports given keys once", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		imp := f.importer(t, importer.Options{Lookup: importer.LookupByKey})

		f.catalog.EXPECT().FetchCoursesByKeys(gomock.Any(), []string{"edX+DemoX"}).Return([]catalog.Course{demoCourse()}, nil)
		f.expectUpserts()
		f.expectRecord()

		result, err := imp.ImportSpecific(context.Background(), []string{
			"course-v1:edX+DemoX+Demo_Course",
			"course-v1:edX+DemoX+Demo_Course",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Requested)
		assert.Equal(t, 1, result.Written)
	})

	t.Run("invalid key fails before fetching", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		imp := f.importer(t, importer.Options{})

		_, err := imp.ImportSpecific(context.Background(), []string{"course-v1:edX+DemoX+1", "garbage"})
		require.Error(t, err)
		assert.ErrorIs(t, err, courserun.ErrInvalidLocator)
		assert.Equal(t, importer.StageSelect, importer.StageOf(err))
	})
}

func pages(ps ...*catalog.CoursePage) iter.Seq2[*catalog.CoursePage, error] {
	return func(yield func(*catalog.CoursePage, error) bool) {
		for _, p := range ps {
			if !yield(p, nil) {
				return
			}
		}
	}
}

func TestRefresh_ResumesFromLastTimestamp(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{})
	last := now.Add(-24 * time.Hour)

	stored := demoCourse()
	exec := catalog.Course{
		Key:                "edX+Exec",
		CourseType:         "executive-education",
		AdditionalMetadata: &catalog.AdditionalMetadata{StartDate: "2024-04-01"},
		CourseRuns: []catalog.CourseRun{
			{Key: "course-v1:edX+Exec+1"},
			{Key: "course-v1:edX+Exec+2"},
		},
	}

	f.status.EXPECT().LastSuccessfulRefresh(gomock.Any()).Return(last, nil)
	f.details.EXPECT().ListIDs(gomock.Any()).
		Return([]string{"course-v1:edX+DemoX+Demo_Course", "course-v1:edX+Exec+2"}, nil)
	f.catalog.EXPECT().UpdatedSince(gomock.Any(), last).Return(pages(
		&catalog.CoursePage{Count: 3, Results: []catalog.Course{stored}},
		&catalog.CoursePage{Count: 3, Results: []catalog.Course{exec, {Key: "edX+Other", CourseRuns: []catalog.CourseRun{{Key: "course-v1:edX+Other+1"}}}}},
	))
	f.expectUpserts()
	f.expectRecord()

	result, err := imp.Refresh(context.Background(), nil)
	require.NoError(t, err)

	ids := make([]string, 0, len(f.upserted))
	for _, d := range f.upserted {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"course-v1:edX+DemoX+Demo_Course", "course-v1:edX+Exec+2"}, ids)
	assert.Equal(t, date(t, "2024-04-01"), f.upserted[1].StartDate)
	assert.Equal(t, 2, result.Written)

	require.Len(t, f.recorded, 1)
	assert.Equal(t, store.KindRefresh, f.recorded[0].Kind)
	require.NotNil(t, f.recorded[0].ResumeTimestamp)
	assert.Equal(t, now, *f.recorded[0].ResumeTimestamp)
}

func TestRefresh_ExplicitSince(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{})
	since := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	f.details.EXPECT().ListIDs(gomock.Any()).Return(nil, nil)
	f.catalog.EXPECT().UpdatedSince(gomock.Any(), since).Return(pages())
	f.expectRecord()

	result, err := imp.Refresh(context.Background(), &since)
	require.NoError(t, err)
	assert.Zero(t, result.Written)
}

func TestRefresh_Errors(t *testing.T) {
	t.Parallel()

	t.Run("no previous refresh", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		imp := f.importer(t, importer.Options{})
		f.status.EXPECT().LastSuccessfulRefresh(gomock.Any()).Return(time.Time{}, store.ErrNoImportStatus)

		_, err := imp.Refresh(context.Background(), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, importer.ErrNoRefreshTimestamp)
	})

	t.Run("page error aborts without recording", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		imp := f.importer(t, importer.Options{})
		since := now.Add(-time.Hour)
		boom := errors.New("502 bad gateway")

		f.details.EXPECT().ListIDs(gomock.Any()).Return([]string{"course-v1:edX+DemoX+Demo_Course"}, nil)
		f.catalog.EXPECT().UpdatedSince(gomock.Any(), since).Return(
			iter.Seq2[*catalog.CoursePage, error](func(yield func(*catalog.CoursePage, error) bool) {
				if !yield(&catalog.CoursePage{Results: []catalog.Course{demoCourse()}}, nil) {
					return
				}
				yield(nil, boom)
			}),
		)
		f.expectUpserts()

		result, err := imp.Refresh(context.Background(), &since)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, importer.StageFetch, importer.StageOf(err))
		assert.Equal(t, 1, result.Written)
		assert.Nil(t, result.ResumeTimestamp)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	imp := f.importer(t, importer.Options{})

	f.details.EXPECT().Delete(gomock.Any(), "course-v1:edX+DemoX+1").Return(true, nil)
	f.details.EXPECT().Delete(gomock.Any(), "course-v1:edX+DemoX+2").Return(false, nil)

	n, err := imp.Delete(context.Background(), []string{
		"course-v1:edX+DemoX+1",
		"course-v1:edX+DemoX+2",
		"course-v1:edX+DemoX+1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = imp.Delete(context.Background(), []string{"bogus"})
	require.Error(t, err)
	assert.Equal(t, importer.StageSelect, importer.StageOf(err))
}

func TestDelete_InvalidKeyDeletesNothing(t *testing.T) {
	t.Parallel()

	// No Delete expectation: gomock fails the test on any store call.
	f := newFixture(t)
	imp := f.importer(t, importer.Options{})

	n, err := imp.Delete(context.Background(), []string{"course-v1:edX+DemoX+1", "bogus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, courserun.ErrInvalidLocator)
	assert.Equal(t, importer.StageSelect, importer.StageOf(err))
	assert.Zero(t, n)
}
