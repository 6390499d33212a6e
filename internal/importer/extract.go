package importer

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/stacklok/course-metadata-importer/internal/catalog"
	"github.com/stacklok/course-metadata-importer/internal/courserun"
	"github.com/stacklok/course-metadata-importer/internal/store"
)

// SkipReason explains why a course run produced no record
type SkipReason string

const (
	// SkipCourseNotFound means the catalog returned no course for the run
	SkipCourseNotFound SkipReason = "course_not_found"
	// SkipCourseRunNotFound means the course was found but does not list the run
	SkipCourseRunNotFound SkipReason = "course_run_not_found"
)

// Skip is a course run that was dropped during extraction
type Skip struct {
	Key    string
	Reason SkipReason
}

// Accepted date layouts, tried in order. Naive timestamps are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// BestSeat returns the seat whose type ranks highest in priority. Types not in
// priority rank below every known type and are never selected. Ties go to the
// first seat listed. It returns nil when no seat has a known type.
func BestSeat(seats []catalog.Seat, priority []string) *catalog.Seat {
	var best *catalog.Seat
	bestRank := len(priority)
	for i := range seats {
		rank := slices.Index(priority, seats[i].Type)
		if rank < 0 {
			continue
		}
		if rank < bestRank {
			best = &seats[i]
			bestRank = rank
		}
	}
	return best
}

// ParseDate parses a catalog date string. It returns nil for an empty value
// and false when the value is set but matches no known layout.
func ParseDate(value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, true
		}
	}
	return nil, false
}

// courseIndex finds the catalog course a course run belongs to
type courseIndex interface {
	lookup(loc courserun.Locator) (*catalog.Course, bool)
}

// keyIndex matches runs to courses by "ORG+COURSE"
type keyIndex map[string]*catalog.Course

func newKeyIndex(courses []catalog.Course) keyIndex {
	idx := make(keyIndex, len(courses))
	for i := range courses {
		idx[courses[i].Key] = &courses[i]
	}
	return idx
}

func (idx keyIndex) lookup(loc courserun.Locator) (*catalog.Course, bool) {
	c, ok := idx[loc.CourseKey()]
	return c, ok
}

// uuidIndex matches runs to courses through the run -> course UUID mapping
type uuidIndex struct {
	runToCourse map[string]string
	courses     map[string]*catalog.Course
}

func newUUIDIndex(runs []catalog.CourseRun, courses []catalog.Course) *uuidIndex {
	idx := &uuidIndex{
		runToCourse: make(map[string]string, len(runs)),
		courses:     make(map[string]*catalog.Course, len(courses)),
	}
	for _, r := range runs {
		if r.CourseUUID != "" {
			idx.runToCourse[r.Key] = r.CourseUUID
		}
	}
	for i := range courses {
		idx.courses[courses[i].UUID] = &courses[i]
	}
	return idx
}

func (idx *uuidIndex) lookup(loc courserun.Locator) (*catalog.Course, bool) {
	courseUUID, ok := idx.runToCourse[loc.String()]
	if !ok {
		return nil, false
	}
	c, ok := idx.courses[courseUUID]
	return c, ok
}

// extractor turns catalog courses into course details records
type extractor struct {
	logger                 *slog.Logger
	modePriority           []string
	alternativeCourseTypes []string
}

func (e *extractor) isAlternative(courseType string) bool {
	return slices.Contains(e.alternativeCourseTypes, courseType)
}

// extractAll builds one record per locator that has a course in idx, in locator order
func (e *extractor) extractAll(
	ctx context.Context,
	locators []courserun.Locator,
	idx courseIndex,
) ([]store.CourseDetails, []Skip) {
	records := make([]store.CourseDetails, 0, len(locators))
	var skipped []Skip

	for _, loc := range locators {
		key := loc.String()
		course, ok := idx.lookup(loc)
		if !ok {
			e.logger.InfoContext(ctx, "Course not found in catalog, skipping",
				"course_run_key", key,
				"course_key", loc.CourseKey(),
			)
			skipped = append(skipped, Skip{Key: key, Reason: SkipCourseNotFound})
			continue
		}

		record, ok := e.extract(ctx, course, key)
		if !ok {
			skipped = append(skipped, Skip{Key: key, Reason: SkipCourseRunNotFound})
			continue
		}
		records = append(records, record)
	}

	return records, skipped
}

// extract builds the record for runKey from its course. It returns false
// when a standard course does not list the run.
func (e *extractor) extract(ctx context.Context, course *catalog.Course, runKey string) (store.CourseDetails, bool) {
	record := store.CourseDetails{
		ID:            runKey,
		CourseType:    course.CourseType,
		ProductSource: course.ProductSourceSlug(),
	}

	if e.isAlternative(course.CourseType) {
		if md := course.AdditionalMetadata; md != nil {
			record.EnrollBy = e.date(ctx, runKey, "registration_deadline", md.RegistrationDeadline)
			record.StartDate = e.date(ctx, runKey, "start_date", md.StartDate)
			record.EndDate = e.date(ctx, runKey, "end_date", md.EndDate)
		}
		return record, true
	}

	run := course.FindRun(runKey)
	if run == nil {
		e.logger.InfoContext(ctx, "Course run not found in course, skipping",
			"course_run_key", runKey,
			"course_key", course.Key,
		)
		return store.CourseDetails{}, false
	}

	if seat := BestSeat(run.Seats, e.modePriority); seat != nil {
		record.EnrollBy = e.date(ctx, runKey, "upgrade_deadline", seat.UpgradeDeadline)
	} else {
		e.logger.InfoContext(ctx, "No seat available for course run", "course_run_key", runKey)
	}
	record.StartDate = e.date(ctx, runKey, "start", run.Start)
	record.EndDate = e.date(ctx, runKey, "end", run.End)

	return record, true
}

func (e *extractor) date(ctx context.Context, runKey, field, value string) *time.Time {
	t, ok := ParseDate(value)
	if !ok {
		e.logger.WarnContext(ctx, "Ignoring unparseable date",
			"course_run_key", runKey,
			"field", field,
			"value", value,
		)
	}
	return t
}
