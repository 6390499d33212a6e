// Package store defines the persistence interfaces used by the importer and
// their PostgreSQL implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrServiceUserNotFound is returned when the configured service user does not exist or is inactive
	ErrServiceUserNotFound = errors.New("service user not found")

	// ErrNoImportStatus is returned when no matching import has been recorded yet
	ErrNoImportStatus = errors.New("no import status recorded")
)

// ImportKind names the entry point that produced an import run
type ImportKind string

const (
	// KindImport imports enrollable course runs that have no details yet
	KindImport ImportKind = "import"
	// KindBackfill imports every known course run
	KindBackfill ImportKind = "backfill"
	// KindRefresh re-imports course runs updated in the catalog since the last refresh
	KindRefresh ImportKind = "refresh"
)

// CourseDetails is the metadata stored per course run
type CourseDetails struct {
	// ID is the course-run key
	ID            string
	CourseType    string
	ProductSource string
	EnrollBy      *time.Time
	StartDate     *time.Time
	EndDate       *time.Time
}

// ServiceUser is the local identity the importer authenticates as
type ServiceUser struct {
	ID       int64
	Username string
	Email    string
	IsActive bool
}

// ImportRun summarises one completed import
type ImportRun struct {
	ID         uuid.UUID
	Kind       ImportKind
	StartedAt  time.Time
	FinishedAt time.Time
	Written    int
	Skipped    int
	// ResumeTimestamp is where the next refresh starts; only set for refresh runs
	ResumeTimestamp *time.Time
}

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks -source=store.go CourseRunSource,DetailsStore,ImportStatusStore,UserDirectory

// CourseRunSource lists the course runs known locally
type CourseRunSource interface {
	// ListAllCourseRunIDs returns every known course-run key
	ListAllCourseRunIDs(ctx context.Context) ([]string, error)
	// ListEnrollableCourseRunIDs returns keys of runs that have not ended, whose
	// enrollment is still open at now, and that have no stored details yet
	ListEnrollableCourseRunIDs(ctx context.Context, now time.Time) ([]string, error)
}

// DetailsStore persists course details keyed by course-run key
type DetailsStore interface {
	// ListIDs returns the keys of every stored record
	ListIDs(ctx context.Context) ([]string, error)
	// Upsert inserts the record or overwrites every field of an existing one
	Upsert(ctx context.Context, details CourseDetails) error
	// Delete removes the record and reports whether one existed
	Delete(ctx context.Context, id string) (bool, error)
}

// ImportStatusStore records completed import runs
type ImportStatusStore interface {
	// LastSuccessfulRefresh returns the resume timestamp of the latest refresh,
	// or ErrNoImportStatus if none was recorded
	LastSuccessfulRefresh(ctx context.Context) (time.Time, error)
	// RecordImport stores a completed run
	RecordImport(ctx context.Context, run ImportRun) error
}

// UserDirectory resolves local users
type UserDirectory interface {
	// GetUserByUsername returns ErrServiceUserNotFound when there is no such user
	GetUserByUsername(ctx context.Context, username string) (*ServiceUser, error)
}
