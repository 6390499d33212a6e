package importer

import (
	"context"
	"iter"
	"time"

	"github.com/stacklok/course-metadata-importer/internal/catalog"
)

//go:generate mockgen -destination=mocks/mock_catalog.go -package=mocks -source=catalog.go Catalog,CatalogProvider

// Catalog is the part of the catalog API the importer uses
type Catalog interface {
	FetchCoursesByKeys(ctx context.Context, courseKeys []string) ([]catalog.Course, error)
	ResolveCourseRuns(ctx context.Context, runKeys []string) ([]catalog.CourseRun, error)
	FetchCoursesByUUIDs(ctx context.Context, uuids []string) ([]catalog.Course, error)
	UpdatedSince(ctx context.Context, since time.Time) iter.Seq2[*catalog.CoursePage, error]
}

// CatalogProvider builds an authenticated Catalog. It is called once per import.
type CatalogProvider interface {
	Catalog(ctx context.Context) (Catalog, error)
}

// CatalogProviderFunc adapts a function to CatalogProvider
type CatalogProviderFunc func(ctx context.Context) (Catalog, error)

// Catalog calls f(ctx)
func (f CatalogProviderFunc) Catalog(ctx context.Context) (Catalog, error) {
	return f(ctx)
}
