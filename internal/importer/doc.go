// Package importer synchronizes course-run metadata from the course catalog
// into the local course details store.
//
// An import runs in five steps:
//
//   - Selection: the course runs to import are listed from the local
//     CourseRunSource. "import" picks runs that are still enrollable and have
//     no details yet, "backfill" picks every known run, and ImportSpecific
//     takes an explicit list of course-run keys.
//   - Batching: the runs are split into chunks of at most 50 keys.
//   - Lookup: each chunk is fetched from the catalog, either by course key
//     ("ORG+COURSE") or by first resolving course runs to course UUIDs.
//     Every request is retried with exponential backoff and an exhausted
//     retry aborts the whole import.
//   - Extraction: executive education and bootcamp courses take their dates
//     from additional_metadata. Every other course takes them from the
//     matching course run and its best seat.
//   - Upsert: one record per course-run key, overwriting every field.
//
// Refresh is the incremental entry point. It pages through the courses the
// catalog reports as updated since the last successful refresh and rewrites
// the details of runs that are already stored.
//
// # Errors
//
// Failures are returned as *Error, which records the Stage that failed so
// callers can tell a configuration problem (StageCredentials) from a catalog
// outage (StageFetch) or a database problem (StageStore).
package importer
