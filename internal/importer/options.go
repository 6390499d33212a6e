package importer

import (
	"fmt"
	"slices"
	"time"
)

// Lookup selects how course runs are matched to catalog courses
type Lookup string

const (
	// LookupByKey requests courses by "ORG+COURSE" and matches runs by key
	LookupByKey Lookup = "key"
	// LookupByUUID resolves runs to course UUIDs first, then requests courses by UUID
	LookupByUUID Lookup = "uuid"
)

// MaxChunkSize is the largest number of keys sent in one catalog request
const MaxChunkSize = 50

// Seat types in the order they are preferred when picking the enroll-by date
var defaultModePriority = []string{
	"verified",
	"professional",
	"no-id-professional",
	"unpaid-executive-education",
	"audit",
}

// Course types whose dates live in additional_metadata
var defaultAlternativeCourseTypes = []string{
	"executive-education-2u",
	"executive-education",
	"bootcamp-2u",
}

// Options configures an Importer
type Options struct {
	ChunkSize              int
	Lookup                 Lookup
	ModePriority           []string
	AlternativeCourseTypes []string
	// Now is the clock used for selection and bookkeeping
	Now func() time.Time
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		ChunkSize:              MaxChunkSize,
		Lookup:                 LookupByUUID,
		ModePriority:           slices.Clone(defaultModePriority),
		AlternativeCourseTypes: slices.Clone(defaultAlternativeCourseTypes),
		Now:                    time.Now,
	}
}

// withDefaults fills zero fields from DefaultOptions and validates the result
func (o Options) withDefaults() (Options, error) {
	d := DefaultOptions()
	if o.ChunkSize == 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.ChunkSize < 0 || o.ChunkSize > MaxChunkSize {
		return o, fmt.Errorf("chunk size must be between 1 and %d, got %d", MaxChunkSize, o.ChunkSize)
	}
	if o.Lookup == "" {
		o.Lookup = d.Lookup
	}
	if o.Lookup != LookupByKey && o.Lookup != LookupByUUID {
		return o, fmt.Errorf("unknown lookup %q", o.Lookup)
	}
	if len(o.ModePriority) == 0 {
		o.ModePriority = d.ModePriority
	}
	if o.AlternativeCourseTypes == nil {
		o.AlternativeCourseTypes = d.AlternativeCourseTypes
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o, nil
}
