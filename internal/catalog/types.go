package catalog

// Course is the subset of a catalog course the importer reads
type Course struct {
	Key                string              `json:"key"`
	UUID               string              `json:"uuid"`
	Title              string              `json:"title,omitempty"`
	CourseType         string              `json:"course_type"`
	ProductSource      *ProductSource      `json:"product_source"`
	CourseRuns         []CourseRun         `json:"course_runs"`
	AdditionalMetadata *AdditionalMetadata `json:"additional_metadata"`
}

// ProductSourceSlug returns the product source slug, or "" when the course has none
func (c *Course) ProductSourceSlug() string {
	if c.ProductSource == nil {
		return ""
	}
	return c.ProductSource.Slug
}

// FindRun returns the course run with the given key, or nil
func (c *Course) FindRun(key string) *CourseRun {
	for i := range c.CourseRuns {
		if c.CourseRuns[i].Key == key {
			return &c.CourseRuns[i]
		}
	}
	return nil
}

// ProductSource identifies where a course originates
type ProductSource struct {
	Slug string `json:"slug"`
	Name string `json:"name,omitempty"`
}

// CourseRun is a scheduled offering of a course. Dates are kept as the raw
// strings the catalog returns.
type CourseRun struct {
	Key        string `json:"key"`
	UUID       string `json:"uuid"`
	CourseUUID string `json:"course_uuid,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Seats      []Seat `json:"seats"`
}

// Seat is an enrollment mode offered for a course run
type Seat struct {
	Type            string `json:"type"`
	UpgradeDeadline string `json:"upgrade_deadline"`
}

// AdditionalMetadata carries scheduling data for executive education and bootcamp courses
type AdditionalMetadata struct {
	RegistrationDeadline string `json:"registration_deadline"`
	StartDate            string `json:"start_date"`
	EndDate              string `json:"end_date"`
}

// Page is one page of a paginated catalog listing
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether another page follows
func (p *Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

// CoursePage is a page of courses
type CoursePage = Page[Course]
