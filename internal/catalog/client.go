// Package catalog is a client for the course catalog REST API.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/course-metadata-importer/internal/httpclient"
	"github.com/stacklok/course-metadata-importer/internal/otel"
	"github.com/stacklok/course-metadata-importer/internal/retry"
	"github.com/stacklok/course-metadata-importer/internal/telemetry"
)

// PageSize is the page size requested from listing endpoints
const PageSize = 50

// TracerName is the instrumentation name of catalog request spans
const TracerName = "github.com/stacklok/course-metadata-importer/catalog"

const (
	endpointCourses    = "courses"
	endpointCourseRuns = "course_runs"

	// TimestampFormat is how the "updated since" timestamp is sent
	TimestampFormat = "2006-01-02T15:04:05Z"
)

// ErrCursorLoop is returned when a page points back at itself as the next page
var ErrCursorLoop = errors.New("catalog returned the current page as next")

// ErrForeignNext is returned when a page's next link leaves the catalog's
// scheme and host
var ErrForeignNext = errors.New("catalog returned a next page on another host")

// Client fetches course data from the catalog
type Client struct {
	baseURL string
	http    httpclient.Client
	retry   retry.Policy
	logger  *slog.Logger
	metrics *telemetry.ImportMetrics
	tracer  trace.Tracer
}

// Option configures a Client
type Option func(*Client)

// WithRetryPolicy sets the retry policy applied to every request
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records request counts on m
func WithMetrics(m *telemetry.ImportMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracer creates a span per request
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Client) {
		c.tracer = tracer
	}
}

// New creates a catalog client rooted at baseURL, e.g. "https://discovery.example.com/api/v1"
func New(baseURL string, httpClient httpclient.Client, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("catalog URL must be absolute: %q", baseURL)
	}
	if httpClient == nil {
		return nil, errors.New("http client is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		retry:   retry.DefaultPolicy(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchCoursesByKeys returns the courses with the given course keys ("ORG+COURSE").
// Keys the catalog does not know are logged and left out of the result.
func (c *Client) FetchCoursesByKeys(ctx context.Context, courseKeys []string) ([]Course, error) {
	if len(courseKeys) == 0 {
		return nil, nil
	}

	c.logger.InfoContext(ctx, "Fetching course details from catalog", "course_keys", courseKeys)
	apiURL := fmt.Sprintf("%s/%s/?keys=%s", c.baseURL, endpointCourses, joinEscaped(courseKeys))

	page, err := getJSON[CoursePage](ctx, c, endpointCourses, apiURL)
	if err != nil {
		return nil, err
	}

	logMissing(ctx, c.logger, "Courses not found in catalog", courseKeys, page.Results, func(course Course) string {
		return course.Key
	})
	return page.Results, nil
}

// ResolveCourseRuns returns the course runs with the given course-run keys,
// including the UUID of their parent course.
func (c *Client) ResolveCourseRuns(ctx context.Context, runKeys []string) ([]CourseRun, error) {
	if len(runKeys) == 0 {
		return nil, nil
	}

	apiURL := fmt.Sprintf("%s/%s/?limit=%d&include_hidden_course_runs=1&keys=%s",
		c.baseURL, endpointCourseRuns, PageSize, joinEscaped(runKeys))

	page, err := getJSON[Page[CourseRun]](ctx, c, endpointCourseRuns, apiURL)
	if err != nil {
		return nil, err
	}

	logMissing(ctx, c.logger, "Course runs not found in catalog", runKeys, page.Results, func(run CourseRun) string {
		return run.Key
	})
	return page.Results, nil
}

// FetchCoursesByUUIDs returns the courses with the given UUIDs
func (c *Client) FetchCoursesByUUIDs(ctx context.Context, uuids []string) ([]Course, error) {
	if len(uuids) == 0 {
		return nil, nil
	}

	c.logger.InfoContext(ctx, "Fetching course details from catalog", "course_uuids", uuids)
	apiURL := fmt.Sprintf("%s/%s/?limit=%d&include_hidden_course_runs=1&uuids=%s",
		c.baseURL, endpointCourses, PageSize, joinEscaped(uuids))

	page, err := getJSON[CoursePage](ctx, c, endpointCourses, apiURL)
	if err != nil {
		return nil, err
	}

	logMissing(ctx, c.logger, "Courses not found in catalog", uuids, page.Results, func(course Course) string {
		return course.UUID
	})
	return page.Results, nil
}

// UpdatedSince iterates over pages of courses modified after since, following
// the "next" link until the catalog reports no further page. The total count
// is logged once with the first page. A failed request is yielded as an error
// and ends the iteration.
func (c *Client) UpdatedSince(ctx context.Context, since time.Time) iter.Seq2[*CoursePage, error] {
	return func(yield func(*CoursePage, error) bool) {
		next := fmt.Sprintf("%s/%s/?timestamp=%s&limit=%d&include_hidden_course_runs=1",
			c.baseURL, endpointCourses, url.QueryEscape(since.UTC().Format(TimestampFormat)), PageSize)

		first := true
		for next != "" {
			page, err := getJSON[CoursePage](ctx, c, endpointCourses, next)
			if err != nil {
				yield(nil, err)
				return
			}

			if first {
				c.logger.InfoContext(ctx, "Fetching courses updated in catalog",
					"since", since.UTC().Format(TimestampFormat),
					"count", page.Count,
				)
				first = false
			}

			current := next
			next = ""
			if page.HasNext() {
				next = *page.Next
			}

			if !yield(page, nil) {
				return
			}

			if next == current {
				yield(nil, fmt.Errorf("%w: %s", ErrCursorLoop, next))
				return
			}
			if next != "" && !c.sameOrigin(next) {
				yield(nil, fmt.Errorf("%w: %s", ErrForeignNext, next))
				return
			}
		}
	}
}

// sameOrigin reports whether link has the scheme and host of the base URL,
// so credentials are only ever sent to the configured catalog
func (c *Client) sameOrigin(link string) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, base.Scheme) && strings.EqualFold(u.Host, base.Host)
}

// getJSON fetches apiURL under the retry policy and decodes the body into T
func getJSON[T any](ctx context.Context, c *Client, endpoint, apiURL string) (*T, error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "catalog."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(otel.AttrCatalogPath.String(endpoint)),
	)
	defer span.End()

	result, err := retry.Do(ctx, c.retry, c.logger, "catalog "+endpoint, func(ctx context.Context) (*T, error) {
		body, err := c.http.Get(ctx, apiURL)
		c.metrics.RecordCatalogRequest(ctx, endpoint, statusOf(err))
		if err != nil {
			return nil, err
		}

		var out T
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", endpoint, err)
		}
		return &out, nil
	})
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("catalog request to %s failed: %w", endpoint, err)
	}
	return result, nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	return httpclient.StatusCode(err)
}

// logMissing logs requested identifiers that have no counterpart in results
func logMissing[T any](ctx context.Context, logger *slog.Logger, msg string, requested []string, results []T, id func(T) string) {
	found := make(map[string]struct{}, len(results))
	for _, r := range results {
		found[id(r)] = struct{}{}
	}

	var missing []string
	for _, key := range requested {
		if _, ok := found[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		logger.InfoContext(ctx, msg, "keys", missing)
	}
}

func joinEscaped(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = url.QueryEscape(v)
	}
	return strings.Join(escaped, ",")
}
