// Package courserun parses and formats course-run identifiers.
package courserun

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// keyPrefix marks the current course-run key format
	keyPrefix = "course-v1:"
	// keySeparator joins org, course and run in the current format
	keySeparator = "+"
	// legacySeparator joins org, course and run in the old slash format
	legacySeparator = "/"
)

// ErrInvalidLocator is returned when a course-run key cannot be parsed
var ErrInvalidLocator = errors.New("invalid course run key")

// Locator identifies a single course run
type Locator struct {
	Org    string
	Course string
	Run    string

	legacy bool
}

// Parse parses "course-v1:ORG+COURSE+RUN" or the legacy "ORG/COURSE/RUN" form.
func Parse(key string) (Locator, error) {
	key = strings.TrimSpace(key)

	var parts []string
	legacy := false
	switch {
	case strings.HasPrefix(key, keyPrefix):
		parts = strings.Split(strings.TrimPrefix(key, keyPrefix), keySeparator)
	case strings.Count(key, legacySeparator) == 2:
		parts = strings.Split(key, legacySeparator)
		legacy = true
	default:
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, key)
	}

	if len(parts) != 3 {
		return Locator{}, fmt.Errorf("%w: %q", ErrInvalidLocator, key)
	}
	for _, p := range parts {
		if p == "" {
			return Locator{}, fmt.Errorf("%w: %q has an empty component", ErrInvalidLocator, key)
		}
	}

	return Locator{Org: parts[0], Course: parts[1], Run: parts[2], legacy: legacy}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(key string) Locator {
	l, err := Parse(key)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseAll parses every key, stopping at the first failure
func ParseAll(keys []string) ([]Locator, error) {
	out := make([]Locator, 0, len(keys))
	for _, k := range keys {
		l, err := Parse(k)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// String returns the course-run key, which is the unique identifier used for storage.
func (l Locator) String() string {
	if l.legacy {
		return strings.Join([]string{l.Org, l.Course, l.Run}, legacySeparator)
	}
	return keyPrefix + strings.Join([]string{l.Org, l.Course, l.Run}, keySeparator)
}

// CourseKey returns the parent course key, "ORG+COURSE".
func (l Locator) CourseKey() string {
	return l.Org + keySeparator + l.Course
}

// Keys converts locators to their course-run keys, preserving order
func Keys(locators []Locator) []string {
	out := make([]string, len(locators))
	for i, l := range locators {
		out[i] = l.String()
	}
	return out
}
