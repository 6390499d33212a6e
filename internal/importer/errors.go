package importer

import (
	"errors"
	"fmt"
)

// Stage identifies the step of an import that failed
type Stage string

const (
	// StageSelect covers listing and parsing the course runs to import
	StageSelect Stage = "select"
	// StageCredentials covers resolving the service user and building the catalog client
	StageCredentials Stage = "credentials"
	// StageFetch covers catalog requests
	StageFetch Stage = "fetch"
	// StageStore covers writes to the local store
	StageStore Stage = "store"
)

// ErrNoRefreshTimestamp is returned by Refresh when no previous refresh was
// recorded and no start time was given
var ErrNoRefreshTimestamp = errors.New("no previous refresh recorded, a start timestamp is required")

// Error is a failed import step
type Error struct {
	Err     error
	Message string
	Stage   Stage
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(stage Stage, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Err:     err,
		Message: fmt.Sprintf("%s: %v", msg, err),
		Stage:   stage,
	}
}

// StageOf returns the stage recorded in err, or "" if err is not an *Error
func StageOf(err error) Stage {
	var importErr *Error
	if errors.As(err, &importErr) {
		return importErr.Stage
	}
	return ""
}
