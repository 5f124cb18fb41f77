package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResult marks a run that could not obtain the listing page.
	ErrNoResult = errors.New("no result: listing could not be retrieved")
	// ErrExtraction marks a listing entry missing a required element.
	ErrExtraction = errors.New("extraction failed")
	// ErrPersistenceConflict marks a batch rejected by a uniqueness constraint.
	ErrPersistenceConflict = errors.New("persistence conflict")
	// ErrInvalidCapacity is returned for a negative selection capacity.
	ErrInvalidCapacity = errors.New("capacity must not be negative")
)

// ExtractionError names the element that was absent from an entry.
type ExtractionError struct {
	Element string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract entry: missing %s", e.Element)
}

// Is lets errors.Is match ErrExtraction.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

// ConflictError reports the record whose insert violated a uniqueness constraint.
type ConflictError struct {
	ExternalID string
	Title      string
	Err        error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("insert %s (%q): duplicate external id or title: %v", e.ExternalID, e.Title, e.Err)
}

// Is lets errors.Is match ErrPersistenceConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrPersistenceConflict
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
