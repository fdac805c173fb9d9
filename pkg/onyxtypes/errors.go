package onyxtypes

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTrigger is matched by every *DuplicateTriggerError.
	ErrDuplicateTrigger = errors.New("duplicate trigger")

	// ErrImportParse is matched by every *ImportParseError.
	ErrImportParse = errors.New("trigger import parse failed")

	// ErrStoreClosed is returned by KVStore implementations after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// DuplicateTriggerError is returned when adding a trigger whose name collides,
// case-insensitively, with an existing entry.
type DuplicateTriggerError struct {
	Name     string // Name that was being added
	Existing string // Name of the entry it collides with
}

func (e *DuplicateTriggerError) Error() string {
	return fmt.Sprintf("trigger %q already exists (conflicts with %q)", e.Name, e.Existing)
}

// Is makes errors.Is(err, ErrDuplicateTrigger) work.
func (e *DuplicateTriggerError) Is(target error) bool {
	return target == ErrDuplicateTrigger
}

// ImportParseError is returned when persisted or imported data is not a JSON array of
// trigger definitions.
type ImportParseError struct {
	Err error
}

func (e *ImportParseError) Error() string {
	return fmt.Sprintf("invalid trigger data: %v", e.Err)
}

func (e *ImportParseError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrImportParse) work.
func (e *ImportParseError) Is(target error) bool {
	return target == ErrImportParse
}
