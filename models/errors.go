package models

import (
	"errors"
	"fmt"
)

// ErrNoVersions is returned when a document lists no versions but an
// operation needs at least one.
var ErrNoVersions = errors.New("no versions listed")

// StateError is returned when an operation requires a loaded document.
type StateError struct {
	message string
}

// NewStateError returns a pointer to a new instance of StateError.
func NewStateError(message string, args ...interface{}) *StateError {
	return &StateError{
		message: fmt.Sprintf(message, args...),
	}
}

func (err *StateError) Error() string {
	return err.message
}

// FormatError is returned when a value in the document has the wrong shape.
type FormatError struct {
	message string
}

// NewFormatError returns a pointer to a new instance of FormatError.
func NewFormatError(message string, args ...interface{}) *FormatError {
	return &FormatError{
		message: fmt.Sprintf(message, args...),
	}
}

func (err *FormatError) Error() string {
	return err.message
}

// DuplicateVersionError is returned when a release is added under a version
// name that already exists.
type DuplicateVersionError struct {
	Name string
}

// NewDuplicateVersionError returns a pointer to a new instance of
// DuplicateVersionError.
func NewDuplicateVersionError(name string) *DuplicateVersionError {
	return &DuplicateVersionError{Name: name}
}

func (err *DuplicateVersionError) Error() string {
	return fmt.Sprintf("version '%s' already exists", err.Name)
}

func errNotLoaded() *StateError {
	return NewStateError("must load a version list file first")
}
