package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound = errors.New("resource not found")

	// Table shape errors
	ErrNoHeader          = errors.New("table has no header row")
	ErrDuplicateColumn   = errors.New("duplicate column name")
	ErrUnknownColumn     = errors.New("unknown column")
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNonTabular        = errors.New("source is not tabular")
)

// NewNotFoundError reports a missing resource such as an input file or sheet.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// NewUnknownColumnError reports a column that is not part of the table header.
func NewUnknownColumnError(column string, suggestion string) error {
	if suggestion != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownColumn, column, suggestion)
	}
	return fmt.Errorf("%w %q", ErrUnknownColumn, column)
}

// IsNotFoundError reports whether err wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTableShapeError reports whether err describes a malformed table rather than an I/O failure.
func IsTableShapeError(err error) bool {
	return errors.Is(err, ErrNoHeader) ||
		errors.Is(err, ErrDuplicateColumn) ||
		errors.Is(err, ErrNonTabular)
}
