package roster

import "errors"

// Domain errors for the roster package.
var (
	// ErrFileTooLarge is returned when the roster file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("roster: file too large")

	// ErrMissingColumn is returned when the header row lacks a required column.
	ErrMissingColumn = errors.New("roster: missing column")

	// ErrInvalidRow is returned when a record cannot be parsed. The error
	// message carries the row number.
	ErrInvalidRow = errors.New("roster: invalid row")
)
