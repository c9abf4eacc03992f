package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("not found")
	ErrFileNotFound  = fmt.Errorf("%w: file", ErrNotFound)
	ErrSheetNotFound = fmt.Errorf("%w: worksheet", ErrNotFound)
	ErrRowNotFound   = fmt.Errorf("%w: row", ErrNotFound)

	// Statistic errors
	ErrEmptySeries       = errors.New("series is empty")
	ErrNoNonZeroElements = errors.New("series has no non-zero elements")

	// Input errors
	ErrLengthMismatch    = errors.New("series lengths differ")
	ErrDuplicateRow      = errors.New("more than one row matches key")
	ErrDuplicateYear     = errors.New("year requested more than once")
	ErrInvalidLabelSet   = errors.New("invalid age group label set")
	ErrInvalidYear       = errors.New("invalid year")
	ErrUnsupportedPolicy = errors.New("unsupported average policy")
)

// Error constructors with context
func NewFileNotFoundError(year int, tried []string) error {
	return fmt.Errorf("%w for year %d (tried %q)", ErrFileNotFound, year, tried)
}

func NewSheetNotFoundError(path, sheet string) error {
	return fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, path)
}

func NewRowNotFoundError(group, region string) error {
	return fmt.Errorf("%w: group %q region %q", ErrRowNotFound, group, region)
}

func NewDuplicateRowError(group, region string, count int) error {
	return fmt.Errorf("%w: group %q region %q matched %d rows", ErrDuplicateRow, group, region, count)
}

func NewLengthMismatchError(label string, got, want int) error {
	return fmt.Errorf("%w: %q has %d weeks, expected %d", ErrLengthMismatch, label, got, want)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStatisticError reports whether a statistic is undefined for the data at hand.
func IsStatisticError(err error) bool {
	return errors.Is(err, ErrEmptySeries) ||
		errors.Is(err, ErrNoNonZeroElements)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrDuplicateRow) ||
		errors.Is(err, ErrDuplicateYear) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInvalidLabelSet) ||
		errors.Is(err, ErrInvalidYear)
}
