package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// IncompleteInputError reports a mandatory field that is missing or non-positive
type IncompleteInputError struct {
	Field  string
	Reason string
}

func (e *IncompleteInputError) Error() string {
	return fmt.Sprintf("incomplete input: %s %s", e.Field, e.Reason)
}

// OutOfRangeError reports a value outside the range a regime accepts, such as
// revenue above the Simples Nacional ceiling. Max is zero when unbounded.
type OutOfRangeError struct {
	Field string
	Value decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func (e *OutOfRangeError) Error() string {
	if e.Max.IsZero() {
		return fmt.Sprintf("%s %s out of range: must be at least %s", e.Field, e.Value.String(), e.Min.String())
	}
	return fmt.Sprintf("%s %s out of range [%s, %s]", e.Field, e.Value.String(), e.Min.String(), e.Max.String())
}

// InvalidRangeError reports an optional input outside its documented band
type InvalidRangeError struct {
	Field string
	Value decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s %s outside valid range [%s, %s]", e.Field, e.Value.String(), e.Min.String(), e.Max.String())
}

// UnknownActivityError reports an activity code missing from the registry
type UnknownActivityError struct {
	Code string
}

func (e *UnknownActivityError) Error() string {
	return fmt.Sprintf("unknown activity code %q", e.Code)
}

// IsIncompleteInput reports whether err wraps an IncompleteInputError
func IsIncompleteInput(err error) bool {
	var target *IncompleteInputError
	return errors.As(err, &target)
}

// IsOutOfRange reports whether err wraps an OutOfRangeError
func IsOutOfRange(err error) bool {
	var target *OutOfRangeError
	return errors.As(err, &target)
}

// IsInvalidRange reports whether err wraps an InvalidRangeError
func IsInvalidRange(err error) bool {
	var target *InvalidRangeError
	return errors.As(err, &target)
}

// IsUnknownActivity reports whether err wraps an UnknownActivityError
func IsUnknownActivity(err error) bool {
	var target *UnknownActivityError
	return errors.As(err, &target)
}

// ErrorKind classifies err for logs, metrics and API responses
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsIncompleteInput(err):
		return "incomplete_input"
	case IsOutOfRange(err):
		return "out_of_range"
	case IsInvalidRange(err):
		return "invalid_range"
	case IsUnknownActivity(err):
		return "unknown_activity"
	default:
		return "internal"
	}
}
