package transform

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// InputTransform is a what-if adjustment applied to a calculation input.
// Transforms compose: each receives the output of the previous one, so
// "grow revenue 20% then reach Fator R" is two transforms in sequence.
type InputTransform interface {
	// Apply returns a modified copy of base. base itself is never changed.
	Apply(base domain.CalculationInput) (domain.CalculationInput, error)

	// Name returns the short identifier used in transform specs (e.g. "scale_revenue").
	Name() string

	// Description returns a human-readable summary of the adjustment.
	Description() string

	// Validate checks the parameters against base without applying them.
	Validate(base domain.CalculationInput) error
}

// ApplyTransforms applies transforms in order and validates the final input
func ApplyTransforms(base domain.CalculationInput, transforms []InputTransform) (domain.CalculationInput, error) {
	current := base
	for i, t := range transforms {
		if t == nil {
			return base, fmt.Errorf("transform at index %d is nil", i)
		}
		if err := t.Validate(current); err != nil {
			return base, fmt.Errorf("transform %s validation failed: %w", t.Name(), err)
		}
		next, err := t.Apply(current)
		if err != nil {
			return base, fmt.Errorf("transform %s failed: %w", t.Name(), err)
		}
		current = next
	}
	if len(transforms) > 0 {
		if err := current.Validate(); err != nil {
			return base, fmt.Errorf("transformed input is invalid: %w", err)
		}
	}
	return current, nil
}

// Describe lists the descriptions of transforms, one per entry
func Describe(transforms []InputTransform) []string {
	out := make([]string, 0, len(transforms))
	for _, t := range transforms {
		out = append(out, t.Description())
	}
	return out
}

// TransformError reports a transform whose parameters or application failed
type TransformError struct {
	TransformName string
	Operation     string
	Reason        string
	Err           error
}

func (e *TransformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transform %s (%s): %s: %v", e.TransformName, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("transform %s (%s): %s", e.TransformName, e.Operation, e.Reason)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// NewTransformError creates a new TransformError
func NewTransformError(name, operation, reason string, err error) *TransformError {
	return &TransformError{
		TransformName: name,
		Operation:     operation,
		Reason:        reason,
		Err:           err,
	}
}

// IsTransformError reports whether err wraps a TransformError
func IsTransformError(err error) bool {
	var te *TransformError
	return errors.As(err, &te)
}
