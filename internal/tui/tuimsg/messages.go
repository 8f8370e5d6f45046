// Package tuimsg holds messages emitted by scenes and handled by the root model.
package tuimsg

import (
	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// SubmitMsg asks the root model to compare the regimes for Input
type SubmitMsg struct {
	Input domain.CalculationInput
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}
