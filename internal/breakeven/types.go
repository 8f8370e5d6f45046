package breakeven

import (
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// SolverOptions configures the bisection search
type SolverOptions struct {
	MinRevenue    decimal.Decimal // Lower RBT12 bound
	MaxRevenue    decimal.Decimal // Upper RBT12 bound; zero means the Simples ceiling
	Tolerance     decimal.Decimal // Stop when the bracket is narrower than this
	MaxIterations int             // Maximum bisection steps
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MinRevenue:    decimal.NewFromInt(1),
		Tolerance:     decimal.NewFromFloat(0.01), // one cent of RBT12
		MaxIterations: 60,
	}
}

// Crossover is the revenue at which two regimes cost the same
type Crossover struct {
	RegimeA         domain.Regime   `json:"regimeA"`
	RegimeB         domain.Regime   `json:"regimeB"`
	Found           bool            `json:"found"`
	Revenue         decimal.Decimal `json:"revenue"`
	TotalA          decimal.Decimal `json:"totalA"`
	TotalB          decimal.Decimal `json:"totalB"`
	Iterations      int             `json:"iterations"`
	ConvergenceInfo string          `json:"convergenceInfo"`
	// CheaperBelow is the regime that costs less just below Revenue
	CheaperBelow domain.Regime `json:"cheaperBelow,omitempty"`
}

// SweepPoint is one comparison along a revenue sweep
type SweepPoint struct {
	Revenue  decimal.Decimal                   `json:"revenue"`
	Best     domain.Regime                     `json:"best"`
	Totals   map[domain.Regime]decimal.Decimal `json:"totals"`
	Excluded []domain.Regime                   `json:"excluded,omitempty"`
}

// BreakEvenError represents errors during break-even analysis
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
