package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// Solver searches the revenue axis for regime crossovers
type Solver struct {
	Engine     *calculation.Engine
	Comparator *compare.Comparator
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:     engine,
		Comparator: compare.NewComparator(engine),
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

func (s *Solver) bounds() (decimal.Decimal, decimal.Decimal) {
	lo, hi := s.Options.MinRevenue, s.Options.MaxRevenue
	if lo.LessThanOrEqual(decimal.Zero) {
		lo = decimal.NewFromInt(1)
	}
	if hi.IsZero() {
		hi = s.Engine.Tables.Ceiling
	}
	return lo, hi
}

// difference returns total(a) - total(b) at revenue, keeping payroll and expense ratios
func (s *Solver) difference(input domain.CalculationInput, a, b domain.Regime, revenue decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	scaled := input.WithRevenue(revenue)
	ra, err := s.Engine.Calculate(a, scaled)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	rb, err := s.Engine.Calculate(b, scaled)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return ra.TotalTax.Sub(rb.TotalTax), ra.TotalTax, rb.TotalTax, nil
}

// RevenueCrossover bisects RBT12 between the configured bounds for the point
// where regimes a and b cost the same
func (s *Solver) RevenueCrossover(ctx context.Context, input domain.CalculationInput, a, b domain.Regime) (*Crossover, error) {
	if a == b {
		return nil, &BreakEvenError{Operation: "crossover", Message: fmt.Sprintf("regimes must differ, got %s twice", a)}
	}
	if err := input.Validate(); err != nil {
		return nil, &BreakEvenError{Operation: "crossover", Message: "invalid input", Cause: err}
	}
	// the solver moves RBT12, so a fixed period revenue would pin the base
	input.PeriodRevenue = nil
	input.PeriodExpenses = nil

	lo, hi := s.bounds()
	if !hi.GreaterThan(lo) {
		return nil, &BreakEvenError{Operation: "crossover", Message: fmt.Sprintf("empty revenue range [%s, %s]", lo, hi)}
	}

	diffLo, totalALo, totalBLo, err := s.difference(input, a, b, lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: "crossover", Message: fmt.Sprintf("failed to calculate at lower bound %s", lo), Cause: err}
	}
	diffHi, totalAHi, totalBHi, err := s.difference(input, a, b, hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: "crossover", Message: fmt.Sprintf("failed to calculate at upper bound %s", hi), Cause: err}
	}

	result := &Crossover{RegimeA: a, RegimeB: b}
	switch {
	case diffLo.IsZero():
		result.Found, result.Revenue, result.TotalA, result.TotalB = true, lo, totalALo, totalBLo
		result.ConvergenceInfo = "Regimes cost the same at the lower bound"
		return result, nil
	case diffHi.IsZero():
		result.Found, result.Revenue, result.TotalA, result.TotalB = true, hi, totalAHi, totalBHi
		result.ConvergenceInfo = "Regimes cost the same at the upper bound"
		return result, nil
	case diffLo.Sign() == diffHi.Sign():
		result.Revenue = hi
		result.TotalA, result.TotalB = totalAHi, totalBHi
		cheaper := a
		if diffLo.IsPositive() {
			cheaper = b
		}
		result.ConvergenceInfo = fmt.Sprintf("No crossover between %s and %s: %s is cheaper across the range",
			lo.StringFixed(2), hi.StringFixed(2), cheaper.Label())
		return result, nil
	}

	if diffLo.IsNegative() {
		result.CheaperBelow = a
	} else {
		result.CheaperBelow = b
	}

	two := decimal.NewFromInt(2)
	for result.Iterations < s.Options.MaxIterations {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two)
		diffMid, _, _, err := s.difference(input, a, b, mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: "crossover", Message: fmt.Sprintf("failed to calculate at %s", mid.StringFixed(2)), Cause: err}
		}
		if diffMid.IsZero() {
			lo, hi = mid, mid
			break
		}
		if diffMid.Sign() == diffLo.Sign() {
			lo = mid
		} else {
			hi = mid
		}
		if hi.Sub(lo).LessThan(s.Options.Tolerance) {
			break
		}
	}

	result.Found = true
	result.Revenue = lo.Add(hi).Div(two).Round(2)
	_, result.TotalA, result.TotalB, err = s.difference(input, a, b, result.Revenue)
	if err != nil {
		return nil, &BreakEvenError{Operation: "crossover", Message: "failed to calculate at crossover", Cause: err}
	}
	if hi.Sub(lo).LessThan(s.Options.Tolerance) {
		result.ConvergenceInfo = "Bisection converged"
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", s.Options.MaxIterations)
	}
	return result, nil
}

// Sweep compares the regimes at steps evenly spaced revenues from..to.
// Simples is dropped from points above its ceiling instead of failing.
func (s *Solver) Sweep(ctx context.Context, input domain.CalculationInput, from, to decimal.Decimal, steps int) ([]SweepPoint, error) {
	if steps < 2 {
		return nil, &BreakEvenError{Operation: "sweep", Message: "at least two steps are required"}
	}
	if !to.GreaterThan(from) || !from.IsPositive() {
		return nil, &BreakEvenError{Operation: "sweep", Message: fmt.Sprintf("invalid revenue range [%s, %s]", from, to)}
	}
	input.PeriodRevenue = nil
	input.PeriodExpenses = nil

	step := to.Sub(from).Div(decimal.NewFromInt(int64(steps - 1)))
	points := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		revenue := from.Add(step.Mul(decimal.NewFromInt(int64(i)))).Round(2)
		if i == steps-1 {
			revenue = to
		}

		result, err := s.Comparator.Compare(ctx, input.WithRevenue(revenue), compare.Options{ExcludeIneligible: true})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, &BreakEvenError{Operation: "sweep", Message: fmt.Sprintf("failed to compare at %s", revenue.StringFixed(2)), Cause: err}
		}

		point := SweepPoint{
			Revenue: revenue,
			Best:    result.BestOption,
			Totals:  make(map[domain.Regime]decimal.Decimal, len(result.Regimes)),
		}
		for regime, rr := range result.Regimes {
			point.Totals[regime] = rr.TotalTax
		}
		for _, ex := range result.Excluded {
			point.Excluded = append(point.Excluded, ex.Regime)
		}
		points = append(points, point)
	}
	return points, nil
}

// PayrollForFactorR returns the trailing-12-month payroll needed for services
// to reach the Anexo III threshold
func PayrollForFactorR(rbt12, threshold decimal.Decimal) decimal.Decimal {
	return rbt12.Mul(threshold).RoundCeil(2)
}
