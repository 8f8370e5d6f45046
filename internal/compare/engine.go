package compare

import (
	"context"
	"fmt"
	"sort"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// Calculator prices a single regime
type Calculator interface {
	Calculate(input domain.CalculationInput) (domain.RegimeResult, error)
}

// Options configures comparison behavior
type Options struct {
	// ExcludeIneligible drops Simples Nacional from the ranking when RBT12 is
	// above its ceiling instead of failing the whole comparison.
	ExcludeIneligible bool
}

// Comparator evaluates every regime on one input and ranks them
type Comparator struct {
	Calculators map[domain.Regime]Calculator
	Logger      calculation.Logger
}

// NewComparator creates a comparator over the engine's calculators
func NewComparator(engine *calculation.Engine) *Comparator {
	return &Comparator{
		Calculators: map[domain.Regime]Calculator{
			domain.RegimeSimples:   engine.Simples,
			domain.RegimePresumido: engine.Presumido,
			domain.RegimeReal:      engine.Real,
		},
		Logger: engine.Logger,
	}
}

// Compare runs all three regimes over the same period and picks the cheapest.
// Ties go to the regime with the lower priority (simples, presumido, real).
func (c *Comparator) Compare(ctx context.Context, input domain.CalculationInput, opts Options) (*domain.ComparisonResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = calculation.NopLogger{}
	}

	period := input.EffectivePeriod()
	input.Period = period
	result := &domain.ComparisonResult{
		Input:   input,
		Period:  period,
		Regimes: make(map[domain.Regime]domain.RegimeResult, len(domain.AllRegimes)),
	}

	for _, regime := range domain.AllRegimes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		calc, ok := c.Calculators[regime]
		if !ok {
			return nil, fmt.Errorf("no calculator registered for %s", regime)
		}
		res, err := calc.Calculate(input)
		if err != nil {
			if opts.ExcludeIneligible && regime == domain.RegimeSimples && domain.IsOutOfRange(err) {
				logger.Infof("excluding %s: %v", regime, err)
				result.Excluded = append(result.Excluded, domain.ExcludedRegime{Regime: regime, Reason: err.Error()})
				continue
			}
			return nil, fmt.Errorf("%s: %w", regime, err)
		}
		if res.Period != period {
			return nil, fmt.Errorf("%s returned period %s, expected %s", regime, res.Period, period)
		}
		result.Regimes[regime] = res
	}

	result.Ranking = rank(result.Regimes)
	if len(result.Ranking) == 0 {
		return nil, fmt.Errorf("no regime could be calculated")
	}
	result.BestOption = result.Ranking[0]
	if len(result.Ranking) > 1 {
		result.Savings = savings(result.Regimes[result.Ranking[0]], result.Regimes[result.Ranking[1]])
	}

	logger.Debugf("comparison: ranking=%v best=%s", result.Ranking, result.BestOption)
	return result, nil
}

// rank orders regimes by total tax, breaking ties by priority
func rank(results map[domain.Regime]domain.RegimeResult) []domain.Regime {
	ranking := make([]domain.Regime, 0, len(results))
	for _, r := range domain.AllRegimes {
		if _, ok := results[r]; ok {
			ranking = append(ranking, r)
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := results[ranking[i]], results[ranking[j]]
		if cmp := a.TotalTax.Cmp(b.TotalTax); cmp != 0 {
			return cmp < 0
		}
		return ranking[i].Priority() < ranking[j].Priority()
	})
	return ranking
}

// savings is the gap between the best and the next-best regime
func savings(best, next domain.RegimeResult) *domain.Savings {
	amount := next.TotalTax.Sub(best.TotalTax)
	pct := decimal.Zero
	if !next.TotalTax.IsZero() {
		pct = amount.Div(next.TotalTax).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &domain.Savings{
		ComparedWith: next.Regime,
		Amount:       amount,
		Percentage:   pct,
	}
}
