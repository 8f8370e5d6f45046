package calculation

import (
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// Non-cumulative PIS/COFINS rates applied under Lucro Real
var (
	RealPISRate    = decimal.NewFromFloat(0.0165)
	RealCOFINSRate = decimal.NewFromFloat(0.076)
)

// RealCalculator computes federal taxes under Lucro Real on actual profit
type RealCalculator struct {
	Logger Logger
}

// NewRealCalculator creates a Lucro Real calculator
func NewRealCalculator() *RealCalculator {
	return &RealCalculator{Logger: NopLogger{}}
}

// nonCumulative applies rate to revenue minus the same rate on credits, floored at zero
func nonCumulative(revenue, credits, rate decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	credit := credits.Mul(rate)
	due := revenue.Mul(rate).Sub(credit)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return due, credit
}

// Calculate returns IRPJ, adicional, CSLL, PIS and COFINS for the period.
// Loss carryforward is not applied.
func (rc *RealCalculator) Calculate(input domain.CalculationInput) (domain.RegimeResult, error) {
	if input.RBT12.LessThanOrEqual(decimal.Zero) {
		return domain.RegimeResult{}, &domain.IncompleteInputError{Field: "rbt12", Reason: "must be positive"}
	}

	period := input.EffectivePeriod()
	revenue := input.Revenue()
	profit := revenue.Sub(input.Expenses())
	if profit.IsNegative() {
		profit = decimal.Zero
	}

	credits := input.Credits()
	pis, pisCredit := nonCumulative(revenue, credits, RealPISRate)
	cofins, cofinsCredit := nonCumulative(revenue, credits, RealCOFINSRate)

	lines := incomeTaxLines(profit, profit, period)
	lines = append(lines,
		domain.TaxLine{Name: domain.TaxPIS, Amount: pis},
		domain.TaxLine{Name: domain.TaxCOFINS, Amount: cofins},
	)

	result := domain.NewRegimeResult(domain.RegimeReal, period, revenue, lines)
	result.Real = &domain.RealDetail{
		TaxableProfit:      profit.Round(2),
		SurchargeThreshold: SurchargeThreshold(period),
		PISCredit:          pisCredit.Round(2),
		COFINSCredit:       cofinsCredit.Round(2),
	}
	if profit.IsZero() {
		result.Notes = append(result.Notes, "Sem lucro tributável no período")
	}
	if input.CreditBase == nil {
		result.Notes = append(result.Notes, "Sem base de créditos de PIS/COFINS informada")
	}

	rc.Logger.Debugf("real: profit=%s pisCredit=%s cofinsCredit=%s total=%s",
		profit.String(), pisCredit.String(), cofinsCredit.String(), result.TotalTax.String())
	return result, nil
}
