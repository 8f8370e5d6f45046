package domain

import (
	"github.com/shopspring/decimal"
)

// CalculationInput is the single record every regime calculator receives.
// RBT12, Payroll, DeductibleExpenses and CreditBase are trailing-12-month
// figures; the period amounts are derived from them through Period.Scale.
// PeriodRevenue and PeriodExpenses override the derived period amounts. When
// PeriodRevenue is given without PeriodExpenses, DeductibleExpenses is read as
// an amount of the same period so revenue and expenses share one unit.
type CalculationInput struct {
	RBT12              decimal.Decimal  `yaml:"rbt12" json:"rbt12"`
	Activity           Activity         `yaml:"activity" json:"activity"`
	ActivityDetailed   string           `yaml:"activity_detailed,omitempty" json:"activityDetailed,omitempty"`
	Payroll            decimal.Decimal  `yaml:"payroll" json:"payroll"`
	DeductibleExpenses decimal.Decimal  `yaml:"deductible_expenses" json:"deductibleExpenses"`
	CreditBase         *decimal.Decimal `yaml:"credit_base,omitempty" json:"creditBase,omitempty"`
	ISSRate            *decimal.Decimal `yaml:"iss_rate,omitempty" json:"issRate,omitempty"`
	Period             Period           `yaml:"period" json:"period"`
	PeriodRevenue      *decimal.Decimal `yaml:"period_revenue,omitempty" json:"periodRevenue,omitempty"`
	PeriodExpenses     *decimal.Decimal `yaml:"period_expenses,omitempty" json:"periodExpenses,omitempty"`
}

// ISS band accepted for the optional municipal service tax
var (
	MinISSRate = decimal.NewFromFloat(0.02)
	MaxISSRate = decimal.NewFromFloat(0.05)
)

// Validate checks the mandatory fields and the ranges of the optional ones
func (in CalculationInput) Validate() error {
	if in.RBT12.LessThanOrEqual(decimal.Zero) {
		return &IncompleteInputError{Field: "rbt12", Reason: "must be positive"}
	}
	if in.Activity == "" {
		return &IncompleteInputError{Field: "activity", Reason: "is required"}
	}
	if !in.Activity.IsValid() {
		return &IncompleteInputError{Field: "activity", Reason: "must be comercio, industria or servico"}
	}
	if in.Payroll.IsNegative() {
		return &InvalidRangeError{Field: "payroll", Value: in.Payroll, Min: decimal.Zero, Max: in.RBT12}
	}
	if in.DeductibleExpenses.IsNegative() {
		return &InvalidRangeError{Field: "deductible_expenses", Value: in.DeductibleExpenses, Min: decimal.Zero, Max: in.RBT12}
	}
	if in.CreditBase != nil && in.CreditBase.IsNegative() {
		return &InvalidRangeError{Field: "credit_base", Value: *in.CreditBase, Min: decimal.Zero, Max: in.RBT12}
	}
	if in.PeriodRevenue != nil && in.PeriodRevenue.IsNegative() {
		return &InvalidRangeError{Field: "period_revenue", Value: *in.PeriodRevenue, Min: decimal.Zero, Max: in.RBT12}
	}
	if in.PeriodExpenses != nil && in.PeriodExpenses.IsNegative() {
		return &InvalidRangeError{Field: "period_expenses", Value: *in.PeriodExpenses, Min: decimal.Zero, Max: in.RBT12}
	}
	if err := in.ISSCheck(); err != nil {
		return err
	}
	return in.EffectivePeriod().Validate()
}

// ISSCheck validates the optional ISS rate
func (in CalculationInput) ISSCheck() error {
	if in.ISSRate == nil {
		return nil
	}
	if in.ISSRate.LessThan(MinISSRate) || in.ISSRate.GreaterThan(MaxISSRate) {
		return &InvalidRangeError{Field: "iss_rate", Value: *in.ISSRate, Min: MinISSRate, Max: MaxISSRate}
	}
	return nil
}

// EffectivePeriod returns Period, treating the zero value as annual
func (in CalculationInput) EffectivePeriod() Period {
	if in.Period.Months == 0 {
		return Annual
	}
	return in.Period
}

// Revenue returns the revenue for the costed period
func (in CalculationInput) Revenue() decimal.Decimal {
	if in.PeriodRevenue != nil {
		return *in.PeriodRevenue
	}
	return in.EffectivePeriod().Scale(in.RBT12)
}

// Expenses returns the deductible expenses for the costed period
func (in CalculationInput) Expenses() decimal.Decimal {
	switch {
	case in.PeriodExpenses != nil:
		return *in.PeriodExpenses
	case in.PeriodRevenue != nil:
		return in.DeductibleExpenses
	default:
		return in.EffectivePeriod().Scale(in.DeductibleExpenses)
	}
}

// Credits returns the PIS/COFINS credit base for the costed period (zero when absent)
func (in CalculationInput) Credits() decimal.Decimal {
	if in.CreditBase == nil {
		return decimal.Zero
	}
	return in.EffectivePeriod().Scale(*in.CreditBase)
}

// FactorR is payroll divided by RBT12
func (in CalculationInput) FactorR() decimal.Decimal {
	if in.RBT12.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return in.Payroll.Div(in.RBT12)
}

// WithRevenue returns a copy with RBT12 replaced and ratio-bound fields rescaled.
// Payroll, expenses and credit base keep their ratio to revenue.
func (in CalculationInput) WithRevenue(rbt12 decimal.Decimal) CalculationInput {
	out := in
	out.RBT12 = rbt12
	out.PeriodRevenue = nil
	out.PeriodExpenses = nil
	if in.RBT12.IsPositive() {
		ratio := rbt12.Div(in.RBT12)
		out.Payroll = in.Payroll.Mul(ratio)
		out.DeductibleExpenses = in.DeductibleExpenses.Mul(ratio)
		if in.CreditBase != nil {
			cb := in.CreditBase.Mul(ratio)
			out.CreditBase = &cb
		}
	}
	return out
}
