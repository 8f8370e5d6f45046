package transform

import (
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleRevenue multiplies RBT12 by Factor. Payroll, expenses and the credit
// base keep their ratio to revenue.
type ScaleRevenue struct {
	Factor decimal.Decimal
}

func (t *ScaleRevenue) Name() string { return "scale_revenue" }

func (t *ScaleRevenue) Description() string {
	return fmt.Sprintf("Multiplicar o faturamento por %s", t.Factor.String())
}

func (t *ScaleRevenue) Validate(base domain.CalculationInput) error {
	if !t.Factor.IsPositive() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", t.Factor), nil)
	}
	if !base.RBT12.IsPositive() {
		return NewTransformError(t.Name(), "validate", "base rbt12 must be positive", nil)
	}
	return nil
}

func (t *ScaleRevenue) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	return base.WithRevenue(base.RBT12.Mul(t.Factor).Round(2)), nil
}

// SetRevenue replaces RBT12. With KeepRatios the dependent amounts follow it.
type SetRevenue struct {
	RBT12      decimal.Decimal
	KeepRatios bool
}

func (t *SetRevenue) Name() string { return "set_revenue" }

func (t *SetRevenue) Description() string {
	return fmt.Sprintf("Faturamento de 12 meses em R$ %s", t.RBT12.StringFixed(2))
}

func (t *SetRevenue) Validate(domain.CalculationInput) error {
	if !t.RBT12.IsPositive() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("rbt12 must be positive, got %s", t.RBT12), nil)
	}
	return nil
}

func (t *SetRevenue) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	if t.KeepRatios {
		return base.WithRevenue(t.RBT12), nil
	}
	out := base
	out.RBT12 = t.RBT12
	out.PeriodRevenue = nil
	out.PeriodExpenses = nil
	return out, nil
}

// SetPayroll replaces the trailing-12-month payroll
type SetPayroll struct {
	Amount decimal.Decimal
}

func (t *SetPayroll) Name() string { return "set_payroll" }

func (t *SetPayroll) Description() string {
	return fmt.Sprintf("Folha de 12 meses em R$ %s", t.Amount.StringFixed(2))
}

func (t *SetPayroll) Validate(domain.CalculationInput) error {
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetPayroll) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	out.Payroll = t.Amount
	return out, nil
}

// TargetFactorR raises or lowers payroll so that payroll / RBT12 equals Ratio.
// The payroll is rounded up to the cent so the ratio is never just below target.
type TargetFactorR struct {
	Ratio decimal.Decimal
}

func (t *TargetFactorR) Name() string { return "target_factor_r" }

func (t *TargetFactorR) Description() string {
	return fmt.Sprintf("Ajustar a folha para Fator R de %s%%", t.Ratio.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func (t *TargetFactorR) Validate(base domain.CalculationInput) error {
	if t.Ratio.IsNegative() || t.Ratio.GreaterThan(decimal.NewFromInt(1)) {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("ratio must be between 0 and 1, got %s", t.Ratio), nil)
	}
	if !base.RBT12.IsPositive() {
		return NewTransformError(t.Name(), "validate", "base rbt12 must be positive", nil)
	}
	return nil
}

func (t *TargetFactorR) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	out.Payroll = base.RBT12.Mul(t.Ratio).RoundCeil(2)
	return out, nil
}

// SetExpenses replaces the deductible expenses used by Lucro Real
type SetExpenses struct {
	Amount decimal.Decimal
}

func (t *SetExpenses) Name() string { return "set_expenses" }

func (t *SetExpenses) Description() string {
	return fmt.Sprintf("Despesas dedutíveis de 12 meses em R$ %s", t.Amount.StringFixed(2))
}

func (t *SetExpenses) Validate(domain.CalculationInput) error {
	if t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetExpenses) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	out.DeductibleExpenses = t.Amount
	return out, nil
}

// SetCreditBase replaces the PIS/COFINS credit base; a nil Amount clears it
type SetCreditBase struct {
	Amount *decimal.Decimal
}

func (t *SetCreditBase) Name() string { return "set_credit_base" }

func (t *SetCreditBase) Description() string {
	if t.Amount == nil {
		return "Remover a base de créditos de PIS/COFINS"
	}
	return fmt.Sprintf("Base de créditos de PIS/COFINS em R$ %s", t.Amount.StringFixed(2))
}

func (t *SetCreditBase) Validate(domain.CalculationInput) error {
	if t.Amount != nil && t.Amount.IsNegative() {
		return NewTransformError(t.Name(), "validate", "amount cannot be negative", nil)
	}
	return nil
}

func (t *SetCreditBase) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	if t.Amount == nil {
		out.CreditBase = nil
		return out, nil
	}
	amount := *t.Amount
	out.CreditBase = &amount
	return out, nil
}

// SetISS replaces the municipal ISS rate; a nil Rate removes ISS
type SetISS struct {
	Rate *decimal.Decimal
}

func (t *SetISS) Name() string { return "set_iss" }

func (t *SetISS) Description() string {
	if t.Rate == nil {
		return "Sem ISS"
	}
	return fmt.Sprintf("ISS de %s%%", t.Rate.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

func (t *SetISS) Validate(base domain.CalculationInput) error {
	if t.Rate == nil {
		return nil
	}
	candidate := base
	candidate.ISSRate = t.Rate
	if err := candidate.ISSCheck(); err != nil {
		return NewTransformError(t.Name(), "validate", "rate out of range", err)
	}
	return nil
}

func (t *SetISS) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	if t.Rate == nil {
		out.ISSRate = nil
		return out, nil
	}
	rate := *t.Rate
	out.ISSRate = &rate
	return out, nil
}

// SetActivity switches the activity and, optionally, the detailed activity code
type SetActivity struct {
	Activity domain.Activity
	Code     string
}

func (t *SetActivity) Name() string { return "set_activity" }

func (t *SetActivity) Description() string {
	if t.Code != "" {
		return fmt.Sprintf("Atividade %s (%s)", t.Activity, t.Code)
	}
	return fmt.Sprintf("Atividade %s", t.Activity)
}

func (t *SetActivity) Validate(domain.CalculationInput) error {
	if !t.Activity.IsValid() {
		return NewTransformError(t.Name(), "validate", fmt.Sprintf("invalid activity %q", t.Activity), nil)
	}
	return nil
}

func (t *SetActivity) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	out.Activity = t.Activity
	out.ActivityDetailed = t.Code
	return out, nil
}

// SetPeriod changes the costed period; explicit period amounts are dropped
type SetPeriod struct {
	Period domain.Period
}

func (t *SetPeriod) Name() string { return "set_period" }

func (t *SetPeriod) Description() string {
	return fmt.Sprintf("Período %s", t.Period)
}

func (t *SetPeriod) Validate(domain.CalculationInput) error {
	if err := t.Period.Validate(); err != nil {
		return NewTransformError(t.Name(), "validate", "invalid period", err)
	}
	return nil
}

func (t *SetPeriod) Apply(base domain.CalculationInput) (domain.CalculationInput, error) {
	out := base
	out.Period = t.Period
	out.PeriodRevenue = nil
	out.PeriodExpenses = nil
	return out, nil
}
