package calculation

import (
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// Federal income tax rates shared by Lucro Presumido and Lucro Real
var (
	IRPJRate             = decimal.NewFromFloat(0.15)
	IRPJSurchargeRate    = decimal.NewFromFloat(0.10)
	IRPJMonthlyAllowance = decimal.NewFromInt(20000)
	CSLLRate             = decimal.NewFromFloat(0.09)
)

// SurchargeThreshold is the profit exempt from the IRPJ adicional over period
func SurchargeThreshold(period domain.Period) decimal.Decimal {
	return IRPJMonthlyAllowance.Mul(decimal.NewFromInt(int64(period.Months)))
}

// IRPJSurcharge is 10% of the base that exceeds R$ 20,000 per month of the period
func IRPJSurcharge(base decimal.Decimal, period domain.Period) decimal.Decimal {
	excess := base.Sub(SurchargeThreshold(period))
	if excess.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return excess.Mul(IRPJSurchargeRate)
}

// incomeTaxLines builds IRPJ, IRPJ adicional and CSLL for the given bases
func incomeTaxLines(irpjBase, csllBase decimal.Decimal, period domain.Period) []domain.TaxLine {
	return []domain.TaxLine{
		{Name: domain.TaxIRPJ, Amount: irpjBase.Mul(IRPJRate)},
		{Name: domain.TaxIRPJAdicional, Amount: IRPJSurcharge(irpjBase, period)},
		{Name: domain.TaxCSLL, Amount: csllBase.Mul(CSLLRate)},
	}
}
