package calculation

import (
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// Cumulative PIS/COFINS rates applied under Lucro Presumido
var (
	PresumidoPISRate    = decimal.NewFromFloat(0.0065)
	PresumidoCOFINSRate = decimal.NewFromFloat(0.03)
)

// PresumidoCalculator computes federal taxes under Lucro Presumido
type PresumidoCalculator struct {
	Registry *domain.ActivityRegistry
	Logger   Logger
}

// NewPresumidoCalculator creates a calculator with the default activity registry
func NewPresumidoCalculator() *PresumidoCalculator {
	return NewPresumidoCalculatorWithConfig(DefaultActivityRegistry())
}

// NewPresumidoCalculatorWithConfig creates a calculator with a custom registry
func NewPresumidoCalculatorWithConfig(registry *domain.ActivityRegistry) *PresumidoCalculator {
	return &PresumidoCalculator{Registry: registry, Logger: NopLogger{}}
}

// Calculate returns IRPJ, adicional, CSLL, PIS, COFINS and optional ISS for the period
func (pc *PresumidoCalculator) Calculate(input domain.CalculationInput) (domain.RegimeResult, error) {
	if input.RBT12.LessThanOrEqual(decimal.Zero) {
		return domain.RegimeResult{}, &domain.IncompleteInputError{Field: "rbt12", Reason: "must be positive"}
	}
	if err := input.ISSCheck(); err != nil {
		return domain.RegimeResult{}, err
	}
	profile, err := pc.Registry.Resolve(input.Activity, input.ActivityDetailed)
	if err != nil {
		return domain.RegimeResult{}, fmt.Errorf("presumido profile: %w", err)
	}

	period := input.EffectivePeriod()
	revenue := input.Revenue()
	presumedIRPJ := revenue.Mul(profile.IRPJPresumptionRate)
	presumedCSLL := revenue.Mul(profile.CSLLPresumptionRate)

	lines := incomeTaxLines(presumedIRPJ, presumedCSLL, period)
	lines = append(lines,
		domain.TaxLine{Name: domain.TaxPIS, Amount: revenue.Mul(PresumidoPISRate)},
		domain.TaxLine{Name: domain.TaxCOFINS, Amount: revenue.Mul(PresumidoCOFINSRate)},
	)
	if input.ISSRate != nil {
		lines = append(lines, domain.TaxLine{Name: domain.TaxISS, Amount: revenue.Mul(*input.ISSRate)})
	}

	result := domain.NewRegimeResult(domain.RegimePresumido, period, revenue, lines)
	result.Presumido = &domain.PresumidoDetail{
		ProfileCode:        profile.Code,
		ProfileName:        profile.Name,
		PresumedProfitIRPJ: presumedIRPJ.Round(2),
		PresumedProfitCSLL: presumedCSLL.Round(2),
		SurchargeThreshold: SurchargeThreshold(period),
	}
	result.Notes = append(result.Notes, fmt.Sprintf("Presunção %s: IRPJ %s%%, CSLL %s%%", profile.Name,
		profile.IRPJPresumptionRate.Mul(decimal.NewFromInt(100)).String(),
		profile.CSLLPresumptionRate.Mul(decimal.NewFromInt(100)).String()))

	pc.Logger.Debugf("presumido: profile=%s presumedIRPJ=%s presumedCSLL=%s total=%s",
		profile.Code, presumedIRPJ.String(), presumedCSLL.String(), result.TotalTax.String())
	return result, nil
}
