package calculation

import (
	"fmt"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// SimplesCalculator computes the unified DAS payment under Simples Nacional
type SimplesCalculator struct {
	Tables domain.SimplesTables
	Logger Logger
}

// NewSimplesCalculator creates a calculator with the statutory tables
func NewSimplesCalculator() *SimplesCalculator {
	return NewSimplesCalculatorWithConfig(DefaultSimplesTables())
}

// NewSimplesCalculatorWithConfig creates a calculator with custom tables
func NewSimplesCalculatorWithConfig(tables domain.SimplesTables) *SimplesCalculator {
	return &SimplesCalculator{Tables: tables, Logger: NopLogger{}}
}

// SelectAnnex maps the activity (and Fator R for services) to an annex
func (sc *SimplesCalculator) SelectAnnex(activity domain.Activity, factorR decimal.Decimal) (domain.Annex, error) {
	switch activity {
	case domain.ActivityComercio:
		return domain.AnnexI, nil
	case domain.ActivityIndustria:
		return domain.AnnexII, nil
	case domain.ActivityServico:
		if factorR.GreaterThanOrEqual(sc.Tables.FactorRThreshold) {
			return domain.AnnexIII, nil
		}
		return domain.AnnexV, nil
	default:
		return "", &domain.IncompleteInputError{Field: "activity", Reason: "is required"}
	}
}

// EffectiveRate resolves the annex and bracket for input and returns the detail
func (sc *SimplesCalculator) EffectiveRate(input domain.CalculationInput) (*domain.SimplesDetail, error) {
	if input.RBT12.GreaterThan(sc.Tables.Ceiling) {
		return nil, &domain.OutOfRangeError{Field: "rbt12", Value: input.RBT12, Min: decimal.Zero, Max: sc.Tables.Ceiling}
	}
	factorR := input.FactorR()
	annex, err := sc.SelectAnnex(input.Activity, factorR)
	if err != nil {
		return nil, err
	}
	table, err := sc.Tables.Table(annex)
	if err != nil {
		return nil, err
	}
	idx, row, err := table.Resolve(input.RBT12)
	if err != nil {
		return nil, fmt.Errorf("simples bracket: %w", err)
	}
	return &domain.SimplesDetail{
		Annex:         annex,
		Bracket:       idx + 1,
		NominalRate:   row.NominalRate,
		Deduction:     row.Deduction,
		EffectiveRate: row.EffectiveRate(input.RBT12),
		FactorR:       factorR.Round(4),
	}, nil
}

// Calculate returns the DAS due for the input period
func (sc *SimplesCalculator) Calculate(input domain.CalculationInput) (domain.RegimeResult, error) {
	if input.RBT12.IsZero() {
		return domain.RegimeResult{}, &domain.IncompleteInputError{Field: "rbt12", Reason: "must be positive"}
	}
	detail, err := sc.EffectiveRate(input)
	if err != nil {
		return domain.RegimeResult{}, err
	}

	revenue := input.Revenue()
	das := revenue.Mul(detail.EffectiveRate)
	result := domain.NewRegimeResult(domain.RegimeSimples, input.EffectivePeriod(), revenue, []domain.TaxLine{
		{Name: domain.TaxDAS, Amount: das},
	})
	result.Simples = detail
	result.Notes = append(result.Notes, fmt.Sprintf("Anexo %s, faixa %d, alíquota efetiva %s%%",
		detail.Annex, detail.Bracket, detail.EffectiveRate.Mul(decimal.NewFromInt(100)).StringFixed(4)))
	if input.Activity == domain.ActivityServico {
		result.Notes = append(result.Notes, fmt.Sprintf("Fator R %s%%", detail.FactorR.Mul(decimal.NewFromInt(100)).StringFixed(2)))
	}

	sc.Logger.Debugf("simples: rbt12=%s annex=%s bracket=%d factorR=%s rate=%s das=%s",
		input.RBT12.String(), detail.Annex, detail.Bracket, detail.FactorR.String(), detail.EffectiveRate.String(), result.TotalTax.String())
	return result, nil
}
