package compare

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixedCalculator returns a preset total for one regime
type fixedCalculator struct {
	regime domain.Regime
	total  string
	period domain.Period
	err    error
}

func (f fixedCalculator) Calculate(input domain.CalculationInput) (domain.RegimeResult, error) {
	if f.err != nil {
		return domain.RegimeResult{}, f.err
	}
	period := f.period
	if period.Months == 0 {
		period = input.EffectivePeriod()
	}
	return domain.NewRegimeResult(f.regime, period, input.Revenue(), []domain.TaxLine{
		{Name: "total", Amount: dec(f.total)},
	}), nil
}

func fixedComparator(simples, presumido, lucroReal string) *Comparator {
	return &Comparator{Calculators: map[domain.Regime]Calculator{
		domain.RegimeSimples:   fixedCalculator{regime: domain.RegimeSimples, total: simples},
		domain.RegimePresumido: fixedCalculator{regime: domain.RegimePresumido, total: presumido},
		domain.RegimeReal:      fixedCalculator{regime: domain.RegimeReal, total: lucroReal},
	}}
}

func servicesInput(rbt12 string) domain.CalculationInput {
	return domain.CalculationInput{
		RBT12:    dec(rbt12),
		Activity: domain.ActivityServico,
		Period:   domain.Annual,
	}
}

func TestComparator_ServicesWithoutPayroll(t *testing.T) {
	comparator := NewComparator(calculation.NewEngine())

	result, err := comparator.Compare(context.Background(), servicesInput("1200000"), Options{})
	require.NoError(t, err)

	assert.Equal(t, domain.AnnexV, result.Regimes[domain.RegimeSimples].Simples.Annex)
	assert.Equal(t, "servicos_gerais", result.Regimes[domain.RegimePresumido].Presumido.ProfileCode)
	assert.Equal(t, []domain.Regime{domain.RegimePresumido, domain.RegimeSimples, domain.RegimeReal}, result.Ranking)
	assert.Equal(t, domain.RegimePresumido, result.BestOption)

	require.NotNil(t, result.Savings)
	assert.Equal(t, domain.RegimeSimples, result.Savings.ComparedWith)
	assert.True(t, dec("78540").Equal(result.Savings.Amount), "got %s", result.Savings.Amount)
	assert.True(t, dec("34.31").Equal(result.Savings.Percentage), "got %s", result.Savings.Percentage)

	for _, rr := range result.Regimes {
		assert.Equal(t, domain.Annual, rr.Period, "all regimes share the period")
	}
}

func TestComparator_IncompleteInput(t *testing.T) {
	comparator := NewComparator(calculation.NewEngine())

	_, err := comparator.Compare(context.Background(), servicesInput("0"), Options{})
	assert.True(t, domain.IsIncompleteInput(err))

	input := servicesInput("100000")
	input.Activity = ""
	_, err = comparator.Compare(context.Background(), input, Options{})
	assert.True(t, domain.IsIncompleteInput(err))
}

func TestComparator_InvalidISS(t *testing.T) {
	comparator := NewComparator(calculation.NewEngine())
	input := servicesInput("1200000")
	iss := dec("0.06")
	input.ISSRate = &iss

	result, err := comparator.Compare(context.Background(), input, Options{})
	assert.Nil(t, result)
	assert.True(t, domain.IsInvalidRange(err))
}

func TestComparator_Determinism(t *testing.T) {
	comparator := NewComparator(calculation.NewEngine())
	credit := dec("250000")
	input := domain.CalculationInput{
		RBT12:              dec("2345678.90"),
		Activity:           domain.ActivityIndustria,
		Payroll:            dec("400000"),
		DeductibleExpenses: dec("1500000"),
		CreditBase:         &credit,
		Period:             domain.Quarterly,
	}

	first, err := comparator.Compare(context.Background(), input, Options{})
	require.NoError(t, err)
	second, err := comparator.Compare(context.Background(), input, Options{})
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestComparator_TieBreak(t *testing.T) {
	tests := []struct {
		name      string
		simples   string
		presumido string
		real      string
		ranking   []domain.Regime
	}{
		{"all equal", "100", "100", "100", []domain.Regime{domain.RegimeSimples, domain.RegimePresumido, domain.RegimeReal}},
		{"presumido ties real", "300", "100", "100", []domain.Regime{domain.RegimePresumido, domain.RegimeReal, domain.RegimeSimples}},
		{"simples ties real", "50", "70", "50", []domain.Regime{domain.RegimeSimples, domain.RegimeReal, domain.RegimePresumido}},
		{"strict order", "30", "20", "10", []domain.Regime{domain.RegimeReal, domain.RegimePresumido, domain.RegimeSimples}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := fixedComparator(tt.simples, tt.presumido, tt.real).
				Compare(context.Background(), servicesInput("1000000"), Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.ranking, result.Ranking)
			assert.Equal(t, tt.ranking[0], result.BestOption)
		})
	}
}

func TestComparator_SavingsZeroNextBest(t *testing.T) {
	result, err := fixedComparator("0", "0", "10").Compare(context.Background(), servicesInput("1000000"), Options{})
	require.NoError(t, err)

	require.NotNil(t, result.Savings)
	assert.Equal(t, domain.RegimePresumido, result.Savings.ComparedWith)
	assert.True(t, result.Savings.Amount.IsZero())
	assert.True(t, result.Savings.Percentage.IsZero())
}

func TestComparator_AboveSimplesCeiling(t *testing.T) {
	comparator := NewComparator(calculation.NewEngine())
	input := servicesInput("6000000")

	t.Run("atomic by default", func(t *testing.T) {
		result, err := comparator.Compare(context.Background(), input, Options{})
		assert.Nil(t, result)
		assert.True(t, domain.IsOutOfRange(err))
	})

	t.Run("exclude ineligible", func(t *testing.T) {
		result, err := comparator.Compare(context.Background(), input, Options{ExcludeIneligible: true})
		require.NoError(t, err)

		assert.Len(t, result.Ranking, 2)
		assert.NotContains(t, result.Ranking, domain.RegimeSimples)
		require.Len(t, result.Excluded, 1)
		assert.Equal(t, domain.RegimeSimples, result.Excluded[0].Regime)
		assert.NotNil(t, result.Savings)
	})
}

func TestComparator_OtherErrorsNotExcluded(t *testing.T) {
	comparator := fixedComparator("1", "2", "3")
	comparator.Calculators[domain.RegimeReal] = fixedCalculator{err: errors.New("boom")}

	_, err := comparator.Compare(context.Background(), servicesInput("1000000"), Options{ExcludeIneligible: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "real: boom")
}

func TestComparator_PeriodMismatch(t *testing.T) {
	comparator := fixedComparator("1", "2", "3")
	comparator.Calculators[domain.RegimePresumido] = fixedCalculator{regime: domain.RegimePresumido, total: "2", period: domain.Monthly}

	_, err := comparator.Compare(context.Background(), servicesInput("1000000"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period")
}

func TestComparator_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fixedComparator("1", "2", "3").Compare(ctx, servicesInput("1000000"), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
