package scenes

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/tui/tuimsg"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "0"},
		{"1200000", "1200000"},
		{"1200000.50", "1200000.5"},
		{"1.200.000,50", "1200000.5"},
		{"336000,00", "336000"},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in, "x")
		require.NoError(t, err, tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s -> %s", tt.in, got)
	}

	_, err := parseAmount("12a", "RBT12")
	assert.ErrorContains(t, err, "RBT12")
}

func TestFormModel_SetInputAndInput(t *testing.T) {
	iss := decimal.RequireFromString("0.03")
	credits := decimal.NewFromInt(50000)
	original := domain.CalculationInput{
		RBT12:              decimal.NewFromInt(900000),
		Activity:           domain.ActivityServico,
		ActivityDetailed:   "servicos_profissionais",
		Payroll:            decimal.NewFromInt(252000),
		DeductibleExpenses: decimal.NewFromInt(100000),
		CreditBase:         &credits,
		ISSRate:            &iss,
		Period:             domain.Quarterly,
	}

	m := NewFormModel()
	m.SetInput(original)
	got, err := m.Input()
	require.NoError(t, err)

	assert.True(t, original.RBT12.Equal(got.RBT12))
	assert.Equal(t, original.Activity, got.Activity)
	assert.Equal(t, original.ActivityDetailed, got.ActivityDetailed)
	assert.True(t, original.Payroll.Equal(got.Payroll))
	assert.True(t, original.DeductibleExpenses.Equal(got.DeductibleExpenses))
	require.NotNil(t, got.CreditBase)
	assert.True(t, credits.Equal(*got.CreditBase))
	require.NotNil(t, got.ISSRate)
	assert.True(t, iss.Equal(*got.ISSRate))
	assert.Equal(t, domain.Quarterly, got.Period)
}

func TestFormModel_OptionalFieldsBlank(t *testing.T) {
	m := NewFormModel()
	m.SetInput(domain.CalculationInput{RBT12: decimal.NewFromInt(1000), Activity: domain.ActivityComercio})

	got, err := m.Input()
	require.NoError(t, err)
	assert.Nil(t, got.CreditBase)
	assert.Nil(t, got.ISSRate)
	assert.Equal(t, domain.Annual, got.Period)
}

func TestFormModel_DefaultPeriod(t *testing.T) {
	m := NewFormModel()
	m.SetInput(domain.CalculationInput{RBT12: decimal.NewFromInt(1000), Activity: domain.ActivityComercio})
	m.inputs[FieldPeriod].SetValue("")

	got, err := m.Input()
	require.NoError(t, err)
	assert.Equal(t, domain.Annual, got.Period)

	m.SetDefaultPeriod(domain.Quarterly)
	assert.Equal(t, "3", m.inputs[FieldPeriod].Placeholder)
	got, err = m.Input()
	require.NoError(t, err)
	assert.Equal(t, domain.Quarterly, got.Period)

	m.SetDefaultPeriod(domain.Period{Months: 0})
	got, err = m.Input()
	require.NoError(t, err)
	assert.Equal(t, domain.Quarterly, got.Period, "an invalid default is ignored")

	m.inputs[FieldPeriod].SetValue("1")
	got, err = m.Input()
	require.NoError(t, err)
	assert.Equal(t, domain.Monthly, got.Period, "a typed period wins")
}

func TestFormModel_PeriodAmounts(t *testing.T) {
	m := NewFormModel()
	m.SetInput(domain.CalculationInput{RBT12: decimal.NewFromInt(1200000), Activity: domain.ActivityServico})
	assert.Empty(t, m.inputs[FieldPeriodRevenue].Value())

	m.inputs[FieldPeriodRevenue].SetValue("100.000,00")
	m.inputs[FieldPeriodExpenses].SetValue("150000")
	got, err := m.Input()
	require.NoError(t, err)
	require.NotNil(t, got.PeriodRevenue)
	require.NotNil(t, got.PeriodExpenses)
	assert.True(t, decimal.NewFromInt(100000).Equal(*got.PeriodRevenue))
	assert.True(t, decimal.NewFromInt(150000).Equal(*got.PeriodExpenses))

	m.inputs[FieldPeriodExpenses].SetValue("abc")
	_, err = m.Input()
	assert.ErrorContains(t, err, "Despesas do período")
}

func TestFormModel_Navigation(t *testing.T) {
	m := NewFormModel()
	assert.Equal(t, FieldRBT12, m.Focused())
	assert.False(t, m.Editing())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, FieldActivity, m.Focused())
	assert.True(t, m.Editing())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, FieldPeriodExpenses, m.Focused(), "focus wraps around")
}

func TestFormModel_Submit(t *testing.T) {
	m := NewFormModel()
	m.SetInput(domain.CalculationInput{RBT12: decimal.NewFromInt(500000), Activity: domain.ActivityComercio})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg, ok := cmd().(tuimsg.SubmitMsg)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(500000).Equal(msg.Input.RBT12))

	m.SetInput(domain.CalculationInput{RBT12: decimal.NewFromInt(500000), Activity: "agro"})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "unknown activity")
}
