package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/tui/tuimsg"
	"github.com/rgehrsitz/comparatrib/internal/tui/tuistyles"
)

// Form field indexes
const (
	FieldRBT12 = iota
	FieldActivity
	FieldPayroll
	FieldExpenses
	FieldCreditBase
	FieldPeriod
	FieldActivityCode
	FieldISS
	FieldPeriodRevenue
	FieldPeriodExpenses
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"RBT12 (R$)",
	"Atividade",
	"Folha 12 meses (R$)",
	"Despesas dedutíveis (R$)",
	"Base de créditos (R$)",
	"Período (meses)",
	"Código da atividade",
	"ISS (ex.: 0.05)",
	"Receita do período (R$)",
	"Despesas do período (R$)",
}

// FormModel is the input form scene
type FormModel struct {
	inputs        []textinput.Model
	focus         int
	defaultPeriod domain.Period
	err           error
	width         int
	height        int
}

// NewFormModel creates the form with the RBT12 field focused
func NewFormModel() *FormModel {
	m := &FormModel{inputs: make([]textinput.Model, fieldCount), defaultPeriod: domain.Annual}
	placeholders := [fieldCount]string{
		"ex.: 1200000",
		"comercio, industria ou servico",
		"0",
		"0",
		"opcional",
		"12",
		"opcional, ex.: servicos_profissionais",
		"opcional",
		"opcional, padrão: RBT12 proporcional",
		"opcional, padrão: despesas proporcionais",
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 40
		ti.Width = 40
		m.inputs[i] = ti
	}
	m.inputs[FieldRBT12].Focus()
	return m
}

// SetDefaultPeriod sets the period used when the period field is blank
func (m *FormModel) SetDefaultPeriod(p domain.Period) {
	if p.Validate() != nil {
		return
	}
	m.defaultPeriod = p
	m.inputs[FieldPeriod].Placeholder = strconv.Itoa(p.Months)
}

// SetSize updates the scene dimensions
func (m *FormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetInput fills the fields from a saved input
func (m *FormModel) SetInput(in domain.CalculationInput) {
	m.inputs[FieldRBT12].SetValue(in.RBT12.String())
	m.inputs[FieldActivity].SetValue(string(in.Activity))
	m.inputs[FieldPayroll].SetValue(in.Payroll.String())
	m.inputs[FieldExpenses].SetValue(in.DeductibleExpenses.String())
	m.inputs[FieldCreditBase].SetValue(optional(in.CreditBase))
	m.inputs[FieldPeriod].SetValue(strconv.Itoa(in.EffectivePeriod().Months))
	m.inputs[FieldActivityCode].SetValue(in.ActivityDetailed)
	m.inputs[FieldISS].SetValue(optional(in.ISSRate))
	m.inputs[FieldPeriodRevenue].SetValue(optional(in.PeriodRevenue))
	m.inputs[FieldPeriodExpenses].SetValue(optional(in.PeriodExpenses))
}

func optional(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

// Editing reports whether the focused field takes free text, so letter keys belong to it
func (m *FormModel) Editing() bool {
	return m.focus == FieldActivity || m.focus == FieldActivityCode
}

// Focused returns the index of the focused field
func (m *FormModel) Focused() int {
	return m.focus
}

// Input parses the fields into a calculation input. Blank numeric fields are zero,
// blank optional fields are unset and a blank period is the default period.
func (m *FormModel) Input() (domain.CalculationInput, error) {
	var in domain.CalculationInput
	var err error

	if in.RBT12, err = parseAmount(m.value(FieldRBT12), fieldLabels[FieldRBT12]); err != nil {
		return in, err
	}
	if v := m.value(FieldActivity); v != "" {
		if in.Activity, err = domain.ParseActivity(v); err != nil {
			return in, err
		}
	}
	if in.Payroll, err = parseAmount(m.value(FieldPayroll), fieldLabels[FieldPayroll]); err != nil {
		return in, err
	}
	if in.DeductibleExpenses, err = parseAmount(m.value(FieldExpenses), fieldLabels[FieldExpenses]); err != nil {
		return in, err
	}
	if in.CreditBase, err = parseOptional(m.value(FieldCreditBase), fieldLabels[FieldCreditBase]); err != nil {
		return in, err
	}
	in.Period = m.defaultPeriod
	if v := m.value(FieldPeriod); v != "" {
		if in.Period, err = domain.ParsePeriod(v); err != nil {
			return in, err
		}
	}
	in.ActivityDetailed = m.value(FieldActivityCode)
	if in.ISSRate, err = parseOptional(m.value(FieldISS), fieldLabels[FieldISS]); err != nil {
		return in, err
	}
	if in.PeriodRevenue, err = parseOptional(m.value(FieldPeriodRevenue), fieldLabels[FieldPeriodRevenue]); err != nil {
		return in, err
	}
	if in.PeriodExpenses, err = parseOptional(m.value(FieldPeriodExpenses), fieldLabels[FieldPeriodExpenses]); err != nil {
		return in, err
	}
	return in, nil
}

func (m *FormModel) value(i int) string {
	return strings.TrimSpace(m.inputs[i].Value())
}

// parseAmount accepts "1200000", "1200000.50" and the Brazilian "1.200.000,50"
func parseAmount(s, label string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: valor inválido %q", label, s)
	}
	return d, nil
}

func parseOptional(s, label string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseAmount(s, label)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Update handles messages for the form
func (m *FormModel) Update(msg tea.Msg) (*FormModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "tab"))):
			m.setFocus((m.focus + 1) % fieldCount)
			return m, textinput.Blink

		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "shift+tab"))):
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, textinput.Blink

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			in, err := m.Input()
			if err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			return m, func() tea.Msg { return tuimsg.SubmitMsg{Input: in} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *FormModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// View renders the form
func (m *FormModel) View() string {
	rows := make([]string, 0, fieldCount+2)
	for i, in := range m.inputs {
		label := tuistyles.FieldLabelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = tuistyles.FocusedFieldLabelStyle.Render(fieldLabels[i])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label, in.View()))
	}
	if m.err != nil {
		rows = append(rows, "", tuistyles.ErrorStyle.Render(m.err.Error()))
	}
	rows = append(rows, "", tuistyles.HelpDescStyle.Render("tab/↓ próximo • shift+tab/↑ anterior • enter calcular"))

	return tuistyles.ActiveBorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
