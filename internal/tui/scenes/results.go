package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
	"github.com/rgehrsitz/comparatrib/internal/tui/components"
	"github.com/rgehrsitz/comparatrib/internal/tui/tuistyles"
)

var regimeColors = map[domain.Regime]lipgloss.Color{
	domain.RegimeSimples:   tuistyles.ColorPrimary,
	domain.RegimePresumido: tuistyles.ColorSecondary,
	domain.RegimeReal:      tuistyles.ColorAccent,
}

// ResultsModel represents the results display scene
type ResultsModel struct {
	result *domain.ComparisonResult
	width  int
	height int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{}
}

// SetResult updates the comparison to display
func (m *ResultsModel) SetResult(result *domain.ComparisonResult) {
	m.result = result
}

// Result returns the comparison on display
func (m *ResultsModel) Result() *domain.ComparisonResult {
	return m.result
}

// SetSize updates the scene dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	// read-only
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.result == nil {
		return tuistyles.BorderStyle.Render("Nenhum cálculo ainda.\n\nPreencha o formulário e pressione enter.")
	}

	cards := make([]*components.MetricCard, 0, len(m.result.Ranking))
	chart := components.NewBarChart("Total de tributos (" + m.result.Period.String() + ")")
	for _, regime := range m.result.Ranking {
		cards = append(cards, components.NewRegimeCard(m.result, regime))
		chart.AddBar(regime.Label(), m.result.Regimes[regime].TotalTax, regimeColors[regime])
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderResultsHeader(m.result),
		"",
		components.MetricGrid(cards, 3),
		"",
		chart.Render(),
		"",
		renderBreakdown(m.result),
		"",
		tuistyles.HelpDescStyle.Render("esc voltar ao formulário"),
	)
}

func renderResultsHeader(result *domain.ComparisonResult) string {
	lines := []string{
		tuistyles.TableHighlightStyle.Render("Melhor opção: " + result.BestOption.Label()),
	}
	if result.Savings != nil {
		lines = append(lines, fmt.Sprintf("Economia de %s (%s) em relação a %s",
			output.FormatBRL(result.Savings.Amount),
			output.FormatPercent(result.Savings.Percentage),
			result.Savings.ComparedWith.Label()))
	}
	for _, ex := range result.Excluded {
		lines = append(lines, tuistyles.InfoStyle.Render(fmt.Sprintf("%s excluído: %s", ex.Regime.Label(), ex.Reason)))
	}
	return strings.Join(lines, "\n")
}

func renderBreakdown(result *domain.ComparisonResult) string {
	var sb strings.Builder
	sb.WriteString(tuistyles.TableHeaderStyle.Render(fmt.Sprintf("%-18s %-14s %18s", "Regime", "Tributo", "Valor")))
	for _, regime := range result.Ranking {
		for _, line := range result.Regimes[regime].Breakdown {
			sb.WriteString(fmt.Sprintf("\n%-18s %-14s %18s", regime.Label(), line.Name, output.FormatBRL(line.Amount)))
		}
	}
	return sb.String()
}
