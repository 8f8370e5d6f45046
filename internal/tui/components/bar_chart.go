package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/comparatrib/internal/output"
	"github.com/rgehrsitz/comparatrib/internal/tui/tuistyles"
)

// Bar is one labelled value in a BarChart
type Bar struct {
	Label string
	Value decimal.Decimal
	Color lipgloss.Color
}

// BarChart draws horizontal bars scaled to the largest value
type BarChart struct {
	Title string
	Bars  []Bar
	Width int // width of the longest bar in cells
}

// NewBarChart creates a new chart
func NewBarChart(title string) *BarChart {
	return &BarChart{Title: title, Width: 40}
}

// AddBar appends a bar
func (c *BarChart) AddBar(label string, value decimal.Decimal, color lipgloss.Color) *BarChart {
	c.Bars = append(c.Bars, Bar{Label: label, Value: value, Color: color})
	return c
}

// WithWidth sets the maximum bar length
func (c *BarChart) WithWidth(width int) *BarChart {
	c.Width = width
	return c
}

// Render returns the styled chart
func (c *BarChart) Render() string {
	if len(c.Bars) == 0 {
		return tuistyles.InfoStyle.Render("Sem dados")
	}

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(tuistyles.TableHeaderStyle.Render(c.Title))
		sb.WriteString("\n\n")
	}

	largest := decimal.Zero
	labelWidth := 0
	for _, b := range c.Bars {
		if b.Value.GreaterThan(largest) {
			largest = b.Value
		}
		labelWidth = max(labelWidth, lipgloss.Width(b.Label))
	}

	for _, b := range c.Bars {
		sb.WriteString(fmt.Sprintf("%-*s ", labelWidth, b.Label))
		sb.WriteString(lipgloss.NewStyle().Foreground(b.Color).Render(strings.Repeat("█", c.barLength(b.Value, largest))))
		sb.WriteString(" " + output.FormatBRL(b.Value) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// barLength scales value to the chart width; any positive value gets at least one cell
func (c *BarChart) barLength(value, largest decimal.Decimal) int {
	if !largest.IsPositive() || !value.IsPositive() {
		return 0
	}
	n := int(value.Div(largest).Mul(decimal.NewFromInt(int64(c.Width))).Round(0).IntPart())
	return max(1, n)
}
