package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct {
	// Detailed adds the per-tax breakdown and notes of each regime
	Detailed bool
}

// Format generates a formatted table ranking the regimes
func (tf *TableFormatter) Format(result *domain.ComparisonResult) string {
	var sb strings.Builder

	sb.WriteString("COMPARATIVO DE REGIMES TRIBUTÁRIOS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("RBT12: %s   Atividade: %s   Período: %s\n",
		output.FormatBRL(result.Input.RBT12), result.Input.Activity, result.Period))
	sb.WriteString("\n")

	nameWidth := 20
	numWidth := 18

	sb.WriteString(fmt.Sprintf("%-4s %-*s %*s %*s %*s\n",
		"#",
		nameWidth, "Regime",
		numWidth, "Receita",
		numWidth, "Tributos",
		numWidth, "Alíquota"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for i, rr := range result.Ranked() {
		marker := ""
		if rr.Regime == result.BestOption {
			marker = " *"
		}
		sb.WriteString(fmt.Sprintf("%-4d %-*s %*s %*s %*s%s\n",
			i+1,
			nameWidth, rr.Regime.Label(),
			numWidth, output.FormatBRL(rr.Revenue),
			numWidth, output.FormatBRL(rr.TotalTax),
			numWidth, output.FormatPercent(rr.EffectiveRate),
			marker))
	}
	for _, ex := range result.Excluded {
		sb.WriteString(fmt.Sprintf("%-4s %-*s excluído: %s\n", "-", nameWidth, ex.Regime.Label(), ex.Reason))
	}
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("\nMelhor opção: %s\n", result.BestOption.Label()))
	if result.Savings != nil {
		sb.WriteString(fmt.Sprintf("Economia de %s (%s) em relação a %s\n",
			output.FormatBRL(result.Savings.Amount),
			output.FormatPercent(result.Savings.Percentage),
			result.Savings.ComparedWith.Label()))
	}

	if tf.Detailed {
		for _, rr := range result.Ranked() {
			sb.WriteString(fmt.Sprintf("\n%s\n", rr.Regime.Label()))
			sb.WriteString(strings.Repeat("-", 40) + "\n")
			for _, line := range rr.Breakdown {
				sb.WriteString(fmt.Sprintf("  %-20s %*s\n", line.Name, numWidth, output.FormatBRL(line.Amount)))
			}
			for _, note := range rr.Notes {
				sb.WriteString(fmt.Sprintf("  - %s\n", note))
			}
		}
	}

	return sb.String()
}
