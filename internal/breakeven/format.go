package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
)

// TableFormatter formats break-even results as console tables
type TableFormatter struct{}

// Format generates a summary of a crossover search
func (tf *TableFormatter) Format(result *Crossover) string {
	var sb strings.Builder

	sb.WriteString("PONTO DE EQUILÍBRIO ENTRE REGIMES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Regimes:     %s x %s\n", result.RegimeA.Label(), result.RegimeB.Label()))
	sb.WriteString(fmt.Sprintf("Status:      %s\n", tf.formatStatus(result.Found)))
	sb.WriteString(fmt.Sprintf("Iterações:   %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergência: %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if result.Found {
		sb.WriteString(fmt.Sprintf("RBT12 de equilíbrio: %s\n", output.FormatBRL(result.Revenue)))
		sb.WriteString(fmt.Sprintf("%-20s %s\n", result.RegimeA.Label()+":", output.FormatBRL(result.TotalA)))
		sb.WriteString(fmt.Sprintf("%-20s %s\n", result.RegimeB.Label()+":", output.FormatBRL(result.TotalB)))
		if result.CheaperBelow != "" {
			sb.WriteString(fmt.Sprintf("\nAbaixo desse faturamento, %s é mais barato.\n", result.CheaperBelow.Label()))
		}
	}

	return sb.String()
}

// FormatSweep renders one line per sweep point
func (tf *TableFormatter) FormatSweep(points []SweepPoint) string {
	var sb strings.Builder

	sb.WriteString("VARREDURA DE FATURAMENTO\n")
	sb.WriteString(strings.Repeat("=", 90) + "\n")
	sb.WriteString(fmt.Sprintf("%18s %18s %18s %18s  %s\n", "RBT12", "Simples", "Presumido", "Real", "Melhor"))
	sb.WriteString(strings.Repeat("-", 90) + "\n")

	for _, p := range points {
		cells := make([]string, 0, len(domain.AllRegimes))
		for _, r := range domain.AllRegimes {
			total, ok := p.Totals[r]
			if !ok {
				cells = append(cells, "-")
				continue
			}
			cells = append(cells, output.FormatBRL(total))
		}
		sb.WriteString(fmt.Sprintf("%18s %18s %18s %18s  %s\n",
			output.FormatBRL(p.Revenue), cells[0], cells[1], cells[2], p.Best.Label()))
	}

	return sb.String()
}

func (tf *TableFormatter) formatStatus(found bool) string {
	if found {
		return "✓ Encontrado"
	}
	return "⚠ Sem cruzamento no intervalo"
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any break-even result
func (jf *JSONFormatter) Format(result interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}
