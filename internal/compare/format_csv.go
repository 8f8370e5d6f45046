package compare

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// CSVFormatter formats comparison results as CSV, one row per tax line
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(result *domain.ComparisonResult) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"rank",
		"regime",
		"tax",
		"amount",
		"total_tax",
		"effective_rate",
		"best",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	for i, rr := range result.Ranked() {
		for _, line := range rr.Breakdown {
			row := []string{
				formatInt(i + 1),
				string(rr.Regime),
				line.Name,
				line.Amount.StringFixed(2),
				rr.TotalTax.StringFixed(2),
				rr.EffectiveRate.StringFixed(4),
				fmt.Sprintf("%t", rr.Regime == result.BestOption),
			}
			if err := writer.Write(row); err != nil {
				return "", err
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
