package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234.567,89"
func FormatBRL(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var sb strings.Builder
	if amount.Round(2).IsNegative() {
		sb.WriteString("-")
	}
	sb.WriteString("R$ ")
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(ch)
	}
	sb.WriteByte(',')
	sb.WriteString(frac)
	return sb.String()
}

// FormatPercent formats a value already expressed in percent, e.g. "19,08%"
func FormatPercent(pct decimal.Decimal) string {
	return strings.Replace(pct.StringFixed(2), ".", ",", 1) + "%"
}

// FormatRate formats a fraction (0.19075) as a percent with four places
func FormatRate(rate decimal.Decimal) string {
	return strings.Replace(rate.Mul(decimal.NewFromInt(100)).StringFixed(4), ".", ",", 1) + "%"
}

// Exporter writes a comparison as a document
type Exporter interface {
	Name() string
	Extension() string
	Write(w io.Writer, result *domain.ComparisonResult) error
}

// ExporterFor returns the exporter for a format name
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "xlsx", "excel":
		return XLSXExporter{}, nil
	case "pdf":
		return PDFExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (valid: xlsx, pdf)", format)
	}
}
