package output

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/comparatrib/internal/domain"
)

const (
	pdfMarginLeft  = 15.0
	pdfMarginTop   = 15.0
	pdfMarginRight = 15.0
	pdfPageWidth   = 210.0
	pdfContent     = pdfPageWidth - pdfMarginLeft - pdfMarginRight
)

// PDFExporter writes a one-page comparison report
type PDFExporter struct {
	// Now stamps the report; time.Now when nil
	Now func() time.Time
}

func (PDFExporter) Name() string      { return "pdf" }
func (PDFExporter) Extension() string { return ".pdf" }

// Write renders result into w
func (p PDFExporter) Write(w io.Writer, result *domain.ComparisonResult) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContent, 10, tr("Comparativo de Regimes Tributários"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContent, 6, tr(fmt.Sprintf("Gerado em %s", now().Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	in := result.Input
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContent, 8, tr("Dados da empresa"), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, line := range []string{
		fmt.Sprintf("RBT12: %s", FormatBRL(in.RBT12)),
		fmt.Sprintf("Atividade: %s", in.Activity),
		fmt.Sprintf("Folha de salários (12 meses): %s", FormatBRL(in.Payroll)),
		fmt.Sprintf("Despesas dedutíveis (12 meses): %s", FormatBRL(in.DeductibleExpenses)),
		fmt.Sprintf("Período: %s", result.Period),
	} {
		pdf.CellFormat(pdfContent, 6, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{15, 55, 40, 40, 30}
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"#", "Regime", "Receita", "Tributos", "Alíquota"} {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for i, rr := range result.Ranked() {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			rr.Regime.Label(),
			FormatBRL(rr.Revenue),
			FormatBRL(rr.TotalTax),
			FormatPercent(rr.EffectiveRate),
		}
		fill := rr.Regime == result.BestOption
		for j, c := range cells {
			align := "R"
			if j < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[j], 7, tr(c), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	if result.Savings != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetTextColor(0, 102, 51)
		pdf.MultiCell(pdfContent, 6, tr(fmt.Sprintf("Melhor opção: %s, economia de %s (%s) em relação a %s",
			result.BestOption.Label(), FormatBRL(result.Savings.Amount),
			FormatPercent(result.Savings.Percentage), result.Savings.ComparedWith.Label())), "", "L", false)
		pdf.Ln(2)
	}
	for _, ex := range result.Excluded {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(150, 60, 60)
		pdf.MultiCell(pdfContent, 5, tr(fmt.Sprintf("%s excluído: %s", ex.Regime.Label(), ex.Reason)), "", "L", false)
	}

	pdf.SetTextColor(50, 50, 50)
	for _, rr := range result.Ranked() {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(pdfContent, 6, tr(rr.Regime.Label()), "B", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, line := range rr.Breakdown {
			pdf.CellFormat(pdfContent/2, 5, tr(line.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(pdfContent/2, 5, tr(FormatBRL(line.Amount)), "", 1, "R", false, 0, "")
		}
		for _, note := range rr.Notes {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(pdfContent, 4, tr(note), "", "L", false)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
