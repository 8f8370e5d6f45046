package output

import (
	"fmt"
	"io"

	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Sheet names used by XLSXExporter
const (
	SummarySheet   = "Summary"
	BreakdownSheet = "Breakdown"
)

// XLSXExporter writes a comparison as an Excel workbook with a summary sheet
// (one row per regime, in ranking order) and a breakdown sheet (one row per tax line)
type XLSXExporter struct{}

func (XLSXExporter) Name() string      { return "xlsx" }
func (XLSXExporter) Extension() string { return ".xlsx" }

// Write renders result into w
func (x XLSXExporter) Write(w io.Writer, result *domain.ComparisonResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(BreakdownSheet); err != nil {
		return fmt.Errorf("create breakdown sheet: %w", err)
	}

	if err := x.writeSummary(f, result); err != nil {
		return err
	}
	if err := x.writeBreakdown(f, result); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func (x XLSXExporter) writeSummary(f *excelize.File, result *domain.ComparisonResult) error {
	header := []interface{}{"Posição", "Regime", "Receita do período", "Total de tributos", "Alíquota efetiva (%)", "Melhor opção"}
	if err := f.SetSheetRow(SummarySheet, "A1", &header); err != nil {
		return fmt.Errorf("summary header: %w", err)
	}

	row := 2
	for i, rr := range result.Ranked() {
		best := ""
		if rr.Regime == result.BestOption {
			best = "sim"
		}
		values := []interface{}{
			i + 1,
			rr.Regime.Label(),
			rr.Revenue.InexactFloat64(),
			rr.TotalTax.InexactFloat64(),
			rr.EffectiveRate.InexactFloat64(),
			best,
		}
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
		row++
	}
	for _, ex := range result.Excluded {
		values := []interface{}{"-", ex.Regime.Label(), "", "", "", ex.Reason}
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
		row++
	}

	if result.Savings != nil {
		row++
		values := []interface{}{"Economia", "vs " + result.Savings.ComparedWith.Label(),
			"", result.Savings.Amount.InexactFloat64(), result.Savings.Percentage.InexactFloat64()}
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "F", 22)
}

func (x XLSXExporter) writeBreakdown(f *excelize.File, result *domain.ComparisonResult) error {
	header := []interface{}{"Regime", "Tributo", "Valor"}
	if err := f.SetSheetRow(BreakdownSheet, "A1", &header); err != nil {
		return fmt.Errorf("breakdown header: %w", err)
	}

	row := 2
	for _, rr := range result.Ranked() {
		for _, line := range rr.Breakdown {
			values := []interface{}{rr.Regime.Label(), line.Name, line.Amount.InexactFloat64()}
			if err := setRow(f, BreakdownSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(BreakdownSheet, "A", "C", 20)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
