package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/domain"
)

// addInputFlags registers the scenario flags shared by the calculating commands
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "", "Scenario file (YAML or JSON)")
	f.String("rbt12", "", "Gross revenue of the trailing 12 months")
	f.String("activity", "", "Activity: comercio, industria or servico")
	f.String("payroll", "", "Payroll of the trailing 12 months")
	f.String("expenses", "", "Deductible expenses of the trailing 12 months (Lucro Real)")
	f.String("credit-base", "", "PIS/COFINS credit base of the trailing 12 months (Lucro Real)")
	f.String("iss", "", "Municipal ISS rate between 0.02 and 0.05 (Lucro Presumido)")
	f.String("period", "", "Period: mensal, trimestral, anual or a month count")
	f.String("activity-code", "", "Detailed activity code for the presumption percentages")
	f.String("period-revenue", "", "Revenue of the period itself, when it differs from RBT12 scaled")
	f.String("period-expenses", "", "Deductible expenses of the period itself (Lucro Real)")
}

func decimalFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString(name)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: invalid amount %q", name, raw)
	}
	return &d, nil
}

// resolveInput builds the input from --input and the flags; flags win over the file
func resolveInput(cmd *cobra.Command, a *app) (domain.CalculationInput, *config.CompanyInfo, error) {
	var in domain.CalculationInput
	var company *config.CompanyInfo
	parser := config.NewInputParser()

	if path, _ := cmd.Flags().GetString("input"); path != "" {
		scenario, err := parser.LoadFromFile(path)
		if err != nil {
			return in, nil, err
		}
		in = scenario.Input
		company = &scenario.Company
	}

	amounts := []struct {
		flag   string
		target *decimal.Decimal
	}{
		{"rbt12", &in.RBT12},
		{"payroll", &in.Payroll},
		{"expenses", &in.DeductibleExpenses},
	}
	for _, amt := range amounts {
		v, err := decimalFlag(cmd, amt.flag)
		if err != nil {
			return in, nil, err
		}
		if v != nil {
			*amt.target = *v
		}
	}
	optionals := []struct {
		flag   string
		target **decimal.Decimal
	}{
		{"credit-base", &in.CreditBase},
		{"iss", &in.ISSRate},
		{"period-revenue", &in.PeriodRevenue},
		{"period-expenses", &in.PeriodExpenses},
	}
	for _, opt := range optionals {
		v, err := decimalFlag(cmd, opt.flag)
		if err != nil {
			return in, nil, err
		}
		if v != nil {
			*opt.target = v
		}
	}

	if cmd.Flags().Changed("activity") {
		raw, _ := cmd.Flags().GetString("activity")
		in.Activity = domain.Activity(raw)
	}
	if cmd.Flags().Changed("activity-code") {
		in.ActivityDetailed, _ = cmd.Flags().GetString("activity-code")
	}
	if cmd.Flags().Changed("period") {
		raw, _ := cmd.Flags().GetString("period")
		p, err := domain.ParsePeriod(raw)
		if err != nil {
			return in, nil, err
		}
		in.Period = p
	}
	if in.Period.Months == 0 {
		in.Period = domain.Period{Months: a.settings.Calc.PeriodMonths}
	}

	if err := parser.ValidateInput(&in); err != nil {
		return in, nil, err
	}
	return in, company, nil
}

func loadScenario(path string) (*config.ScenarioFile, error) {
	return config.NewInputParser().LoadFromFile(path)
}
