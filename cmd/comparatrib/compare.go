package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
	"github.com/rgehrsitz/comparatrib/internal/store"
)

// renderComparison writes result in the requested format
func renderComparison(w io.Writer, result *domain.ComparisonResult, format string, detailed bool) error {
	switch strings.ToLower(format) {
	case "table", "console", "":
		tf := &compare.TableFormatter{Detailed: detailed}
		_, err := fmt.Fprint(w, tf.Format(result))
		return err
	case "csv":
		out, err := (&compare.CSVFormatter{}).Format(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	case "json":
		out, err := (&compare.JSONFormatter{Pretty: true}).Format(result)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	default:
		return fmt.Errorf("unsupported format: %s (valid: table, csv, json)", format)
	}
}

// saveSession stores the run; failures are logged, not returned
func saveSession(ctx context.Context, a *app, input domain.CalculationInput, result *domain.ComparisonResult) {
	st, err := store.Open(ctx, a.settings)
	if err != nil {
		a.log.Warn("session store unavailable", "err", err)
		return
	}
	defer func() { _ = st.Close() }()
	if err := st.Save(ctx, &store.AppState{Input: input, Result: result}); err != nil {
		a.log.Warn("failed to save session", "err", err)
		return
	}
	a.log.Debug("session saved", "driver", a.settings.Store.Driver)
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the three regimes for one company",
		Long:  "Calculates Simples Nacional, Lucro Presumido and Lucro Real over the same period, ranks them and shows the savings of the best option.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			input, company, err := resolveInput(cmd, a)
			if err != nil {
				return err
			}

			exclude, _ := cmd.Flags().GetBool("exclude-ineligible")
			result, err := compare.NewComparator(a.engine).Compare(cmd.Context(), input, compare.Options{ExcludeIneligible: exclude})
			if err != nil {
				return err
			}

			if company != nil && company.Name != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Empresa: %s\n", company.Name)
			}
			format, _ := cmd.Flags().GetString("format")
			detailed, _ := cmd.Flags().GetBool("detailed")
			if err := renderComparison(cmd.OutOrStdout(), result, format, detailed); err != nil {
				return err
			}

			if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
				saveSession(cmd.Context(), a, input, result)
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format: table, csv, json")
	cmd.Flags().BoolP("detailed", "d", false, "Show the per-tax breakdown")
	cmd.Flags().Bool("exclude-ineligible", false, "Drop Simples Nacional above its ceiling instead of failing")
	cmd.Flags().Bool("no-save", false, "Do not save this run as the session")
	return cmd
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "calculate <regime>",
		Short:     "Calculate a single regime",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"simples", "presumido", "real"},
		RunE: func(cmd *cobra.Command, args []string) error {
			regime, err := domain.ParseRegime(args[0])
			if err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			input, _, err := resolveInput(cmd, a)
			if err != nil {
				return err
			}
			result, err := a.engine.Calculate(regime, input)
			if err != nil {
				return err
			}

			if format, _ := cmd.Flags().GetString("format"); format == "json" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			writeRegimeResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func writeRegimeResult(w io.Writer, result domain.RegimeResult) {
	fmt.Fprintf(w, "%s (%s)\n", strings.ToUpper(result.Regime.Label()), result.Period)
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "%-22s %20s\n", "Receita do período", output.FormatBRL(result.Revenue))
	for _, line := range result.Breakdown {
		fmt.Fprintf(w, "%-22s %20s\n", line.Name, output.FormatBRL(line.Amount))
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-22s %20s\n", "Total", output.FormatBRL(result.TotalTax))
	fmt.Fprintf(w, "%-22s %20s\n", "Alíquota efetiva", output.FormatPercent(result.EffectiveRate))
	for _, note := range result.Notes {
		fmt.Fprintf(w, "  • %s\n", note)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario-file>",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cenário %s válido (RBT12 %s, atividade %s)\n",
				args[0], output.FormatBRL(scenario.Input.RBT12), scenario.Input.Activity)
			return nil
		},
	}
}
