package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/breakeven"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
)

func parseRegimePair(s string) (domain.Regime, domain.Regime, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("--between takes two regimes, e.g. simples,presumido")
	}
	a, err := domain.ParseRegime(parts[0])
	if err != nil {
		return "", "", err
	}
	b, err := domain.ParseRegime(parts[1])
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func breakevenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find the RBT12 at which two regimes cost the same",
		Long:  "Bisects RBT12 keeping payroll, expenses and credits proportional to revenue, and reports where the cheaper regime changes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			input, _, err := resolveInput(cmd, a)
			if err != nil {
				return err
			}
			between, _ := cmd.Flags().GetString("between")
			ra, rb, err := parseRegimePair(between)
			if err != nil {
				return err
			}

			opts := breakeven.DefaultSolverOptions()
			if v, err := decimalFlag(cmd, "min"); err != nil {
				return err
			} else if v != nil {
				opts.MinRevenue = *v
			}
			if v, err := decimalFlag(cmd, "max"); err != nil {
				return err
			} else if v != nil {
				opts.MaxRevenue = *v
			}

			solver := breakeven.NewSolver(a.engine, opts)
			result, err := solver.RevenueCrossover(cmd.Context(), input, ra, rb)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format, _ := cmd.Flags().GetString("format"); format == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, out)
				return nil
			}
			fmt.Fprint(w, (&breakeven.TableFormatter{}).Format(result))
			if input.Activity == domain.ActivityServico {
				payroll := breakeven.PayrollForFactorR(input.RBT12, a.engine.Tables.FactorRThreshold)
				fmt.Fprintf(w, "\nFolha de 12 meses para Fator R (Anexo III) com RBT12 %s: %s\n",
					output.FormatBRL(input.RBT12), output.FormatBRL(payroll))
			}
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("between", "simples,presumido", "Two regimes to compare")
	cmd.Flags().String("min", "", "Lowest RBT12 to search")
	cmd.Flags().String("max", "", "Highest RBT12 to search (default: Simples ceiling)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare the regimes across a range of RBT12 values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			input, _, err := resolveInput(cmd, a)
			if err != nil {
				return err
			}

			from, err := decimalFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := decimalFlag(cmd, "to")
			if err != nil {
				return err
			}
			if from == nil {
				v := decimal.NewFromInt(100000)
				from = &v
			}
			if to == nil {
				to = &a.engine.Tables.Ceiling
			}
			steps, _ := cmd.Flags().GetInt("steps")

			points, err := breakeven.NewDefaultSolver(a.engine).Sweep(cmd.Context(), input, *from, *to, steps)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if format, _ := cmd.Flags().GetString("format"); format == "json" {
				out, err := (&breakeven.JSONFormatter{Pretty: true}).Format(points)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, out)
				return nil
			}
			fmt.Fprint(w, (&breakeven.TableFormatter{}).FormatSweep(points))
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("from", "", "First RBT12 of the sweep (default 100000)")
	cmd.Flags().String("to", "", "Last RBT12 of the sweep (default: Simples ceiling)")
	cmd.Flags().Int("steps", 10, "Number of points")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}
