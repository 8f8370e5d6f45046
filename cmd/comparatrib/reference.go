package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/output"
)

func activitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activities",
		Short: "List the activity profiles and their presumption percentages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			groups := a.engine.Registry.ByCategory()
			w := cmd.OutOrStdout()

			if format, _ := cmd.Flags().GetString("format"); format == "json" {
				data, err := json.MarshalIndent(groups, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(data))
				return nil
			}

			for _, g := range groups {
				fmt.Fprintf(w, "%s\n", strings.ToUpper(g.Category.Name))
				for _, p := range g.Activities {
					fmt.Fprintf(w, "  %-26s %-44s IRPJ %7s  CSLL %7s\n", p.Code, p.Name,
						output.FormatRate(p.IRPJPresumptionRate), output.FormatRate(p.CSLLPresumptionRate))
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json")
	return cmd
}

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Show the Simples Nacional annex tables in use",
		Long:  "Prints the annex tables in use. With --write, dumps the tables and activity registry as an override file to edit and pass back with --tables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("write"); path != "" {
				if err := config.WriteTables(path, a.engine.Tables, a.engine.Registry); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tabelas gravadas em %s\n", path)
				return nil
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Teto do Simples: %s   Fator R: %s\n\n",
				output.FormatBRL(a.engine.Tables.Ceiling), output.FormatRate(a.engine.Tables.FactorRThreshold))
			for _, table := range a.engine.Tables.SortedAnnexes() {
				fmt.Fprintf(w, "Anexo %s - %s\n", table.Annex, table.Name)
				for i, row := range table.Rows {
					upper := "-"
					if row.MaxRevenue != nil {
						upper = output.FormatBRL(*row.MaxRevenue)
					}
					fmt.Fprintf(w, "  %d  %18s  %18s  %9s  %16s\n", i+1,
						output.FormatBRL(row.MinRevenue), upper, output.FormatRate(row.NominalRate), output.FormatBRL(row.Deduction))
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().String("write", "", "Write the tables in use to this YAML file")
	return cmd
}
