package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/output"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the comparison as a spreadsheet or PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			exporter, err := output.ExporterFor(format)
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
			result, err := compare.NewComparator(a.engine).Compare(cmd.Context(), input, compare.Options{ExcludeIneligible: true})
			if err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("output")
			if path == "" {
				path = "comparativo" + exporter.Extension()
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Write(f, result); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.log.Info("report exported", "format", exporter.Name(), "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Relatório gravado em %s\n", path)
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().StringP("format", "f", "xlsx", "Export format: xlsx, pdf")
	cmd.Flags().StringP("output", "o", "", "Output file (default comparativo.<ext>)")
	return cmd
}
