package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/compare"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/output"
	"github.com/rgehrsitz/comparatrib/internal/transform"
)

// variant is one what-if scenario evaluated next to the base input
type variant struct {
	name        string
	description string
	result      *domain.ComparisonResult
}

func whatifCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Compare the regimes under what-if adjustments",
		Long: "Applies templates (--with) or ad-hoc transforms (--transform name:key=value) to the input " +
			"and compares the three regimes for the base and for each variant.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			templates := transform.CreateBuiltInTemplates(a.engine.Tables.FactorRThreshold)
			if list, _ := cmd.Flags().GetBool("list"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(templates))
				return nil
			}

			with, _ := cmd.Flags().GetString("with")
			specs, _ := cmd.Flags().GetStringArray("transform")
			names := transform.ParseTemplateList(with)
			if len(names) == 0 && len(specs) == 0 {
				return fmt.Errorf("no adjustments given: use --with or --transform (see --list)")
			}

			base, _, err := resolveInput(cmd, a)
			if err != nil {
				return err
			}

			cmp := compare.NewComparator(a.engine)
			opts := compare.Options{ExcludeIneligible: true}
			evaluate := func(name, description string, in domain.CalculationInput) (variant, error) {
				result, err := cmp.Compare(cmd.Context(), in, opts)
				if err != nil {
					return variant{}, fmt.Errorf("%s: %w", name, err)
				}
				return variant{name: name, description: description, result: result}, nil
			}

			baseline, err := evaluate("base", "Cenário informado", base)
			if err != nil {
				return err
			}
			variants := []variant{baseline}

			for _, name := range names {
				tmpl, ok := templates.Get(name)
				if !ok {
					return fmt.Errorf("unknown template %q (valid: %s)", name, strings.Join(templates.List(), ", "))
				}
				in, err := transform.ApplyTemplate(base, tmpl)
				if err != nil {
					return err
				}
				v, err := evaluate(tmpl.Name, tmpl.Description, in)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			}

			if len(specs) > 0 {
				transforms, err := transform.NewTransformRegistry(a.engine.Tables.FactorRThreshold).ParseAll(specs)
				if err != nil {
					return err
				}
				in, err := transform.ApplyTransforms(base, transforms)
				if err != nil {
					return err
				}
				v, err := evaluate("personalizado", strings.Join(transform.Describe(transforms), "; "), in)
				if err != nil {
					return err
				}
				variants = append(variants, v)
			}

			a.log.Debug("what-if evaluated", "variants", len(variants)-1)
			writeVariants(cmd.OutOrStdout(), variants)
			return nil
		},
	}
	addInputFlags(cmd)
	cmd.Flags().String("with", "", "Comma-separated template names")
	cmd.Flags().StringArray("transform", nil, "Transform spec name:key=value (repeatable, applied in order)")
	cmd.Flags().Bool("list", false, "List the available templates")
	return cmd
}

func writeVariants(w io.Writer, variants []variant) {
	regimes := []domain.Regime{domain.RegimeSimples, domain.RegimePresumido, domain.RegimeReal}
	fmt.Fprintln(w, "SIMULAÇÕES")
	fmt.Fprintln(w, strings.Repeat("=", 104))
	fmt.Fprintf(w, "%-24s %16s %16s %16s %16s  %s\n", "Cenário", "Simples", "Presumido", "Real", "Diferença", "Melhor")
	fmt.Fprintln(w, strings.Repeat("-", 104))

	baseBest := variants[0].result.Best().TotalTax
	for _, v := range variants {
		fmt.Fprintf(w, "%-24s", v.name)
		for _, r := range regimes {
			if res, ok := v.result.Regimes[r]; ok {
				fmt.Fprintf(w, " %16s", output.FormatBRL(res.TotalTax))
			} else {
				fmt.Fprintf(w, " %16s", "-")
			}
		}
		fmt.Fprintf(w, " %16s  %s\n", output.FormatBRL(v.result.Best().TotalTax.Sub(baseBest)), v.result.BestOption.Label())
	}

	fmt.Fprintln(w)
	for _, v := range variants {
		fmt.Fprintf(w, "  • %s: %s\n", v.name, v.description)
	}
}
