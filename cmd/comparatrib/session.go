package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/output"
	"github.com/rgehrsitz/comparatrib/internal/store"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear the saved session",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the last saved comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), a.settings)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			state, err := st.Load(cmd.Context())
			if errors.Is(err, store.ErrNoSession) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nenhuma sessão salva")
				return nil
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sessão salva em %s\n", state.SavedAt.Local().Format("02/01/2006 15:04"))
			fmt.Fprintf(w, "RBT12 %s, atividade %s, período %s\n\n",
				output.FormatBRL(state.Input.RBT12), state.Input.Activity, state.Input.EffectivePeriod())
			if state.Result == nil {
				return nil
			}
			format, _ := cmd.Flags().GetString("format")
			return renderComparison(w, state.Result, format, false)
		},
	}
	show.Flags().StringP("format", "f", "table", "Output format: table, csv, json")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), a.settings)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()
			if err := st.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Sessão removida")
			return nil
		},
	}

	cmd.AddCommand(show, clearCmd)
	return cmd
}
