package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/domain"
	"github.com/rgehrsitz/comparatrib/internal/logging"
	"github.com/rgehrsitz/comparatrib/internal/store"
	"github.com/rgehrsitz/comparatrib/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "comparatrib-tui",
		Short:         "Interactive comparison of Brazilian tax regimes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settingsPath, _ := cmd.Flags().GetString("config")
			logPath, _ := cmd.Flags().GetString("log")

			settings, err := config.LoadSettings(settingsPath)
			if err != nil {
				return err
			}

			// the terminal belongs to the UI
			var logOut io.Writer = io.Discard
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logOut = f
			}
			log := logging.New(settings.Log.Level, settings.Log.Format, logOut)

			tables, registry, err := config.LoadTables(settings.Calc.Tables)
			if err != nil {
				return err
			}
			engine := calculation.NewEngineWithConfig(tables, registry)
			engine.SetLogger(logging.NewAdapter(log))

			st, err := store.Open(cmd.Context(), settings)
			if err != nil {
				log.Warn("session store unavailable, continuing without it", "err", err)
				st = store.NopStore{}
			}
			defer func() { _ = st.Close() }()

			model := tui.NewModel(engine, st).
				WithDefaultPeriod(domain.Period{Months: settings.Calc.PeriodMonths})
			p := tea.NewProgram(model, tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("config", "", "Settings file (YAML); environment COMPARATRIB_* overrides")
	cmd.Flags().String("log", "", "Write logs to this file")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
