package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/comparatrib/internal/calculation"
	"github.com/rgehrsitz/comparatrib/internal/config"
	"github.com/rgehrsitz/comparatrib/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app is what every command needs once flags are parsed
type app struct {
	settings config.Settings
	log      *slog.Logger
	engine   *calculation.Engine
}

// loadApp reads settings, builds the logger and the engine over the configured tables
func loadApp(cmd *cobra.Command) (*app, error) {
	settingsPath, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		settings.Log.Level, _ = cmd.Flags().GetString("log-level")
	}

	log := logging.New(settings.Log.Level, settings.Log.Format, cmd.ErrOrStderr())

	tablesPath := settings.Calc.Tables
	if cmd.Flags().Changed("tables") {
		tablesPath, _ = cmd.Flags().GetString("tables")
	}
	tables, registry, err := config.LoadTables(tablesPath)
	if err != nil {
		return nil, err
	}
	if tablesPath != "" {
		log.Info("using custom tables", "path", tablesPath)
	}

	engine := calculation.NewEngineWithConfig(tables, registry)
	engine.SetLogger(logging.NewAdapter(log))
	return &app{settings: settings, log: log, engine: engine}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "comparatrib %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "comparatrib",
		Short:         "Comparativo de regimes tributários",
		Long:          "Compara Simples Nacional, Lucro Presumido e Lucro Real para uma empresa e aponta o regime mais barato.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Settings file (YAML); environment COMPARATRIB_* overrides")
	root.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("tables", "", "Regulatory tables override file")

	root.AddCommand(
		compareCmd(),
		whatifCmd(),
		calculateCmd(),
		validateCmd(),
		activitiesCmd(),
		tablesCmd(),
		breakevenCmd(),
		sweepCmd(),
		exportCmd(),
		serveCmd(),
		sessionCmd(),
		versionCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
