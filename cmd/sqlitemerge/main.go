package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tordrt/sqlitemerge/internal/config"
	"github.com/tordrt/sqlitemerge/internal/db"
	"github.com/tordrt/sqlitemerge/internal/formatter"
	"github.com/tordrt/sqlitemerge/internal/logging"
	"github.com/tordrt/sqlitemerge/internal/merge"
)

// Version information (set at build time).
var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sqlitemerge [source-dir]",
		Short: "Merge SQLite database files into one database",
		Long: `sqlitemerge copies every table of every SQLite file in a directory into a single
output database. Each table is renamed <file>_<table>, where <file> is the source
file name without its extension and with hyphens and spaces replaced by underscores.

Files that cannot be read are reported and skipped; the merge always completes.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfgFile, args)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ./sqlitemerge.yaml if present)")
	cmd.Flags().StringP("output", "o", merge.DefaultOutput, "Output database file")
	cmd.Flags().StringP("extension", "e", merge.DefaultExtension, "Extension of source database files")
	cmd.Flags().String("driver", db.DefaultDriver, "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	cmd.Flags().StringP("report", "r", "", "Write a markdown merge report to this file")
	cmd.Flags().Bool("summary", false, "Print a per-table summary after the merge")
	cmd.Flags().Bool("no-color", false, "Disable coloured output")
	cmd.Flags().String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn or error")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "Log format: text or json")

	_ = cmd.RegisterFlagCompletionFunc("driver", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{db.DriverCGO, db.DriverPure}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func run(cmd *cobra.Command, cfgFile string, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.SourceDir = args[0]
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", "path", cfg.ConfigFile)
	}

	m := merge.New(merge.Options{
		Extension: cfg.Extension,
		Driver:    cfg.Driver,
		Logger:    logger,
		Reporter:  formatter.NewTextFormatter(cmd.OutOrStdout(), cfg.NoColor),
	})

	report, err := m.Run(cmd.Context(), cfg.SourceDir, cfg.Output)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if cfg.Summary {
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
		if err := formatter.NewSummaryFormatter(cmd.OutOrStdout()).Format(report); err != nil {
			return fmt.Errorf("failed to format summary: %w", err)
		}
	}

	if cfg.Report != "" {
		if err := writeReport(cfg.Report, report); err != nil {
			return err
		}
		logger.Info("report written", "path", cfg.Report)
	}

	return nil
}

func writeReport(path string, report *merge.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close report file: %v\n", err)
		}
	}()

	if err := formatter.NewMarkdownFormatter(f).Format(report); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
