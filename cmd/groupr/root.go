package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vbonduro/groupr/internal/config"
	"github.com/vbonduro/groupr/internal/logging"
)

// app is what every subcommand needs once flags are parsed.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	cleanup func()
}

type rootOptions struct {
	logLevel  string
	logFormat string
	dbPath    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{cleanup: func() {}}

	cmd := &cobra.Command{
		Use:           "groupr",
		Short:         "Group rating server and tools",
		Long:          `groupr serves the group rating web app and ships the tools used to seed and bulk-load it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.logLevel != "" {
				cfg.LogLevel = opts.logLevel
			}
			if opts.dbPath != "" {
				cfg.DBPath = opts.dbPath
			}
			logger, cleanup, err := logging.New(cfg.LogLevel, opts.logFormat, cfg.LogFile)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg, a.logger, a.cleanup = cfg, logger, cleanup
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.cleanup()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "json", "Log format: json or text")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")

	cmd.AddCommand(newServeCmd(a), newSeedCmd(a), newParseCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
