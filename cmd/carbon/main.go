// Command carbon runs and queries a carbon emission ledger.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xraph/carbon"
)

const version = "v0.1.0"

// app holds what every subcommand needs, built once in PersistentPreRunE.
type app struct {
	configPath string
	backend    string
	logFormat  string
	logLevel   string

	cfg    Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "carbon",
		Short:         "Per-account emission ledger",
		Long:          "carbon records emissions per account and answers total, category and time-window queries.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "carbon.yaml", "Path to YAML config file")
	flags.StringVar(&a.backend, "backend", "", "Store backend (memory|redis|sqlite|postgres|mongo), overrides config")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (text|json), overrides config")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug|info|warn|error), overrides config")

	rootCmd.AddCommand(
		newServeCmd(a),
		newRecordCmd(a),
		newHistoryCmd(a),
		newTotalCmd(a),
		newBreakdownCmd(a),
		newConvertCmd(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := LoadConfig(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Store.Backend = a.backend
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	return nil
}

// openLedger opens the store and starts a ledger on it. The caller must
// call Stop.
func (a *app) openLedger(ctx context.Context, opts ...carbon.Option) (*carbon.Ledger, error) {
	s, err := a.cfg.OpenStore(ctx)
	if err != nil {
		return nil, err
	}

	l := carbon.New(s, append([]carbon.Option{carbon.WithLogger(a.logger)}, opts...)...)
	if err := l.Start(ctx); err != nil {
		_ = s.Close() //nolint:errcheck // start error is more useful
		return nil, err
	}
	return l, nil
}

func (a *app) stopLedger(l *carbon.Ledger) {
	if err := l.Stop(); err != nil {
		a.logger.Warn("failed to stop ledger", "error", err)
	}
}
