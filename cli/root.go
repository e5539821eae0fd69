// Package cli wires the dashboard commands: import, stats, montecarlo,
// snapshots.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/EkantikCapitalAdvisors/Dashboard/config"
	"github.com/EkantikCapitalAdvisors/Dashboard/journal"
	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/store"
)

// RootConfig carries the global flags plus the loaded configuration and
// logger into every subcommand.
type RootConfig struct {
	ConfigPath string
	DBPath     string
	LogLevel   string

	Cfg *config.Config
	Log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:           "dashboard",
		Short:         "Ekantik performance dashboard: trade ingestion and analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (optional)")
	cmd.PersistentFlags().StringVar(&rc.DBPath, "db", "", "SQLite journal database (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "info", "Log level: debug|info|warn|error")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		log, err := newLogger(rc.LogLevel)
		if err != nil {
			return err
		}
		rc.Log = log

		if rc.ConfigPath != "" {
			cfg, err := config.LoadFromFile(rc.ConfigPath)
			if err != nil {
				return err
			}
			rc.Cfg = cfg
		} else {
			rc.Cfg = config.Default()
		}
		if rc.DBPath != "" {
			rc.Cfg.Journal.DBPath = rc.DBPath
		}
		return nil
	}

	cmd.AddCommand(
		newImportCmd(rc),
		newStatsCmd(rc),
		newMonteCarloCmd(rc),
		newSnapshotsCmd(rc),
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dashboard (dev)")
		},
	})

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// openStore returns the remote store, or nil when no endpoint is configured
// (local-journal-only mode).
func (rc *RootConfig) openStore() *store.Store {
	if rc.Cfg.Store.BaseURL == "" {
		return nil
	}
	client := store.NewHTTPClient(rc.Cfg.Store.BaseURL, rc.Cfg.Store.ReadURL, rc.Cfg.Store.Token)
	return store.New(client, rc.Log)
}

func (rc *RootConfig) openJournal() (*journal.SQLiteLedger, error) {
	return journal.OpenSQLite(rc.Cfg.Journal.DBPath, rc.Log)
}

// loadLedger prefers the shared store and falls back to the local journal.
func (rc *RootConfig) loadLedger(ctx context.Context, strategy string) ([]roundtrip.Trade, error) {
	if s := rc.openStore(); s != nil {
		return s.LoadTrades(ctx, strategy)
	}
	j, err := rc.openJournal()
	if err != nil {
		return nil, err
	}
	defer j.Close()
	return j.LoadTrades(strategy)
}
