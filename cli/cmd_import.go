package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EkantikCapitalAdvisors/Dashboard/fills"
	"github.com/EkantikCapitalAdvisors/Dashboard/id"
	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
	"github.com/EkantikCapitalAdvisors/Dashboard/stats"
)

func newImportCmd(rc *RootConfig) *cobra.Command {
	var (
		strategy string
		feed     string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Parse a broker export, merge it into the ledger, refresh snapshots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.Cfg.Strategy(strategy)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open feed: %w", err)
			}
			defer f.Close()

			var trades []roundtrip.Trade
			switch feed {
			case "orders":
				orders, err := fills.ParseOrders(f)
				if err != nil {
					return fmt.Errorf("parse orders: %w", err)
				}
				trades = roundtrip.Reconstruct(orders, strat.PointMultiplier)
			case "executions":
				trades, err = roundtrip.ParseExecutions(f, strat.PointMultiplier)
				if err != nil {
					return fmt.Errorf("parse executions: %w", err)
				}
			default:
				return fmt.Errorf("unknown feed type %q (want orders or executions)", feed)
			}

			if len(trades) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no round-trip trades in feed")
				return nil
			}

			batchID := id.NewBatch(strategy)

			// Local journal first: whatever happens remotely, the parse
			// is never lost.
			j, err := rc.openJournal()
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()
			cached, err := j.SaveTrades(strategy, trades, batchID)
			if err != nil {
				return fmt.Errorf("cache trades: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "parsed %d round-trip trades (%d new locally, batch %s)\n",
				len(trades), cached, batchID)

			s := rc.openStore()
			if s == nil {
				rc.Log.Info("remote store not configured, skipping sync")
				return nil
			}

			ctx := cmd.Context()
			added, err := s.SaveTrades(ctx, strategy, trades, batchID)
			if err != nil {
				rc.Log.Error("remote sync failed; local journal retains the batch",
					zap.String("batch", batchID), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ledger merged: %d new trades persisted\n", added)

			// Snapshots are always regenerated from the complete ledger.
			ledger, err := s.LoadTrades(ctx, strategy)
			if err != nil {
				return fmt.Errorf("reload ledger: %w", err)
			}
			snaps := snapshot.Generate(strategy, ledger, stats.Params{
				RiskBudget:      strat.RiskBudget,
				PointMultiplier: strat.PointMultiplier,
				StartingBalance: strat.StartingBalance,
			})
			if err := s.SaveAllSnapshots(ctx, strategy, snaps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "weekly snapshots regenerated: %d weeks\n", len(snaps))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy name from config (required)")
	cmd.Flags().StringVar(&feed, "feed", "orders", "Feed type: orders (order-level export) or executions (pre-computed round trips)")
	cmd.MarkFlagRequired("strategy")

	return cmd
}
