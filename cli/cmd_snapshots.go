package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
	"github.com/EkantikCapitalAdvisors/Dashboard/stats"
)

func newSnapshotsCmd(rc *RootConfig) *cobra.Command {
	var (
		strategy string
		push     bool
	)

	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Regenerate the weekly snapshot series from the full ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.Cfg.Strategy(strategy)
			if err != nil {
				return err
			}

			trades, err := rc.loadLedger(cmd.Context(), strategy)
			if err != nil {
				return err
			}

			snaps := snapshot.Generate(strategy, trades, stats.Params{
				RiskBudget:      strat.RiskBudget,
				PointMultiplier: strat.PointMultiplier,
				StartingBalance: strat.StartingBalance,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-12s %6s %4s %7s %10s %12s\n",
				"WEEK", "TRADES", "WINS", "WIN%", "NET P/L", "CUM BALANCE")
			for _, s := range snaps {
				fmt.Fprintf(out, "%-12s %6d %4d %6.1f%% %10.2f %12.2f\n",
					s.WeekKey, s.TotalTrades, s.WinCount, s.WinRate, s.NetPL, s.CumulativeBalance)
			}

			if !push {
				return nil
			}
			s := rc.openStore()
			if s == nil {
				return fmt.Errorf("remote store not configured")
			}
			if err := s.SaveAllSnapshots(cmd.Context(), strategy, snaps); err != nil {
				return err
			}
			fmt.Fprintf(out, "pushed %d weekly snapshots\n", len(snaps))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy name from config (required)")
	cmd.Flags().BoolVar(&push, "push", false, "Write the regenerated series to the shared store")
	cmd.MarkFlagRequired("strategy")

	return cmd
}
