package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
	"github.com/EkantikCapitalAdvisors/Dashboard/stats"
)

func newStatsCmd(rc *RootConfig) *cobra.Command {
	var (
		strategy string
		week     string
		orgPath  string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute and print the KPI set for a strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.Cfg.Strategy(strategy)
			if err != nil {
				return err
			}

			trades, err := rc.loadLedger(cmd.Context(), strategy)
			if err != nil {
				return err
			}
			if week != "" {
				trades = filterWeek(trades, week)
			}

			k := stats.Compute(trades, stats.Params{
				RiskBudget:      strat.RiskBudget,
				PointMultiplier: strat.PointMultiplier,
				StartingBalance: strat.StartingBalance,
			})
			if k == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no trades in ledger")
				return nil
			}

			PrintKPIReport(cmd.OutOrStdout(), strategy, k)

			if orgPath != "" {
				if err := WriteKPIOrg(orgPath, strategy, k); err != nil {
					return fmt.Errorf("write org report: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "org report: %s\n", orgPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy name from config (required)")
	cmd.Flags().StringVar(&week, "week", "", "Restrict to one week (Monday date, YYYY-MM-DD)")
	cmd.Flags().StringVar(&orgPath, "org", "", "Also write an org-mode report to this path")
	cmd.MarkFlagRequired("strategy")

	return cmd
}

// filterWeek keeps the trades whose date lands in the given Monday-anchored
// week. The KPI engine recomputes everything from the subset, so the
// filtered numbers stand on their own.
func filterWeek(trades []roundtrip.Trade, weekKey string) []roundtrip.Trade {
	var out []roundtrip.Trade
	for _, t := range trades {
		if !t.Date.IsZero() && snapshot.WeekKey(t.Date) == weekKey {
			out = append(out, t)
		}
	}
	return out
}
