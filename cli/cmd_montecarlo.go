package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EkantikCapitalAdvisors/Dashboard/montecarlo"
)

func newMonteCarloCmd(rc *RootConfig) *cobra.Command {
	var (
		strategy string
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Estimate the annual max-drawdown distribution by resampling",
		RunE: func(cmd *cobra.Command, args []string) error {
			strat, err := rc.Cfg.Strategy(strategy)
			if err != nil {
				return err
			}

			trades, err := rc.loadLedger(cmd.Context(), strategy)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("seed") {
				seed = rc.Cfg.MonteCarlo.Seed
			}

			res, err := montecarlo.EstimateAnnualDrawdown(trades, montecarlo.Params{
				RiskBudget:  strat.RiskBudget,
				Simulations: rc.Cfg.MonteCarlo.Simulations,
				Percentile:  rc.Cfg.MonteCarlo.Percentile,
				Seed:        seed,
			})
			if errors.Is(err, montecarlo.ErrInsufficientSample) {
				fmt.Fprintf(cmd.OutOrStdout(),
					"not enough history: need at least %d trades, have %d\n",
					montecarlo.MinSampleSize, len(trades))
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "==================================================")
			fmt.Fprintf(out, " Annual Max-Drawdown Estimate: %s\n", strategy)
			fmt.Fprintln(out, "==================================================")
			fmt.Fprintf(out, "Simulated years:  %d (seed %d)\n", res.Simulations, seed)
			fmt.Fprintf(out, "Trades per year:  %d\n", res.TradesPerYear)
			fmt.Fprintf(out, "Median:           %.1f R  ($%.0f)\n", res.Median, res.Median*strat.RiskBudget)
			fmt.Fprintf(out, "%3.0fth percentile: %.1f R  ($%.0f)\n", res.Percentile, res.AtPercentile, res.AtPercentile*strat.RiskBudget)
			fmt.Fprintf(out, "Worst (99th):     %.1f R  ($%.0f)\n", res.Worst, res.Worst*strat.RiskBudget)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Strategy name from config (required)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Simulation seed (overrides config)")
	cmd.MarkFlagRequired("strategy")

	return cmd
}
