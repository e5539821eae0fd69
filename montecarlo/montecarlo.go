// Package montecarlo estimates tail risk by resampling historical trade
// outcomes: many simulated trading years are drawn with replacement from the
// observed R-multiple set, and the distribution of each simulated year's
// maximum drawdown gives the percentile figures.
package montecarlo

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
)

// MinSampleSize is the fewest historical trades that still produce a
// meaningful estimate. Below this the estimator refuses rather than
// reporting statistically hollow numbers.
const MinSampleSize = 5

// TradingDaysPerYear annualizes the observed per-day trade cadence.
const TradingDaysPerYear = 252

// ErrInsufficientSample is returned when the trade history is too small to
// resample.
var ErrInsufficientSample = errors.New("montecarlo: not enough trades to simulate")

// Params control one estimation run. Seed makes the run reproducible: the
// same seed, trade set and parameters always produce identical percentiles.
type Params struct {
	RiskBudget  float64 // $ per R
	Simulations int     // simulated years, e.g. 5000
	Percentile  float64 // requested percentile, e.g. 95
	Seed        int64
}

// Result is the annual maximum-drawdown distribution, in R.
type Result struct {
	Simulations   int
	TradesPerYear int
	Percentile    float64

	Median       float64 // 50th percentile
	AtPercentile float64 // the requested percentile
	Worst        float64 // 99th percentile
}

// EstimateAnnualDrawdown runs the resampling simulation over the full trade
// history of one strategy.
func EstimateAnnualDrawdown(trades []roundtrip.Trade, p Params) (*Result, error) {
	if len(trades) < MinSampleSize {
		return nil, ErrInsufficientSample
	}
	if p.RiskBudget <= 0 || p.Simulations <= 0 {
		return nil, errors.New("montecarlo: risk budget and simulation count must be positive")
	}

	rmultiples := make([]float64, len(trades))
	for i, t := range trades {
		rmultiples[i] = t.DollarPL / p.RiskBudget
	}

	tradesPerYear := annualCadence(trades)

	rng := rand.New(rand.NewSource(p.Seed))
	maxDDs := make([]float64, p.Simulations)
	for i := 0; i < p.Simulations; i++ {
		maxDDs[i] = simulateYear(rng, rmultiples, tradesPerYear)
	}
	sort.Float64s(maxDDs)

	return &Result{
		Simulations:   p.Simulations,
		TradesPerYear: tradesPerYear,
		Percentile:    p.Percentile,
		Median:        percentileOf(maxDDs, 50),
		AtPercentile:  percentileOf(maxDDs, p.Percentile),
		Worst:         percentileOf(maxDDs, 99),
	}, nil
}

// simulateYear draws tradesPerYear outcomes with replacement and tracks the
// worst peak-to-trough decline of the running cumulative R.
func simulateYear(rng *rand.Rand, rmultiples []float64, tradesPerYear int) float64 {
	var cum, peak, maxDD float64
	for i := 0; i < tradesPerYear; i++ {
		cum += rmultiples[rng.Intn(len(rmultiples))]
		if cum > peak {
			peak = cum
		}
		if dd := peak - cum; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// annualCadence projects the observed trades-per-trading-day rate onto a
// full year. Trades with no usable date fall back to one-per-day pacing.
func annualCadence(trades []roundtrip.Trade) int {
	days := map[string]struct{}{}
	for _, t := range trades {
		if !t.Date.IsZero() {
			days[t.Date.Format("2006-01-02")] = struct{}{}
		}
	}
	if len(days) == 0 {
		return TradingDaysPerYear
	}
	perDay := float64(len(trades)) / float64(len(days))
	n := int(math.Round(perDay * TradingDaysPerYear))
	if n < 1 {
		n = 1
	}
	return n
}

// percentileOf reads the p-th percentile from an ascending-sorted slice.
func percentileOf(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
