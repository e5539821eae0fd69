package montecarlo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
)

func sampleTrades() []roundtrip.Trade {
	outcomes := []float64{200, -100, 150, -100, 300, -50, 100, -100, 250, -75}
	trades := make([]roundtrip.Trade, len(outcomes))
	for i, pl := range outcomes {
		trades[i] = roundtrip.Trade{
			DollarPL: pl,
			IsWin:    pl > 0,
			Date:     time.Date(2025, 1, 6+i/2, 0, 0, 0, 0, time.UTC),
		}
	}
	return trades
}

func TestEstimateRejectsSmallSample(t *testing.T) {
	t.Parallel()

	trades := sampleTrades()[:MinSampleSize-1]
	_, err := EstimateAnnualDrawdown(trades, Params{RiskBudget: 100, Simulations: 100, Percentile: 95, Seed: 1})
	assert.ErrorIs(t, err, ErrInsufficientSample)
}

func TestEstimateRejectsBadParams(t *testing.T) {
	t.Parallel()

	_, err := EstimateAnnualDrawdown(sampleTrades(), Params{RiskBudget: 0, Simulations: 100})
	assert.Error(t, err)

	_, err = EstimateAnnualDrawdown(sampleTrades(), Params{RiskBudget: 100, Simulations: 0})
	assert.Error(t, err)
}

func TestEstimateDeterministicForSeed(t *testing.T) {
	t.Parallel()

	p := Params{RiskBudget: 100, Simulations: 500, Percentile: 95, Seed: 42}
	a, err := EstimateAnnualDrawdown(sampleTrades(), p)
	require.NoError(t, err)
	b, err := EstimateAnnualDrawdown(sampleTrades(), p)
	require.NoError(t, err)

	assert.Equal(t, a, b)

	p.Seed = 43
	c, err := EstimateAnnualDrawdown(sampleTrades(), p)
	require.NoError(t, err)
	assert.NotEqual(t, a.Median, c.Median)
}

func TestEstimatePercentilesOrdered(t *testing.T) {
	t.Parallel()

	res, err := EstimateAnnualDrawdown(sampleTrades(), Params{
		RiskBudget: 100, Simulations: 2000, Percentile: 95, Seed: 7,
	})
	require.NoError(t, err)

	assert.Greater(t, res.Median, 0.0)
	assert.GreaterOrEqual(t, res.AtPercentile, res.Median)
	assert.GreaterOrEqual(t, res.Worst, res.AtPercentile)
}

func TestAnnualCadence(t *testing.T) {
	t.Parallel()

	// 10 trades over 5 distinct days: 2/day * 252 = 504.
	assert.Equal(t, 504, annualCadence(sampleTrades()))

	// No dates at all falls back to one trade per trading day.
	undated := []roundtrip.Trade{{DollarPL: 1}, {DollarPL: -1}}
	assert.Equal(t, TradingDaysPerYear, annualCadence(undated))
}

func TestPercentileOf(t *testing.T) {
	t.Parallel()

	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	assert.Equal(t, 5.0, percentileOf(sorted, 50))
	assert.Equal(t, 10.0, percentileOf(sorted, 95))
	assert.Equal(t, 10.0, percentileOf(sorted, 100))
	assert.Equal(t, 1.0, percentileOf(sorted, 0))
	assert.Equal(t, 0.0, percentileOf(nil, 50))
}

func TestSimulateYearAllLosersDrawsDownFully(t *testing.T) {
	t.Parallel()

	res, err := EstimateAnnualDrawdown([]roundtrip.Trade{
		{DollarPL: -100, Date: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{DollarPL: -100, Date: time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)},
		{DollarPL: -100, Date: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)},
		{DollarPL: -100, Date: time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
		{DollarPL: -100, Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
	}, Params{RiskBudget: 100, Simulations: 50, Percentile: 95, Seed: 1})
	require.NoError(t, err)

	// Every resampled outcome is -1R, so each simulated year loses exactly
	// one R per trade with no recovery.
	assert.Equal(t, 252, res.TradesPerYear)
	assert.Equal(t, 252.0, res.Median)
	assert.Equal(t, 252.0, res.Worst)
}
