package journal

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
)

func openTestLedger(t *testing.T) *SQLiteLedger {
	t.Helper()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func ledgerTrade(seq string, pl float64) roundtrip.Trade {
	n, _ := strconv.Atoi(seq)
	entry := time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute)
	rr := pl / 100
	return roundtrip.Trade{
		EntryTime:   entry,
		ExitTime:    entry.Add(25 * time.Minute),
		Direction:   roundtrip.Long,
		EntryPrice:  6010.25,
		ExitPrice:   6010.25 + pl/5,
		StopPrice:   6005.25,
		Contracts:   1,
		PointsPL:    pl / 5,
		DollarPL:    pl,
		RiskPoints:  5,
		RiskDollars: 25,
		RewardRisk:  &rr,
		IsWin:       pl > 0,
		Date:        time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		SeqID:       seq,
		Outcome:     "Winner",
	}
}

func TestSQLiteLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)

	inserted, err := l.SaveTrades("ecfs", []roundtrip.Trade{
		ledgerTrade("1", 150), ledgerTrade("2", -75),
	}, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	trades, err := l.LoadTrades("ecfs")
	require.NoError(t, err)
	require.Len(t, trades, 2)

	got := trades[0]
	assert.Equal(t, "1", got.SeqID)
	assert.Equal(t, roundtrip.Long, got.Direction)
	assert.Equal(t, 6010.25, got.EntryPrice)
	assert.Equal(t, 150.0, got.DollarPL)
	assert.Equal(t, 25.0, got.RiskDollars)
	require.NotNil(t, got.RewardRisk)
	assert.Equal(t, 1.5, *got.RewardRisk)
	assert.True(t, got.IsWin)
	assert.Equal(t, "batch-a", got.BatchID)
	assert.True(t, got.EntryTime.Equal(ledgerTrade("1", 150).EntryTime))
	assert.Equal(t, "2025-01-06", got.Date.Format("2006-01-02"))
}

func TestSQLiteLedgerIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	batch := []roundtrip.Trade{ledgerTrade("1", 150), ledgerTrade("2", -75)}

	inserted, err := l.SaveTrades("ecfs", batch, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)

	// Re-importing the same feed inserts nothing.
	inserted, err = l.SaveTrades("ecfs", batch, "batch-b")
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	trades, err := l.LoadTrades("ecfs")
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestSQLiteLedgerScopesByStrategy(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)

	_, err := l.SaveTrades("ecfs", []roundtrip.Trade{ledgerTrade("1", 150)}, "a")
	require.NoError(t, err)
	_, err = l.SaveTrades("discord", []roundtrip.Trade{ledgerTrade("1", 500)}, "b")
	require.NoError(t, err)

	ecfs, err := l.LoadTrades("ecfs")
	require.NoError(t, err)
	discord, err := l.LoadTrades("discord")
	require.NoError(t, err)

	require.Len(t, ecfs, 1)
	require.Len(t, discord, 1)
	assert.Equal(t, 150.0, ecfs[0].DollarPL)
	assert.Equal(t, 500.0, discord[0].DollarPL)
}

func TestSQLiteLedgerDeleteBatch(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)

	_, err := l.SaveTrades("ecfs", []roundtrip.Trade{ledgerTrade("1", 150)}, "batch-a")
	require.NoError(t, err)
	_, err = l.SaveTrades("ecfs", []roundtrip.Trade{ledgerTrade("2", -75)}, "batch-b")
	require.NoError(t, err)

	removed, err := l.DeleteBatch("ecfs", "batch-a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	trades, err := l.LoadTrades("ecfs")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "2", trades[0].SeqID)
}

func TestSQLiteLedgerUnresolvedRisk(t *testing.T) {
	t.Parallel()

	l := openTestLedger(t)
	tr := ledgerTrade("9", 50)
	tr.RewardRisk = nil
	tr.StopPrice = 0
	tr.RiskPoints = 0
	tr.RiskDollars = 0

	_, err := l.SaveTrades("ecfs", []roundtrip.Trade{tr}, "a")
	require.NoError(t, err)

	trades, err := l.LoadTrades("ecfs")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Nil(t, trades[0].RewardRisk)
	assert.Zero(t, trades[0].RiskDollars)
}
