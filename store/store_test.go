package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
)

func newTrade(seq string, pl float64) roundtrip.Trade {
	entry := time.Date(2025, 1, 6, 9, 30, 0, 0, time.UTC)
	return roundtrip.Trade{
		EntryTime:  entry,
		ExitTime:   entry.Add(20 * time.Minute),
		Direction:  roundtrip.Long,
		EntryPrice: 6000,
		ExitPrice:  6000 + pl/5,
		Contracts:  1,
		PointsPL:   pl / 5,
		DollarPL:   pl,
		IsWin:      pl > 0,
		Date:       time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		SeqID:      seq,
	}
}

func TestLoadTradesMissingDocumentIsEmpty(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	trades, err := s.LoadTrades(context.Background(), "ecfs")
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestSaveTradesRoundTrip(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()

	added, err := s.SaveTrades(ctx, "ecfs", []roundtrip.Trade{
		newTrade("1", 150), newTrade("2", -75),
	}, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	trades, err := s.LoadTrades(ctx, "ecfs")
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, "1", trades[0].SeqID)
	assert.Equal(t, 150.0, trades[0].DollarPL)
	assert.Equal(t, "batch-a", trades[0].BatchID)
	assert.True(t, trades[0].EntryTime.Equal(newTrade("1", 150).EntryTime))
}

func TestSaveTradesMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()
	batch := []roundtrip.Trade{newTrade("1", 150), newTrade("2", -75)}

	added, err := s.SaveTrades(ctx, "ecfs", batch, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = s.SaveTrades(ctx, "ecfs", batch, "batch-b")
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	trades, err := s.LoadTrades(ctx, "ecfs")
	require.NoError(t, err)
	assert.Len(t, trades, 2)
}

func TestSaveTradesPartialOverlap(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()

	_, err := s.SaveTrades(ctx, "ecfs", []roundtrip.Trade{newTrade("1", 150)}, "batch-a")
	require.NoError(t, err)

	added, err := s.SaveTrades(ctx, "ecfs", []roundtrip.Trade{
		newTrade("1", 150), newTrade("2", -75), newTrade("3", 90),
	}, "batch-b")
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	trades, err := s.LoadTrades(ctx, "ecfs")
	require.NoError(t, err)
	require.Len(t, trades, 3)
	assert.Equal(t, "batch-a", trades[0].BatchID)
	assert.Equal(t, "batch-b", trades[1].BatchID)
}

func TestSaveTradesKeepsDatasetsSeparate(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()

	_, err := s.SaveTrades(ctx, "ecfs", []roundtrip.Trade{newTrade("1", 150)}, "a")
	require.NoError(t, err)
	_, err = s.SaveTrades(ctx, "discord", []roundtrip.Trade{newTrade("1", 500)}, "b")
	require.NoError(t, err)

	ecfs, err := s.LoadTrades(ctx, "ecfs")
	require.NoError(t, err)
	discord, err := s.LoadTrades(ctx, "discord")
	require.NoError(t, err)

	require.Len(t, ecfs, 1)
	require.Len(t, discord, 1)
	assert.Equal(t, 150.0, ecfs[0].DollarPL)
	assert.Equal(t, 500.0, discord[0].DollarPL)
}

// conflictClient wraps a MemoryClient and fails the first n Put calls with a
// version conflict, simulating a concurrent writer landing first.
type conflictClient struct {
	*MemoryClient
	remaining int
}

func (c *conflictClient) Put(ctx context.Context, key string, data []byte, version string) (string, error) {
	if c.remaining > 0 {
		c.remaining--
		// The racing writer bumps the document so the retry reads fresh state.
		cur, curVersion, err := c.MemoryClient.Get(ctx, key)
		if err == nil {
			if _, err := c.MemoryClient.Put(ctx, key, cur, curVersion); err != nil {
				return "", err
			}
		}
		return "", ErrVersionConflict
	}
	return c.MemoryClient.Put(ctx, key, data, version)
}

func TestSaveTradesRetriesOnceOnConflict(t *testing.T) {
	t.Parallel()

	client := &conflictClient{MemoryClient: NewMemoryClient(), remaining: 1}
	s := New(client, nil)
	ctx := context.Background()

	added, err := s.SaveTrades(ctx, "ecfs", []roundtrip.Trade{newTrade("1", 150)}, "batch-a")
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	trades, err := s.LoadTrades(ctx, "ecfs")
	require.NoError(t, err)
	assert.Len(t, trades, 1)
}

func TestSaveTradesSecondConflictSurfaces(t *testing.T) {
	t.Parallel()

	client := &conflictClient{MemoryClient: NewMemoryClient(), remaining: 2}
	s := New(client, nil)

	_, err := s.SaveTrades(context.Background(), "ecfs", []roundtrip.Trade{newTrade("1", 150)}, "batch-a")
	assert.ErrorIs(t, err, ErrWriteConflict)
}

func TestSnapshotsReplacePerStrategy(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()

	require.NoError(t, s.SaveAllSnapshots(ctx, "ecfs", []snapshot.Snapshot{
		{Strategy: "ecfs", WeekKey: "2025-01-06", NetPL: 100},
		{Strategy: "ecfs", WeekKey: "2025-01-13", NetPL: -40},
	}))
	require.NoError(t, s.SaveAllSnapshots(ctx, "discord", []snapshot.Snapshot{
		{Strategy: "discord", WeekKey: "2025-01-06", NetPL: 900},
	}))

	// Regenerating ecfs replaces its series without touching discord.
	require.NoError(t, s.SaveAllSnapshots(ctx, "ecfs", []snapshot.Snapshot{
		{Strategy: "ecfs", WeekKey: "2025-01-06", NetPL: 120},
	}))

	ecfs, err := s.LoadSnapshots(ctx, "ecfs")
	require.NoError(t, err)
	require.Len(t, ecfs, 1)
	assert.Equal(t, 120.0, ecfs[0].NetPL)

	discord, err := s.LoadSnapshots(ctx, "discord")
	require.NoError(t, err)
	require.Len(t, discord, 1)
	assert.Equal(t, 900.0, discord[0].NetPL)
}

func TestLoadSnapshotsSortedByWeek(t *testing.T) {
	t.Parallel()

	s := New(NewMemoryClient(), nil)
	ctx := context.Background()

	require.NoError(t, s.SaveAllSnapshots(ctx, "ecfs", []snapshot.Snapshot{
		{Strategy: "ecfs", WeekKey: "2025-01-20"},
		{Strategy: "ecfs", WeekKey: "2025-01-06"},
		{Strategy: "ecfs", WeekKey: "2025-01-13"},
	}))

	snaps, err := s.LoadSnapshots(ctx, "ecfs")
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "2025-01-06", snaps[0].WeekKey)
	assert.Equal(t, "2025-01-13", snaps[1].WeekKey)
	assert.Equal(t, "2025-01-20", snaps[2].WeekKey)
}

func TestMemoryClientVersioning(t *testing.T) {
	t.Parallel()

	c := NewMemoryClient()
	ctx := context.Background()

	_, _, err := c.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	v1, err := c.Put(ctx, "doc", []byte(`[]`), "")
	require.NoError(t, err)

	// Create-only write against an existing document loses.
	_, err = c.Put(ctx, "doc", []byte(`[1]`), "")
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Stale token loses, current token wins.
	_, err = c.Put(ctx, "doc", []byte(`[1]`), "stale")
	assert.ErrorIs(t, err, ErrVersionConflict)

	v2, err := c.Put(ctx, "doc", []byte(`[1]`), v1)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	data, version, err := c.Get(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), data)
	assert.Equal(t, v2, version)
}
