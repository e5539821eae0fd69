package roundtrip

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExecutions(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"Datetime,Trade #,Direction,Entry,Stop,Trailing Profit,Net Points,Risk Points,Net $,Outcome",
		"01/06/2025 09:45,1,Short,6020.50,6026.50,—,8.25,6.00,412.50,Win",
		"01/07/2025 10:15,2,Long,6010.00,6004.00,—,-6.00,6.00,-300.00,Loss",
		"bad,row",
		"01/08/2025 11:00,3,Long,6000.00,5994.00,—,12.00,6.00,600.00,winner",
	}, "\n")

	trades, err := ParseExecutions(strings.NewReader(csv), 50)
	require.NoError(t, err)
	require.Len(t, trades, 3)

	first := trades[0]
	assert.Equal(t, Short, first.Direction)
	assert.Equal(t, "1", first.SeqID)
	assert.Equal(t, 6020.50, first.EntryPrice)
	assert.Equal(t, 6026.50, first.StopPrice)
	assert.Equal(t, 8.25, first.PointsPL)
	assert.Equal(t, 412.50, first.DollarPL)
	assert.Equal(t, 6.0, first.RiskPoints)
	assert.Equal(t, 300.0, first.RiskDollars) // 6 pts * $50
	assert.True(t, first.IsWin)
	assert.Equal(t, "Win", first.Outcome)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), first.Date)

	second := trades[1]
	assert.Equal(t, Long, second.Direction)
	assert.False(t, second.IsWin)
	assert.Equal(t, "Loss", second.Outcome)

	// Outcome matching is substring-based: "winner" counts.
	assert.True(t, trades[2].IsWin)
}

func TestParseExecutionsDedupBySequence(t *testing.T) {
	t.Parallel()

	csv := strings.Join([]string{
		"Datetime,Trade #,Direction,Entry,Stop,Trailing Profit,Net Points,Risk Points,Net $,Outcome",
		"01/06/2025 09:45,7,Long,6000,5994,—,6.00,6.00,300.00,Win",
	}, "\n")

	trades, err := ParseExecutions(strings.NewReader(csv), 50)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, "seq:7", trades[0].DedupKey())
}
