package roundtrip

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/EkantikCapitalAdvisors/Dashboard/fills"
)

// Pre-computed feed column positions: rows already at round-trip granularity,
// needing only normalization.
const (
	execColDatetime   = 0
	execColSeq        = 1
	execColDirection  = 2
	execColEntryPrice = 3
	execColStopPrice  = 4
	execColTrailing   = 5
	execColNetPoints  = 6
	execColRiskPoints = 7
	execColNetDollars = 8
	execColOutcome    = 9

	execMinColumns = 10
)

// ParseExecutions reads the pre-computed trade feed: one row per finished
// round trip with net points, risk and outcome already attached. No
// reconstruction happens here; risk dollars are derived from the risk points
// using the strategy's point multiplier. Malformed or short rows are skipped.
func ParseExecutions(r io.Reader, pointMultiplier float64) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var trades []Trade
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			continue
		}
		if line == 1 {
			continue // header
		}
		if len(row) < execMinColumns {
			continue
		}

		ts, _ := fills.ParseTimestamp(strings.TrimSpace(row[execColDatetime]))
		netPoints := execFloat(row[execColNetPoints])
		riskPoints := execFloat(row[execColRiskPoints])
		netDollars := execFloat(row[execColNetDollars])
		outcome := strings.ToLower(strings.TrimSpace(row[execColOutcome]))

		outLabel := "Loss"
		if strings.Contains(outcome, "win") {
			outLabel = "Win"
		}

		trades = append(trades, Trade{
			EntryTime:      ts,
			Direction:      ParseDirection(strings.TrimSpace(row[execColDirection])),
			EntryPrice:     execFloat(row[execColEntryPrice]),
			StopPrice:      execFloat(row[execColStopPrice]),
			PointsPL:       netPoints,
			DollarPL:       netDollars,
			RiskPoints:     riskPoints,
			RiskDollars:    riskPoints * pointMultiplier,
			IsWin:          outLabel == "Win",
			Date:           fills.DateOf(ts),
			SeqID:          strings.TrimSpace(row[execColSeq]),
			Outcome:        outLabel,
			TrailingProfit: strings.TrimSpace(row[execColTrailing]),
		})
	}
	return trades, nil
}

func execFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
