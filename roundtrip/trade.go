// Package roundtrip turns order fills into closed round-trip trades: a
// complete position lifecycle from flat back to flat (or through a reversal),
// combining one or more entry fills against a single exit.
package roundtrip

import (
	"fmt"
	"strings"
	"time"
)

// Direction of a round trip: +1 long, -1 short.
type Direction int8

const (
	Long  Direction = +1
	Short Direction = -1
)

func (d Direction) String() string {
	if d == Short {
		return "Short"
	}
	return "Long"
}

// ParseDirection maps feed and persisted direction labels back onto the
// type. Unknown labels default to Long so a damaged record still loads.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "sell":
		return Short
	}
	return Long
}

// Trade is one closed round trip. Created once by the reconstructor (or the
// pre-computed feed parser) and never mutated afterwards.
//
// Invariants: DollarPL = PointsPL * pointMultiplier * Contracts,
// IsWin == (DollarPL > 0). A StopPrice of 0 means no protective stop could
// be resolved; RiskPoints/RiskDollars are then 0 and RewardRisk is nil,
// since absent risk is not the same thing as zero risk.
type Trade struct {
	EntryTime   time.Time
	ExitTime    time.Time
	Direction   Direction
	EntryPrice  float64 // quantity-weighted across all entry fills
	ExitPrice   float64
	StopPrice   float64
	Contracts   int
	PointsPL    float64
	DollarPL    float64
	RiskPoints  float64
	RiskDollars float64
	RewardRisk  *float64 // nil when no stop resolved
	IsWin       bool
	Date        time.Time // trading date of the entry

	// Pre-computed feed extras; empty for reconstructed trades.
	SeqID          string
	Outcome        string
	TrailingProfit string

	BatchID string
}

// DedupKey identifies a trade for ledger merging. Feeds that carry an
// explicit sequence id use it; reconstructed trades fall back to a composite
// of the fields that cannot collide across distinct round trips.
func (t Trade) DedupKey() string {
	if t.SeqID != "" {
		return "seq:" + t.SeqID
	}
	return fmt.Sprintf("%s|%s|%s|%d",
		t.EntryTime.Format(time.RFC3339),
		t.ExitTime.Format(time.RFC3339),
		t.Direction,
		int64(t.DollarPL*100), // cents, avoids float formatting drift
	)
}
