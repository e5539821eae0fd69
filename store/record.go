package store

import (
	"time"

	"github.com/EkantikCapitalAdvisors/Dashboard/fills"
	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
)

const (
	recordTimeLayout = time.RFC3339
	recordDateLayout = "2006-01-02"
)

// TradeRecord is the flattened persisted form of one round-trip trade.
// Readers must treat unknown or missing fields as zero values, never as a
// parse error; the document format grows over time and older clients keep
// reading newer ledgers.
type TradeRecord struct {
	WeekKey     string  `json:"week_key"`
	EntryTime   string  `json:"entry_time"`
	ExitTime    string  `json:"exit_time"`
	Direction   string  `json:"direction"`
	EntryPrice  float64 `json:"entry_price"`
	ExitPrice   float64 `json:"exit_price"`
	StopPrice   float64 `json:"stop_price"`
	Contracts   int     `json:"contracts"`
	PointsPL    float64 `json:"points_pl"`
	DollarPL    float64 `json:"dollar_pl"`
	RiskPoints  float64 `json:"risk_points"`
	RiskDollars float64 `json:"risk_dollars"`
	RewardRisk  float64 `json:"reward_risk"` // 0 means unresolved risk
	IsWin       bool    `json:"is_win"`
	TradeDate   string  `json:"trade_date"`
	Batch       string  `json:"upload_batch"`

	// Pre-computed feed extras.
	TradeNum       string `json:"trade_num,omitempty"`
	Outcome        string `json:"outcome,omitempty"`
	TrailingProfit string `json:"trailing_profit,omitempty"`
}

// FromTrade flattens a trade for persistence.
func FromTrade(t roundtrip.Trade) TradeRecord {
	rec := TradeRecord{
		Direction:      t.Direction.String(),
		EntryPrice:     t.EntryPrice,
		ExitPrice:      t.ExitPrice,
		StopPrice:      t.StopPrice,
		Contracts:      t.Contracts,
		PointsPL:       t.PointsPL,
		DollarPL:       t.DollarPL,
		RiskPoints:     t.RiskPoints,
		RiskDollars:    t.RiskDollars,
		IsWin:          t.IsWin,
		Batch:          t.BatchID,
		TradeNum:       t.SeqID,
		Outcome:        t.Outcome,
		TrailingProfit: t.TrailingProfit,
	}
	if !t.EntryTime.IsZero() {
		rec.EntryTime = t.EntryTime.Format(recordTimeLayout)
	}
	if !t.ExitTime.IsZero() {
		rec.ExitTime = t.ExitTime.Format(recordTimeLayout)
	}
	if !t.Date.IsZero() {
		rec.TradeDate = t.Date.Format(recordDateLayout)
		rec.WeekKey = snapshot.WeekKey(t.Date)
	}
	if t.RewardRisk != nil {
		rec.RewardRisk = *t.RewardRisk
	}
	return rec
}

// ToTrade rebuilds the in-memory trade. A zero reward_risk comes back as
// nil: the persisted format cannot tell "no stop" apart from an exact 0,
// and unresolved risk is by far the common case.
func (rec TradeRecord) ToTrade() roundtrip.Trade {
	t := roundtrip.Trade{
		Direction:      roundtrip.ParseDirection(rec.Direction),
		EntryPrice:     rec.EntryPrice,
		ExitPrice:      rec.ExitPrice,
		StopPrice:      rec.StopPrice,
		Contracts:      rec.Contracts,
		PointsPL:       rec.PointsPL,
		DollarPL:       rec.DollarPL,
		RiskPoints:     rec.RiskPoints,
		RiskDollars:    rec.RiskDollars,
		IsWin:          rec.IsWin,
		BatchID:        rec.Batch,
		SeqID:          rec.TradeNum,
		Outcome:        rec.Outcome,
		TrailingProfit: rec.TrailingProfit,
	}
	if ts, ok := fills.ParseTimestamp(rec.EntryTime); ok {
		t.EntryTime = ts
	}
	if ts, ok := fills.ParseTimestamp(rec.ExitTime); ok {
		t.ExitTime = ts
	}
	if d, ok := fills.ParseTimestamp(rec.TradeDate); ok {
		t.Date = fills.DateOf(d)
	} else if !t.EntryTime.IsZero() {
		t.Date = fills.DateOf(t.EntryTime)
	}
	if rec.RewardRisk != 0 {
		rr := rec.RewardRisk
		t.RewardRisk = &rr
	}
	return t
}
