// Package snapshot buckets trades into calendar weeks and produces the
// weekly performance series for one strategy. Generation is always a full
// recompute from the complete ledger, so backfilled or re-ordered trades can
// never leave a stale week behind.
package snapshot

import (
	"math"
	"sort"
	"time"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/stats"
)

// infiniteProfitFactor stands in for +Inf in persisted snapshots, which have
// to survive a round trip through JSON.
const infiniteProfitFactor = 999

// Snapshot is one strategy-week of performance, with the running cumulative
// figures as of that week. One snapshot per (strategy, week).
type Snapshot struct {
	Strategy string `json:"strategy"`
	WeekKey  string `json:"week_key"` // Monday date, "2006-01-02"

	NetPL       float64 `json:"net_pl"`
	NetPoints   float64 `json:"net_points"`
	ReturnPct   float64 `json:"return_pct"`
	TotalTrades int     `json:"total_trades"`
	WinCount    int     `json:"win_count"`
	LossCount   int     `json:"loss_count"`
	WinRate     float64 `json:"win_rate"`

	ProfitFactor float64 `json:"profit_factor"`
	EVPlannedR   float64 `json:"ev_planned_r"`
	EVActualR    float64 `json:"ev_actual_r"`
	MaxDD        float64 `json:"max_dd"`

	CumulativePL      float64 `json:"cumulative_pl"`
	CumulativeBalance float64 `json:"cumulative_balance"`
	CumulativeReturn  float64 `json:"cumulative_return"`
}

// WeekKey returns the Monday-anchored week key for a date.
func WeekKey(d time.Time) string {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format("2006-01-02")
}

// Generate produces one Snapshot per week in chronological order, threading
// the running cumulative P&L/balance/return through the sequence. Trades
// without a usable date are skipped.
func Generate(strategy string, trades []roundtrip.Trade, p stats.Params) []Snapshot {
	byWeek := map[string][]roundtrip.Trade{}
	for _, t := range trades {
		if t.Date.IsZero() {
			continue
		}
		wk := WeekKey(t.Date)
		byWeek[wk] = append(byWeek[wk], t)
	}

	weeks := make([]string, 0, len(byWeek))
	for wk := range byWeek {
		weeks = append(weeks, wk)
	}
	sort.Strings(weeks) // ISO dates sort chronologically

	var cumPL float64
	snapshots := make([]Snapshot, 0, len(weeks))
	for _, wk := range weeks {
		k := stats.Compute(byWeek[wk], p)
		if k == nil {
			continue
		}
		cumPL += k.NetPL

		pf := k.ProfitFactor
		if math.IsInf(pf, 1) {
			pf = infiniteProfitFactor
		}

		s := Snapshot{
			Strategy:     strategy,
			WeekKey:      wk,
			NetPL:        k.NetPL,
			NetPoints:    k.NetPoints,
			ReturnPct:    k.ReturnPct,
			TotalTrades:  k.TotalTrades,
			WinCount:     k.WinCount,
			LossCount:    k.LossCount,
			WinRate:      k.WinRate,
			ProfitFactor: pf,
			EVPlannedR:   k.EVPlannedR,
			EVActualR:    k.EVActualR,
			MaxDD:        k.MaxDD,
			CumulativePL: cumPL,
		}
		s.CumulativeBalance = p.StartingBalance + cumPL
		if p.StartingBalance > 0 {
			s.CumulativeReturn = cumPL / p.StartingBalance * 100
		}
		snapshots = append(snapshots, s)
	}
	return snapshots
}
