// Package stats computes the performance KPI set over an ordered list of
// round-trip trades. Everything is recomputed from the slice passed in, with
// no package state and no caching, so the same function applied to a filtered
// subset (one week, one month) yields an independently correct result.
package stats

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
)

// Params are the per-strategy constants the KPI math needs. They are passed
// explicitly so one engine serves any number of strategies.
type Params struct {
	RiskBudget      float64 // planned $ risk per trade
	PointMultiplier float64 // $ per point per contract
	StartingBalance float64
}

// EquityPoint is one step of the cumulative P&L curve.
type EquityPoint struct {
	Time    time.Time
	CumPL   float64
	Balance float64
}

// DrawdownPoint is the decline from the running equity peak at one step.
type DrawdownPoint struct {
	Time time.Time
	DD   float64 // >= 0
}

// DayStats aggregates one trading day.
type DayStats struct {
	PL     float64
	Trades int
	Wins   int
}

// WeekStats aggregates one Monday-anchored week.
type WeekStats struct {
	PL     float64
	Trades int
	Wins   int
	Losses int
}

// RiskBucket is one band of the risk-size histogram.
type RiskBucket struct {
	Label string
	Count int
	Pct   float64
}

// KPISet is the full derived statistics set. Read-only once computed.
type KPISet struct {
	TotalTrades int
	WinCount    int
	LossCount   int
	WinRate     float64 // percent

	NetPL       float64
	NetPoints   float64
	GrossWins   float64
	GrossLosses float64 // absolute value

	ProfitFactor float64 // +Inf when there are no losing trades
	ReturnPct    float64

	EVPerTrade float64
	EVPlannedR float64 // percent of the fixed risk budget
	EVActualR  float64 // percent of the average realized risk

	AvgRiskDollars float64
	MaxRiskDollars float64
	RiskAdherence  float64 // percent of risk-resolved trades within 120% of budget

	AvgWinDollar  float64
	AvgLossDollar float64 // negative
	AvgWinPoints  float64
	AvgLossPoints float64
	WLRatio       float64 // +Inf when no losses
	ExpectancyR   float64

	AvgRRWins   float64
	AvgRRLosses float64
	AvgLossCut  float64 // average |loss| / risk for stopped losers

	EquityCurve    []EquityPoint
	DrawdownCurve  []DrawdownPoint
	MaxDD          float64
	MaxDDPct       float64
	CurrentDD      float64
	RecoveryFactor float64 // +Inf when max drawdown is zero

	MaxWinStreak  int
	MaxLossStreak int
	CurrentStreak int // signed: +3 three wins running, -2 two losses

	DailyPL        map[string]*DayStats  // keyed by "2006-01-02"
	WeeklyPL       map[string]*WeekStats // keyed by Monday "2006-01-02"
	TradingDays    []string              // sorted day keys
	ProfitableDays int

	LongCount  int
	ShortCount int

	RiskDist       []RiskBucket
	PLDistribution []float64

	BestTrade    float64
	WorstTrade   float64
	ProfitPerDay float64
	TradesPerDay float64
}

// Risk-size histogram band edges in dollars; the last band is open-ended.
var riskBands = []float64{0, 25, 50, 75, 100, 125, 150, 200, 300, math.Inf(1)}

// Compute derives the full KPI set from trades in order. Returns nil for an
// empty input rather than a set full of NaNs.
func Compute(trades []roundtrip.Trade, p Params) *KPISet {
	if len(trades) == 0 {
		return nil
	}

	k := &KPISet{
		TotalTrades: len(trades),
		DailyPL:     make(map[string]*DayStats),
		WeeklyPL:    make(map[string]*WeekStats),
		BestTrade:   math.Inf(-1),
		WorstTrade:  math.Inf(1),
	}

	var (
		winPts, lossPts     float64
		grossLossSigned     float64
		sumRisk, maxRisk    float64
		riskCount, adherent int
		rrWinSum, rrLossSum float64
		rrWinN, rrLossN     int
		lossCutSum          float64
		lossCutN            int
	)

	for _, t := range trades {
		k.NetPL += t.DollarPL
		k.NetPoints += t.PointsPL
		k.PLDistribution = append(k.PLDistribution, t.DollarPL)

		if t.DollarPL > k.BestTrade {
			k.BestTrade = t.DollarPL
		}
		if t.DollarPL < k.WorstTrade {
			k.WorstTrade = t.DollarPL
		}

		if t.IsWin {
			k.WinCount++
			k.GrossWins += t.DollarPL
			winPts += t.PointsPL
			if t.RewardRisk != nil {
				rrWinSum += *t.RewardRisk
				rrWinN++
			}
		} else {
			k.LossCount++
			grossLossSigned += t.DollarPL
			lossPts += t.PointsPL
			if t.RewardRisk != nil {
				rrLossSum += *t.RewardRisk
				rrLossN++
			}
			if t.RiskDollars > 0 {
				lossCutSum += math.Abs(t.DollarPL) / t.RiskDollars
				lossCutN++
			}
		}

		if t.RiskDollars > 0 {
			riskCount++
			sumRisk += t.RiskDollars
			if t.RiskDollars > maxRisk {
				maxRisk = t.RiskDollars
			}
			if t.RiskDollars <= p.RiskBudget*1.2 {
				adherent++
			}
		}

		if t.Direction == roundtrip.Long {
			k.LongCount++
		} else {
			k.ShortCount++
		}
	}

	k.GrossLosses = math.Abs(grossLossSigned)
	k.WinRate = float64(k.WinCount) / float64(k.TotalTrades) * 100

	if k.GrossLosses > 0 {
		k.ProfitFactor = k.GrossWins / k.GrossLosses
	} else {
		k.ProfitFactor = math.Inf(1)
	}
	if p.StartingBalance > 0 {
		k.ReturnPct = k.NetPL / p.StartingBalance * 100
	}

	k.EVPerTrade = k.NetPL / float64(k.TotalTrades)
	if p.RiskBudget > 0 {
		k.EVPlannedR = k.EVPerTrade / p.RiskBudget * 100
	}

	if riskCount > 0 {
		k.AvgRiskDollars = sumRisk / float64(riskCount)
		k.RiskAdherence = float64(adherent) / float64(riskCount) * 100
	} else {
		k.AvgRiskDollars = p.RiskBudget
	}
	k.MaxRiskDollars = maxRisk
	if k.AvgRiskDollars > 0 {
		k.EVActualR = k.EVPerTrade / k.AvgRiskDollars * 100
	}

	if k.WinCount > 0 {
		k.AvgWinDollar = k.GrossWins / float64(k.WinCount)
		k.AvgWinPoints = winPts / float64(k.WinCount)
	}
	if k.LossCount > 0 {
		k.AvgLossDollar = grossLossSigned / float64(k.LossCount)
		k.AvgLossPoints = lossPts / float64(k.LossCount)
	}
	if math.Abs(k.AvgLossDollar) > 0 {
		k.WLRatio = k.AvgWinDollar / math.Abs(k.AvgLossDollar)
	} else {
		k.WLRatio = math.Inf(1)
	}
	k.ExpectancyR = (k.WinRate/100)*k.WLRatio - float64(k.LossCount)/float64(k.TotalTrades)

	if rrWinN > 0 {
		k.AvgRRWins = rrWinSum / float64(rrWinN)
	}
	if rrLossN > 0 {
		k.AvgRRLosses = rrLossSum / float64(rrLossN)
	}
	if lossCutN > 0 {
		k.AvgLossCut = lossCutSum / float64(lossCutN)
	}

	k.computeCurves(trades, p)
	k.computeStreaks(trades)
	k.computeCalendar(trades)
	k.computeRiskDist(trades, riskCount)

	return k
}

// computeCurves builds the equity and drawdown curves and the drawdown
// aggregates. The running peak is non-decreasing by construction.
func (k *KPISet) computeCurves(trades []roundtrip.Trade, p Params) {
	var cum, peak, maxDD float64
	var peakAtMax float64

	for _, t := range trades {
		cum += t.DollarPL
		if cum > peak {
			peak = cum
		}
		dd := peak - cum
		if dd > maxDD {
			maxDD = dd
			peakAtMax = peak
		}
		at := t.ExitTime
		if at.IsZero() {
			at = t.EntryTime
		}
		k.EquityCurve = append(k.EquityCurve, EquityPoint{
			Time:    at,
			CumPL:   cum,
			Balance: p.StartingBalance + cum,
		})
		k.DrawdownCurve = append(k.DrawdownCurve, DrawdownPoint{Time: at, DD: dd})
	}

	k.MaxDD = maxDD
	k.CurrentDD = peak - cum
	if peakAtMax > 0 {
		k.MaxDDPct = maxDD / (p.StartingBalance + peakAtMax) * 100
	} else if p.StartingBalance > 0 {
		k.MaxDDPct = maxDD / p.StartingBalance * 100
	}
	if maxDD > 0 {
		k.RecoveryFactor = k.NetPL / maxDD
	} else {
		k.RecoveryFactor = math.Inf(1)
	}
}

func (k *KPISet) computeStreaks(trades []roundtrip.Trade) {
	var cw, cl int
	for _, t := range trades {
		if t.IsWin {
			cw++
			cl = 0
			if cw > k.MaxWinStreak {
				k.MaxWinStreak = cw
			}
		} else {
			cl++
			cw = 0
			if cl > k.MaxLossStreak {
				k.MaxLossStreak = cl
			}
		}
	}

	for i := len(trades) - 1; i >= 0; i-- {
		if i == len(trades)-1 {
			if trades[i].IsWin {
				k.CurrentStreak = 1
			} else {
				k.CurrentStreak = -1
			}
			continue
		}
		if trades[i].IsWin && k.CurrentStreak > 0 {
			k.CurrentStreak++
		} else if !trades[i].IsWin && k.CurrentStreak < 0 {
			k.CurrentStreak--
		} else {
			break
		}
	}
}

func (k *KPISet) computeCalendar(trades []roundtrip.Trade) {
	for _, t := range trades {
		if t.Date.IsZero() {
			continue
		}
		day := t.Date.Format("2006-01-02")
		ds := k.DailyPL[day]
		if ds == nil {
			ds = &DayStats{}
			k.DailyPL[day] = ds
		}
		ds.PL += t.DollarPL
		ds.Trades++
		if t.IsWin {
			ds.Wins++
		}

		wk := mondayOf(t.Date).Format("2006-01-02")
		ws := k.WeeklyPL[wk]
		if ws == nil {
			ws = &WeekStats{}
			k.WeeklyPL[wk] = ws
		}
		ws.PL += t.DollarPL
		ws.Trades++
		if t.IsWin {
			ws.Wins++
		} else {
			ws.Losses++
		}
	}

	for day, ds := range k.DailyPL {
		k.TradingDays = append(k.TradingDays, day)
		if ds.PL > 0 {
			k.ProfitableDays++
		}
	}
	sort.Strings(k.TradingDays)

	if n := len(k.TradingDays); n > 0 {
		k.ProfitPerDay = k.NetPL / float64(n)
		k.TradesPerDay = float64(k.TotalTrades) / float64(n)
	}
}

func (k *KPISet) computeRiskDist(trades []roundtrip.Trade, riskCount int) {
	if riskCount == 0 {
		return
	}
	for i := 0; i < len(riskBands)-1; i++ {
		lo, hi := riskBands[i], riskBands[i+1]
		count := 0
		for _, t := range trades {
			if t.RiskDollars > 0 && t.RiskDollars >= lo && t.RiskDollars < hi {
				count++
			}
		}
		if count == 0 {
			continue // zero bands are omitted
		}
		label := bandLabel(lo, hi)
		k.RiskDist = append(k.RiskDist, RiskBucket{
			Label: label,
			Count: count,
			Pct:   float64(count) / float64(riskCount) * 100,
		})
	}
}

func bandLabel(lo, hi float64) string {
	if math.IsInf(hi, 1) {
		return "$" + strconv.Itoa(int(lo)) + "+"
	}
	return "$" + strconv.Itoa(int(lo)) + "-$" + strconv.Itoa(int(hi))
}

// mondayOf returns the Monday of the week containing d.
func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
