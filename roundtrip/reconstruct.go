package roundtrip

import (
	"math"

	"github.com/EkantikCapitalAdvisors/Dashboard/fills"
)

// positionState is the reconstructor's explicit state. The running signed
// position fully determines it, but keeping it as a tag makes the
// reverse-through-zero branch a single explicit case instead of an emergent
// side effect of sign arithmetic.
type positionState int8

const (
	flat positionState = iota
	openLong
	openShort
)

func stateOf(position int) positionState {
	switch {
	case position > 0:
		return openLong
	case position < 0:
		return openShort
	}
	return flat
}

// Reconstruct replays filled orders strictly in feed order through a
// position-tracking state machine and emits one Trade per completed round
// trip. Stop-type orders from the same feed drive risk resolution.
//
// Transitions per filled order (signed qty = +qty buy, -qty sell):
//   - flat -> open: start a new entry group
//   - same sign, still open: scale-in, accumulate the entry group
//   - to exactly zero: close, emit one trade for abs(previous position)
//   - sign flip through zero: close the old position at this fill, then
//     immediately reopen the other way sized to the residual quantity
//
// A feed that ends with an open position simply never emits that last trade.
func Reconstruct(orders []fills.Order, pointMultiplier float64) []Trade {
	filled := fills.Filled(orders)
	stops := fills.Stops(orders)

	var (
		trades   []Trade
		entries  []fills.Order
		position int
	)

	for _, order := range filled {
		prev := position
		position += order.SignedQty()

		switch {
		case stateOf(prev) == flat:
			entries = []fills.Order{order}

		case stateOf(prev) == stateOf(position) && position != 0:
			entries = append(entries, order)

		case position == 0:
			trades = append(trades, buildTrade(entries, order, abs(prev), stops, pointMultiplier))
			entries = nil

		default: // crossed through zero, reversed
			trades = append(trades, buildTrade(entries, order, abs(prev), stops, pointMultiplier))
			residual := order
			residual.FilledQty = abs(position)
			entries = []fills.Order{residual}
		}
	}

	return trades
}

// buildTrade combines an entry-fill group with its exit fill.
func buildTrade(entries []fills.Order, exit fills.Order, contracts int, stops []fills.Order, pointMultiplier float64) Trade {
	var sumPrice float64
	var sumQty int
	for _, e := range entries {
		sumPrice += e.AvgPrice * float64(e.FilledQty)
		sumQty += e.FilledQty
	}
	entryPrice := sumPrice / float64(sumQty)

	dir := Long
	if entries[0].Direction == fills.Sell {
		dir = Short
	}

	var points float64
	if dir == Short {
		points = entryPrice - exit.AvgPrice
	} else {
		points = exit.AvgPrice - entryPrice
	}
	dollars := points * pointMultiplier * float64(contracts)

	stopPrice := resolveStop(entries, exit, stops)

	var riskPoints, riskDollars float64
	var rewardRisk *float64
	if stopPrice > 0 {
		riskPoints = math.Abs(entryPrice - stopPrice)
		riskDollars = riskPoints * pointMultiplier * float64(contracts)
		if riskPoints > 0 {
			rr := points / riskPoints
			rewardRisk = &rr
		}
	}

	return Trade{
		EntryTime:   entries[0].FillTime,
		ExitTime:    exit.FillTime,
		Direction:   dir,
		EntryPrice:  entryPrice,
		ExitPrice:   exit.AvgPrice,
		StopPrice:   stopPrice,
		Contracts:   contracts,
		PointsPL:    points,
		DollarPL:    dollars,
		RiskPoints:  riskPoints,
		RiskDollars: riskDollars,
		RewardRisk:  rewardRisk,
		IsWin:       dollars > 0,
		Date:        fills.DateOf(entries[0].FillTime),
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
