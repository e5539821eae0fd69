// Package fills normalizes raw broker order exports into typed fill records.
package fills

import "time"

// Direction is the side of an order: +1 buy, -1 sell.
type Direction int8

const (
	Buy  Direction = +1
	Sell Direction = -1
)

func (d Direction) String() string {
	if d == Sell {
		return "Sell"
	}
	return "Buy"
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	return -d
}

// Order is one row of the broker's order-level export. Immutable once parsed.
type Order struct {
	Line      int // 1-based line number in the source feed
	Direction Direction
	AvgPrice  float64
	FilledQty int
	FillTime  time.Time
	Status    string
	Type      string // "Market", "Limit", "Stop", ...
	StopPrice float64
}

// SignedQty is the position delta this order applies when filled.
func (o Order) SignedQty() int {
	return int(o.Direction) * o.FilledQty
}

// Filled returns the orders that actually moved the position: status Filled
// with a positive fill price and quantity, in feed order.
func Filled(orders []Order) []Order {
	var out []Order
	for _, o := range orders {
		if o.Status == "Filled" && o.AvgPrice > 0 && o.FilledQty > 0 {
			out = append(out, o)
		}
	}
	return out
}

// Stops returns every stop-type order in the feed, filled or not. Working
// stops carry the protective price even when they never execute.
func Stops(orders []Order) []Order {
	var out []Order
	for _, o := range orders {
		if o.Type == "Stop" {
			out = append(out, o)
		}
	}
	return out
}
