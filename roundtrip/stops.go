package roundtrip

import "github.com/EkantikCapitalAdvisors/Dashboard/fills"

// Line-proximity windows for linking a stop order to its entry fill. The
// feed never tags bracket relationships explicitly, so the association is a
// best-effort search by row distance. The bracket window expects the stop a
// few rows after the entry it protects; the wide window is the fallback
// sweep around the first entry. These may mis-link adjacent unrelated orders
// in very dense feeds; the constants are named so they can be tuned.
const (
	bracketWindowBack = 1
	bracketWindowFwd  = 4
	wideWindowBack    = 2
	wideWindowFwd     = 8
)

// resolveStop associates a protective-stop price with a round trip. First
// match wins:
//
//  1. an opposite-direction stop within the bracket window after any entry
//     fill (the bracket order placed alongside the entry)
//  2. the exit itself was a stop order: the stop fired, its price is the stop
//  3. an opposite-direction stop inside the wide window around the first entry
//
// Returns 0 when nothing resolves, which downstream code treats as
// "risk unknown", never as an error. A feed with no stops at all is fine.
func resolveStop(entries []fills.Order, exit fills.Order, stops []fills.Order) float64 {
	stopDir := entries[0].Direction.Opposite()

	for _, e := range entries {
		for _, s := range stops {
			if s.Direction != stopDir {
				continue
			}
			if s.Line > e.Line-bracketWindowBack && s.Line <= e.Line+bracketWindowFwd {
				if s.StopPrice > 0 {
					return s.StopPrice
				}
			}
		}
	}

	if exit.Type == "Stop" {
		return exit.AvgPrice
	}

	entryLine := entries[0].Line
	for _, s := range stops {
		if s.Direction != stopDir {
			continue
		}
		if s.Line > entryLine-wideWindowBack && s.Line < entryLine+wideWindowFwd {
			if s.StopPrice > 0 {
				return s.StopPrice
			}
		}
	}

	return 0
}
