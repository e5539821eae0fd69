// Package journal is the local trade cache: everything parsed on this device
// lands here before any remote sync, so a failed upload never costs a parse.
package journal

import "github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"

// Ledger is the local persistence surface. The SQLite implementation is the
// only one today; the interface keeps the importer testable without a DB.
type Ledger interface {
	SaveTrades(strategy string, trades []roundtrip.Trade, batchID string) (int, error)
	LoadTrades(strategy string) ([]roundtrip.Trade, error)
	DeleteBatch(strategy, batchID string) (int64, error)
	Close() error
}
