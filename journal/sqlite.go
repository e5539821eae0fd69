package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/EkantikCapitalAdvisors/Dashboard/fills"
	"github.com/EkantikCapitalAdvisors/Dashboard/roundtrip"
	"github.com/EkantikCapitalAdvisors/Dashboard/snapshot"
)

// SQLiteLedger caches trades in a local SQLite file, keyed by dedup key so
// re-importing an overlapping feed is a local no-op the same way it is
// remotely.
type SQLiteLedger struct {
	db  *sql.DB
	log *zap.Logger
}

func OpenSQLite(path string, log *zap.Logger) (*SQLiteLedger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db, log: log}, nil
}

// SaveTrades inserts with OR IGNORE so the primary key enforces dedup.
// Returns the number of rows actually inserted.
func (l *SQLiteLedger) SaveTrades(strategy string, trades []roundtrip.Trade, batchID string) (int, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO trades
		(strategy, dedup_key, week_key, entry_time, exit_time, direction,
		 entry_price, exit_price, stop_price, contracts, points_pl, dollar_pl,
		 risk_points, risk_dollars, reward_risk, is_win, trade_date,
		 trade_num, outcome, trailing_profit, upload_batch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, t := range trades {
		var rr float64
		if t.RewardRisk != nil {
			rr = *t.RewardRisk
		}
		var weekKey, tradeDate string
		if !t.Date.IsZero() {
			weekKey = snapshot.WeekKey(t.Date)
			tradeDate = t.Date.Format("2006-01-02")
		}
		res, err := stmt.Exec(
			strategy, t.DedupKey(), weekKey,
			formatTime(t.EntryTime), formatTime(t.ExitTime), t.Direction.String(),
			t.EntryPrice, t.ExitPrice, t.StopPrice, t.Contracts,
			t.PointsPL, t.DollarPL, t.RiskPoints, t.RiskDollars, rr,
			t.IsWin, tradeDate, t.SeqID, t.Outcome, t.TrailingProfit, batchID,
		)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	l.log.Debug("local ledger updated",
		zap.String("strategy", strategy),
		zap.String("batch", batchID),
		zap.Int("inserted", inserted))
	return inserted, nil
}

// LoadTrades returns a strategy's cached trades ordered by entry time.
func (l *SQLiteLedger) LoadTrades(strategy string) ([]roundtrip.Trade, error) {
	rows, err := l.db.Query(`
		SELECT entry_time, exit_time, direction, entry_price, exit_price,
		       stop_price, contracts, points_pl, dollar_pl, risk_points,
		       risk_dollars, reward_risk, is_win, trade_date, trade_num,
		       outcome, trailing_profit, upload_batch
		FROM trades
		WHERE strategy = ?
		ORDER BY entry_time ASC`, strategy)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roundtrip.Trade
	for rows.Next() {
		var (
			t                              roundtrip.Trade
			entryTime, exitTime, direction string
			tradeDate                      string
			rewardRisk                     float64
		)
		if err := rows.Scan(
			&entryTime, &exitTime, &direction, &t.EntryPrice, &t.ExitPrice,
			&t.StopPrice, &t.Contracts, &t.PointsPL, &t.DollarPL, &t.RiskPoints,
			&t.RiskDollars, &rewardRisk, &t.IsWin, &tradeDate, &t.SeqID,
			&t.Outcome, &t.TrailingProfit, &t.BatchID,
		); err != nil {
			return nil, err
		}
		t.Direction = roundtrip.ParseDirection(direction)
		if ts, ok := fills.ParseTimestamp(entryTime); ok {
			t.EntryTime = ts
		}
		if ts, ok := fills.ParseTimestamp(exitTime); ok {
			t.ExitTime = ts
		}
		if d, ok := fills.ParseTimestamp(tradeDate); ok {
			t.Date = fills.DateOf(d)
		}
		if rewardRisk != 0 {
			rr := rewardRisk
			t.RewardRisk = &rr
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteBatch removes everything one upload brought in.
func (l *SQLiteLedger) DeleteBatch(strategy, batchID string) (int64, error) {
	res, err := l.db.Exec(`
		DELETE FROM trades WHERE strategy = ? AND upload_batch = ?`,
		strategy, batchID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
