package fills

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"
)

// Column positions in the Tradovate order export.
const (
	colDirection = 3
	colAvgPrice  = 7
	colFilledQty = 8
	colFillTime  = 9
	colStatus    = 11
	colTimestamp = 17
	colType      = 21
	colStopPrice = 23

	minColumns = 22
)

// ParseOrders reads a Tradovate order export and returns one Order per
// structurally valid row, in feed order. Rows that are too short or have no
// recognizable direction are dropped; a bad row never aborts the batch.
// Numeric fields that fail to parse come back as zero, which keeps the row
// out of Filled() without losing it as a potential stop reference.
func ParseOrders(r io.Reader) ([]Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var orders []Order
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			continue // malformed row, keep going
		}
		if line == 1 {
			continue // header
		}
		if len(row) < minColumns {
			continue
		}

		dir, ok := parseDirection(field(row, colDirection))
		if !ok {
			continue
		}

		fillTime := field(row, colFillTime)
		if fillTime == "" {
			fillTime = field(row, colTimestamp)
		}
		ts, _ := ParseTimestamp(fillTime)

		orders = append(orders, Order{
			Line:      line,
			Direction: dir,
			AvgPrice:  parseFloat(field(row, colAvgPrice)),
			FilledQty: parseInt(field(row, colFilledQty)),
			FillTime:  ts,
			Status:    field(row, colStatus),
			Type:      field(row, colType),
			StopPrice: parseFloat(field(row, colStopPrice)),
		})
	}
	return orders, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, true
	case "sell":
		return Sell, true
	}
	return 0, false
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// Timestamp layouts seen across broker exports. Order matters: the most
// specific layouts go first so a bare date never swallows a datetime.
var timestampLayouts = []string{
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"1-2-2006 15:04:05",
	"1/2/2006",
	"2006-01-02",
	"1-2-2006",
	"1/2/06",
}

// ParseTimestamp normalizes the date formats broker feeds mix freely.
// Two-digit years are promoted to 20xx by the "1/2/06" layout.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOf truncates a fill timestamp to its trading date.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
