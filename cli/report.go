package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/template"
	"time"

	"github.com/EkantikCapitalAdvisors/Dashboard/stats"
)

// PrintKPIReport writes the plain-text performance summary.
func PrintKPIReport(w io.Writer, strategy string, k *stats.KPISet) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Performance Report: %s\n", strategy)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d (%d long / %d short)\n", k.TotalTrades, k.LongCount, k.ShortCount)
	fmt.Fprintf(w, "Wins:          %d\n", k.WinCount)
	fmt.Fprintf(w, "Losses:        %d\n", k.LossCount)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", k.WinRate)
	fmt.Fprintf(w, "Profit Factor: %s\n", ratio(k.ProfitFactor))
	fmt.Fprintf(w, "W/L Ratio:     %s\n", ratio(k.WLRatio))
	fmt.Fprintf(w, "Expectancy:    %.2f R\n", k.ExpectancyR)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "P&L")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Net P/L:       $%.2f (%.2f pts)\n", k.NetPL, k.NetPoints)
	fmt.Fprintf(w, "Return:        %.2f%%\n", k.ReturnPct)
	fmt.Fprintf(w, "EV per Trade:  $%.2f (planned %.1f%%R, actual %.1f%%R)\n", k.EVPerTrade, k.EVPlannedR, k.EVActualR)
	fmt.Fprintf(w, "Best / Worst:  $%.2f / $%.2f\n", k.BestTrade, k.WorstTrade)
	fmt.Fprintf(w, "Per Day:       $%.2f over %d days (%.1f trades/day)\n", k.ProfitPerDay, len(k.TradingDays), k.TradesPerDay)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Risk")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Max Drawdown:  $%.2f (%.2f%%)\n", k.MaxDD, k.MaxDDPct)
	fmt.Fprintf(w, "Current DD:    $%.2f\n", k.CurrentDD)
	fmt.Fprintf(w, "Recovery:      %s\n", ratio(k.RecoveryFactor))
	fmt.Fprintf(w, "Avg Risk:      $%.2f (max $%.2f, adherence %.1f%%)\n", k.AvgRiskDollars, k.MaxRiskDollars, k.RiskAdherence)
	fmt.Fprintf(w, "Streaks:       +%d / -%d (current %+d)\n", k.MaxWinStreak, k.MaxLossStreak, k.CurrentStreak)

	if len(k.RiskDist) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Risk Distribution")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, b := range k.RiskDist {
			fmt.Fprintf(w, "%-12s %4d  (%.1f%%)\n", b.Label, b.Count, b.Pct)
		}
	}

	fmt.Fprintln(w)
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}

var reportOrgFuncs = template.FuncMap{
	"pf": func(v float64) string { return ratio(v) },
	"today": func() string {
		return time.Now().Format("2006-01-02 Mon")
	},
}

// WriteKPIOrg renders the report as an org-mode block for the trading
// journal and writes it to path.
func WriteKPIOrg(path, strategy string, k *stats.KPISet) error {
	t, err := template.New("report").Funcs(reportOrgFuncs).Parse(kpiOrgTemplate)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return t.Execute(f, struct {
		Strategy string
		K        *stats.KPISet
	}{strategy, k})
}

const kpiOrgTemplate = `
* PERFORMANCE: {{.Strategy}}
:PROPERTIES:
:CREATED:     [{{today}}]
:TRADES:      {{.K.TotalTrades}}
:WINS:        {{.K.WinCount}}
:LOSSES:      {{.K.LossCount}}
:WIN_RATE:    {{printf "%.2f" .K.WinRate}}
:NET_PL:      {{printf "%.2f" .K.NetPL}}
:RETURN_PCT:  {{printf "%.2f" .K.ReturnPct}}
:MAX_DD:      {{printf "%.2f" .K.MaxDD}}
:MAX_DD_PCT:  {{printf "%.2f" .K.MaxDDPct}}
:PROFIT_FAC:  {{pf .K.ProfitFactor}}
:END:

** Expectancy
- EV per trade:  ${{printf "%.2f" .K.EVPerTrade}}
- Planned R:     {{printf "%.1f" .K.EVPlannedR}}%
- Actual R:      {{printf "%.1f" .K.EVActualR}}%

** Streaks
| Longest win run  | {{.K.MaxWinStreak}} |
| Longest loss run | {{.K.MaxLossStreak}} |
| Current          | {{.K.CurrentStreak}} |

{{- if .K.RiskDist}}

** Risk Distribution
| Band | Count | Share |
|------+-------+-------|
{{- range .K.RiskDist}}
| {{.Label}} | {{.Count}} | {{printf "%.1f" .Pct}}% |
{{- end}}
{{- end}}
`
