// Package report renders a finished session's metric.Stats as a text table
// and equity/return histogram, following Backnrun.Summary's table-plus-
// histogram presentation.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/nawhizz/trend-surfer/pkg/metric"
	"github.com/olekukonko/tablewriter"
)

const drawdownDateLayout = "2006-01-02"

// formatDrawdownDate renders the max-drawdown trough date, or "-" when no
// drawdown was recorded (a zero time.Time).
func formatDrawdownDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(drawdownDateLayout)
}

// WriteSummary renders the session header table: trade counts, win rate,
// payoff, profit factor, SQN, CAGR, max drawdown and Sharpe ratio.
func WriteSummary(w io.Writer, sessionID string, stats metric.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	rows := [][]string{
		{"Session", sessionID},
		{"Trades", strconv.Itoa(stats.TotalTrades)},
		{"Win", strconv.Itoa(stats.WinningTrades)},
		{"Loss", strconv.Itoa(stats.LosingTrades)},
		{"% Win", fmt.Sprintf("%.1f", stats.WinRate)},
		{"Payoff", fmt.Sprintf("%.2f", stats.Payoff)},
		{"Pr.Fact", fmt.Sprintf("%.2f", stats.ProfitFactor)},
		{"SQN", fmt.Sprintf("%.2f", stats.SQN)},
		{"Total PnL", fmt.Sprintf("%.2f", stats.TotalPnL)},
		{"Return %", fmt.Sprintf("%.2f", stats.TotalReturnPct)},
		{"CAGR %", fmt.Sprintf("%.2f", stats.CAGR*100)},
		{"Max Drawdown %", fmt.Sprintf("%.2f", stats.MaxDrawdown*100)},
		{"Max DD Date", formatDrawdownDate(stats.MaxDrawdownDate)},
		{"Sharpe", fmt.Sprintf("%.2f", stats.SharpeRatio)},
		{"Avg R", fmt.Sprintf("%.2f", stats.AvgRMultiple)},
		{"Avg Hold (days)", fmt.Sprintf("%.1f", stats.AvgHoldingDays)},
		{"Max Win Streak", strconv.Itoa(stats.MaxConsecutiveWins)},
		{"Max Loss Streak", strconv.Itoa(stats.MaxConsecutiveLosses)},
	}
	table.AppendBulk(rows)
	table.Render()

	fmt.Fprintf(w, "RETURN CI (95%%): %.2f%% (%.2f%% ~ %.2f%%)\n",
		stats.ReturnBootstrap.Mean, stats.ReturnBootstrap.Lower, stats.ReturnBootstrap.Upper)
}

// WriteTradeReturnsHistogram renders a per-trade PnL% distribution, matching
// Backnrun.Summary's 15-bucket linear histogram over trade returns.
func WriteTradeReturnsHistogram(w io.Writer, trades []core.Trade) {
	if len(trades) == 0 {
		return
	}
	returns := make([]float64, len(trades))
	for i, t := range trades {
		returns[i] = t.PnLPct
	}
	hist := histogram.Hist(15, returns)
	histogram.Fprint(w, hist, histogram.Linear(10))
}

// WriteEquityCurve renders the daily equity series as an ASCII histogram of
// day-over-day returns, the closest uniplot primitive to a curve sparkline.
func WriteEquityCurve(w io.Writer, daily []core.DailyRecord) {
	if len(daily) < 2 {
		return
	}
	returns := make([]float64, 0, len(daily)-1)
	for i := 1; i < len(daily); i++ {
		prev := daily[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (daily[i].Equity-prev)/prev*100)
	}
	hist := histogram.Hist(20, returns)
	histogram.Fprint(w, hist, histogram.Linear(10))
}
