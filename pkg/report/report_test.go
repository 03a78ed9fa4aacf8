package report

import (
	"bytes"
	"testing"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/nawhizz/trend-surfer/pkg/metric"
	"github.com/stretchr/testify/require"
)

func TestWriteSummary_RendersTableAndConfidenceInterval(t *testing.T) {
	var buf bytes.Buffer
	stats := metric.Stats{
		BasicStats: core.BasicStats{
			TotalTrades: 10, WinningTrades: 6, LosingTrades: 4,
			WinRate: 60, TotalPnL: 5000, TotalReturnPct: 5.0,
		},
		CAGR: 0.12, MaxDrawdown: 0.08, SharpeRatio: 1.4, ProfitFactor: 2.1, Payoff: 1.5, SQN: 2.3,
		ReturnBootstrap: metric.BootstrapInterval{Mean: 5, Lower: 2, Upper: 8, StdDev: 2},
	}

	WriteSummary(&buf, "test-session", stats)
	out := buf.String()

	require.Contains(t, out, "test-session")
	require.Contains(t, out, "Trades")
	require.Contains(t, out, "10")
	require.Contains(t, out, "RETURN CI (95%)")
	require.Contains(t, out, "5.00")
}

func TestWriteTradeReturnsHistogram_SkipsWhenNoTrades(t *testing.T) {
	var buf bytes.Buffer
	WriteTradeReturnsHistogram(&buf, nil)
	require.Empty(t, buf.String())
}

func TestWriteTradeReturnsHistogram_RendersBucketsForTrades(t *testing.T) {
	var buf bytes.Buffer
	trades := []core.Trade{
		{PnLPct: 5}, {PnLPct: -2}, {PnLPct: 10}, {PnLPct: 1},
	}
	WriteTradeReturnsHistogram(&buf, trades)
	require.NotEmpty(t, buf.String())
}

func TestWriteEquityCurve_SkipsWithFewerThanTwoDays(t *testing.T) {
	var buf bytes.Buffer
	WriteEquityCurve(&buf, []core.DailyRecord{{Equity: 100000}})
	require.Empty(t, buf.String())
}

func TestWriteEquityCurve_RendersDayOverDayReturns(t *testing.T) {
	var buf bytes.Buffer
	daily := []core.DailyRecord{
		{Equity: 100000}, {Equity: 101000}, {Equity: 99000}, {Equity: 102000},
	}
	WriteEquityCurve(&buf, daily)
	require.NotEmpty(t, buf.String())
}

func TestWriteEquityCurve_SkipsZeroEquityDaysWithoutDividingByZero(t *testing.T) {
	var buf bytes.Buffer
	daily := []core.DailyRecord{
		{Equity: 0}, {Equity: 100}, {Equity: 110},
	}
	require.NotPanics(t, func() { WriteEquityCurve(&buf, daily) })
}
