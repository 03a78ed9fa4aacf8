// Package metric computes performance statistics over a finished backtest
// session: the return/drawdown/risk-adjusted measures a report renders,
// plus a bootstrap confidence interval on the trade-return distribution.
package metric

import (
	"math"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/samber/lo"
)

// TradingDaysPerYear annualizes daily-equity-curve statistics.
const TradingDaysPerYear = 252

// Stats is the full performance summary rendered in reports, a superset of
// core.BasicStats adding CAGR, drawdown and the other risk-adjusted
// measures a daily equity curve alone doesn't give you.
type Stats struct {
	core.BasicStats

	CAGR            float64
	MaxDrawdown     float64
	MaxDrawdownDate time.Time
	SharpeRatio     float64
	ProfitFactor    float64
	Payoff          float64
	SQN             float64
	ReturnBootstrap BootstrapInterval
}

// Compute derives the full stat set from a session result. riskFreeRate is
// the annualized rate subtracted from returns before annualizing Sharpe.
func Compute(result *core.Result, riskFreeRate float64) Stats {
	basic := basicFrom(result.Trades, result.InitialCapital)
	ddPct, ddDate := maxDrawdown(result.DailyRecords)

	stats := Stats{
		BasicStats:      basic,
		CAGR:            cagr(result.InitialCapital, result.FinalEquity, result.DailyRecords),
		MaxDrawdown:     ddPct,
		MaxDrawdownDate: ddDate,
		SharpeRatio:     sharpeRatio(result.DailyRecords, riskFreeRate),
		ProfitFactor:    profitFactor(result.Trades),
		Payoff:          payoff(result.Trades),
		SQN:             sqn(result.Trades),
	}

	if returns := pnlPercents(result.Trades); len(returns) > 1 {
		stats.ReturnBootstrap = Bootstrap(returns, mean, 1000, 0.95)
	}
	return stats
}

func basicFrom(trades []core.Trade, initialCapital float64) core.BasicStats {
	var winning, losing int
	var totalPnL, totalR, totalHoldingDays float64
	var curWinStreak, curLossStreak, maxWinStreak, maxLossStreak int
	for _, t := range trades {
		totalPnL += t.PnL
		totalR += t.RMultiple
		totalHoldingDays += t.ExitDate.Sub(t.EntryDate).Hours() / 24

		if t.PnL > 0 {
			winning++
			curWinStreak++
			curLossStreak = 0
		} else {
			losing++
			curLossStreak++
			curWinStreak = 0
		}
		if curWinStreak > maxWinStreak {
			maxWinStreak = curWinStreak
		}
		if curLossStreak > maxLossStreak {
			maxLossStreak = curLossStreak
		}
	}
	total := len(trades)
	var winRate, avgR, avgHoldingDays float64
	if total > 0 {
		winRate = float64(winning) / float64(total) * 100
		avgR = totalR / float64(total)
		avgHoldingDays = totalHoldingDays / float64(total)
	}
	var returnPct float64
	if initialCapital > 0 {
		returnPct = totalPnL / initialCapital * 100
	}
	return core.BasicStats{
		TotalTrades:          total,
		WinningTrades:        winning,
		LosingTrades:         losing,
		WinRate:              winRate,
		TotalPnL:             totalPnL,
		TotalReturnPct:       returnPct,
		AvgRMultiple:         avgR,
		AvgHoldingDays:       avgHoldingDays,
		MaxConsecutiveWins:   maxWinStreak,
		MaxConsecutiveLosses: maxLossStreak,
	}
}

func cagr(initial, final float64, daily []core.DailyRecord) float64 {
	if initial <= 0 || final <= 0 || len(daily) < 2 {
		return 0
	}
	years := float64(len(daily)) / TradingDaysPerYear
	if years <= 0 {
		return 0
	}
	return math.Pow(final/initial, 1/years) - 1
}

// maxDrawdown is the largest peak-to-trough decline in the equity curve,
// expressed as a positive fraction, along with the date the trough fell on.
func maxDrawdown(daily []core.DailyRecord) (float64, time.Time) {
	var peak, worst float64
	var worstDate time.Time
	for _, d := range daily {
		if d.Equity > peak {
			peak = d.Equity
		}
		if peak > 0 {
			if dd := (peak - d.Equity) / peak; dd > worst {
				worst = dd
				worstDate = d.Date
			}
		}
	}
	return worst, worstDate
}

// sharpeRatio annualizes the mean/stddev of daily returns net of
// riskFreeRate/TradingDaysPerYear, the per-day equivalent of the
// configured annual risk-free rate.
func sharpeRatio(daily []core.DailyRecord, riskFreeRate float64) float64 {
	if len(daily) < 2 {
		return 0
	}
	dailyRiskFree := riskFreeRate / TradingDaysPerYear
	returns := make([]float64, 0, len(daily)-1)
	for i := 1; i < len(daily); i++ {
		prev := daily[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (daily[i].Equity-prev)/prev-dailyRiskFree)
	}
	if len(returns) < 2 {
		return 0
	}
	avg := mean(returns)
	var variance float64
	for _, r := range returns {
		variance += (r - avg) * (r - avg)
	}
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}
	return avg / stdDev * math.Sqrt(TradingDaysPerYear)
}

// profitFactor is gross profit over gross loss, ported from
// order.TradeSummary.ProfitFactor.
func profitFactor(trades []core.Trade) float64 {
	var grossProfit, grossLoss float64
	for _, t := range trades {
		if t.PnL > 0 {
			grossProfit += t.PnL
		} else {
			grossLoss += t.PnL
		}
	}
	if grossLoss == 0 {
		return 0
	}
	return grossProfit / math.Abs(grossLoss)
}

// payoff is average win over average loss magnitude, ported from
// order.TradeSummary.Payoff.
func payoff(trades []core.Trade) float64 {
	wins, losses := splitByOutcome(trades)
	if len(wins) == 0 || len(losses) == 0 {
		return 0
	}
	avgWin := mean(wins)
	avgLoss := mean(losses)
	if avgLoss == 0 {
		return 0
	}
	return avgWin / math.Abs(avgLoss)
}

// sqn is the System Quality Number, ported from order.TradeSummary.SQN.
func sqn(trades []core.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}
	pnls := make([]float64, len(trades))
	for i, t := range trades {
		pnls[i] = t.PnL
	}
	avg := mean(pnls)
	var variance float64
	for _, p := range pnls {
		variance += (p - avg) * (p - avg)
	}
	variance /= float64(len(pnls))
	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}
	return math.Sqrt(float64(len(pnls))) * (avg / stdDev)
}

func splitByOutcome(trades []core.Trade) (wins, losses []float64) {
	for _, t := range trades {
		if t.PnL > 0 {
			wins = append(wins, t.PnL)
		} else {
			losses = append(losses, t.PnL)
		}
	}
	return wins, losses
}

func pnlPercents(trades []core.Trade) []float64 {
	return lo.Map(trades, func(t core.Trade, _ int) float64 { return t.PnLPct })
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
