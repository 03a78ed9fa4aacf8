package indicator

import (
	"fmt"
	"math"
)

// RollingHigh computes, for each index i, the maximum close strictly before
// i over the trailing period values — close[i] itself is excluded. The first
// `period` entries are NaN. This asymmetry with a simple rolling-max is
// deliberate: a breakout signal must compare today's close against the high
// of days *before* today, or the signal would see its own trigger bar.
func RollingHigh(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	for i := period; i < len(closes); i++ {
		max := closes[i-period]
		for j := i - period + 1; j < i; j++ {
			if closes[j] > max {
				max = closes[j]
			}
		}
		out[i] = max
	}
	return out
}

// EMASlope is the day-over-day change in an EMA, normalized by that day's
// ATR so the slope is comparable across tickers and volatility regimes.
// A value is only produced where both EMA points and a positive ATR exist.
func EMASlope(close, high, low []float64, emaPeriod, atrPeriod int) []float64 {
	ema := EMA(close, emaPeriod)
	atr := ATR(high, low, close, atrPeriod)

	out := make([]float64, len(close))
	out[0] = math.NaN()
	for i := 1; i < len(close); i++ {
		out[i] = math.NaN()
		if math.IsNaN(ema[i]) || math.IsNaN(ema[i-1]) || math.IsNaN(atr[i]) || atr[i] <= 0 {
			continue
		}
		out[i] = (ema[i] - ema[i-1]) / atr[i]
	}
	return out
}

// EMAStage classifies the ordering of a short/medium/long EMA triple into
// one of 6 stages (1 through 6), or 0 when the three values tie in a way
// that doesn't fit a strict ordering. Indices before the longest EMA has
// warmed up are left at 0.
type EMAStageParams struct {
	Short, Medium, Long int
}

// DefaultEMAStageParams matches the original classifier's periods.
var DefaultEMAStageParams = EMAStageParams{Short: 5, Medium: 20, Long: 40}

func EMAStage(closes []float64, p EMAStageParams) []int {
	short := EMA(closes, p.Short)
	medium := EMA(closes, p.Medium)
	long := EMA(closes, p.Long)

	out := make([]int, len(closes))
	start := p.Long - 1
	if start < 0 {
		start = 0
	}
	for i := start; i < len(closes); i++ {
		s, m, l := short[i], medium[i], long[i]
		if math.IsNaN(s) || math.IsNaN(m) || math.IsNaN(l) {
			continue
		}
		switch {
		case s > m && m > l:
			out[i] = 1
		case m > s && s > l:
			out[i] = 2
		case m > l && l > s:
			out[i] = 3
		case l > m && m > s:
			out[i] = 4
		case l > s && s > m:
			out[i] = 5
		case s > l && l > m:
			out[i] = 6
		default:
			out[i] = 0
		}
	}
	return out
}

// Compute dispatches a named indicator kind to its underlying implementation
// against an OHLC series. marketdata.Build does not go through it: it calls
// SMA, EMA, ATR, RSI, RollingHigh and EMASlope directly.
func Compute(kind string, params map[string]int, closes, highs, lows []float64) ([]float64, error) {
	switch kind {
	case "SMA":
		return SMA(closes, params["period"]), nil
	case "EMA":
		return EMA(closes, params["period"]), nil
	case "ATR":
		return ATR(highs, lows, closes, params["period"]), nil
	case "RSI":
		return RSI(closes, params["period"]), nil
	case "ROLLING_HIGH":
		return RollingHigh(closes, params["period"]), nil
	case "EMA_SLOPE":
		return EMASlope(closes, highs, lows, params["period"], atrPeriodOrDefault(params)), nil
	default:
		return nil, fmt.Errorf("indicator: unknown kind %q", kind)
	}
}

func atrPeriodOrDefault(params map[string]int) int {
	if p, ok := params["atr_period"]; ok {
		return p
	}
	return 20
}
