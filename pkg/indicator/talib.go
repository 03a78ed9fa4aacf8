// Package indicator provides the technical-indicator kernel used to
// precompute every per-ticker, per-day value strategies read from
// core.SignalData. The moving-average and oscillator primitives are thin
// wrappers over go-talib; the look-ahead-safe rolling high, ATR-normalized
// EMA slope and EMA-stage classifier have no talib equivalent and are
// hand-rolled in kernel.go.
package indicator

import "github.com/markcheno/go-talib"

// SMA calculates the simple moving average.
func SMA(input []float64, period int) []float64 {
	return talib.Sma(input, period)
}

// EMA calculates the exponential moving average, seeded by an SMA over the
// first period values per go-talib's convention.
func EMA(input []float64, period int) []float64 {
	return talib.Ema(input, period)
}

// ATR calculates the Average True Range using Wilder's smoothing.
func ATR(high, low, close []float64, period int) []float64 {
	return talib.Atr(high, low, close, period)
}

// RSI calculates the Relative Strength Index using Wilder's smoothing.
func RSI(input []float64, period int) []float64 {
	return talib.Rsi(input, period)
}
