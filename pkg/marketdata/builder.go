// Package marketdata turns raw candle series into the precomputed,
// look-ahead-safe core.SignalData frames strategies read from. Every
// indicator a strategy might need is computed once per ticker up front,
// rather than recomputed inside the daily loop.
package marketdata

import (
	"math"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/nawhizz/trend-surfer/pkg/indicator"
)

// Periods configures which lookback windows get precomputed. Strategies
// that don't use a given field simply see it stay nil.
type Periods struct {
	MA          []int // e.g. 20, 60, 120, 200
	EMA         []int // e.g. 20, 50, 120, 200
	ATR         int   // e.g. 20
	RSI         int   // e.g. 14
	RollingHigh []int // e.g. 10, 20
	EMASlope    int   // e.g. 50, paired with ATR for normalization
}

// DefaultPeriods matches the fields the four reference strategies read.
var DefaultPeriods = Periods{
	MA:          []int{20, 60, 120, 200},
	EMA:         []int{20, 50, 120, 200},
	ATR:         20,
	RSI:         14,
	RollingHigh: []int{10, 20},
	EMASlope:    50,
}

// Frame holds the per-date SignalData for one ticker, chronologically
// indexed by calendar date for O(1) lookup during the daily loop.
type Frame struct {
	Ticker string
	Dates  []time.Time
	byDate map[time.Time]*core.SignalData
}

// At returns the signal data for date, or nil if the ticker had no candle
// on that date.
func (f *Frame) At(date time.Time) *core.SignalData {
	return f.byDate[date]
}

// Build computes every configured indicator for a single ticker's candle
// series and returns a Frame of per-day SignalData.
func Build(ticker string, candles core.CandleSeries, p Periods) *Frame {
	closes := candles.Closes()
	highs := candles.Highs()
	lows := candles.Lows()

	mas := make(map[int][]float64, len(p.MA))
	for _, period := range p.MA {
		mas[period] = indicator.SMA(closes, period)
	}
	emas := make(map[int][]float64, len(p.EMA))
	for _, period := range p.EMA {
		emas[period] = indicator.EMA(closes, period)
	}
	highsByPeriod := make(map[int][]float64, len(p.RollingHigh))
	for _, period := range p.RollingHigh {
		highsByPeriod[period] = indicator.RollingHigh(closes, period)
	}

	var atr, rsi, slope []float64
	if p.ATR > 0 {
		atr = indicator.ATR(highs, lows, closes, p.ATR)
	}
	if p.RSI > 0 {
		rsi = indicator.RSI(closes, p.RSI)
	}
	if p.EMASlope > 0 && p.ATR > 0 {
		slope = indicator.EMASlope(closes, highs, lows, p.EMASlope, p.ATR)
	}

	frame := &Frame{
		Ticker: ticker,
		Dates:  make([]time.Time, len(candles)),
		byDate: make(map[time.Time]*core.SignalData, len(candles)),
	}

	for i, c := range candles {
		sd := &core.SignalData{
			Ticker: ticker,
			Date:   c.Date,
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		}

		sd.MA20 = ptrAt(mas[20], i)
		sd.MA60 = ptrAt(mas[60], i)
		sd.MA120 = ptrAt(mas[120], i)
		sd.MA200 = ptrAt(mas[200], i)

		sd.EMA20 = ptrAt(emas[20], i)
		sd.EMA50 = ptrAt(emas[50], i)
		sd.EMA120 = ptrAt(emas[120], i)
		sd.EMA200 = ptrAt(emas[200], i)

		sd.ATR20 = ptrAt(atr, i)
		sd.RSI14 = ptrAt(rsi, i)

		sd.High10 = ptrAt(highsByPeriod[10], i)
		sd.High20 = ptrAt(highsByPeriod[20], i)

		sd.EMA50Slope = ptrAt(slope, i)

		frame.Dates[i] = c.Date
		frame.byDate[c.Date] = sd
	}

	return frame
}

// ptrAt returns a pointer to series[i] unless it is out of range or NaN, in
// which case it returns nil so strategies can treat "not yet available"
// uniformly regardless of which indicator was too short to compute.
func ptrAt(series []float64, i int) *float64 {
	if i < 0 || i >= len(series) {
		return nil
	}
	v := series[i]
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
