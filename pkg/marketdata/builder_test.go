package marketdata

import (
	"testing"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
)

func flatCandles(ticker string, n int, price float64) core.CandleSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(core.CandleSeries, n)
	for i := range out {
		out[i] = core.Candle{
			Ticker: ticker,
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price,
			Volume: 1000,
		}
	}
	return out
}

func TestBuild_OnlyConfiguredFieldsArePopulated(t *testing.T) {
	candles := flatCandles("AAPL", 30, 100)
	frame := Build("AAPL", candles, Periods{MA: []int{20}})

	sd := frame.At(candles[29].Date)
	require.NotNil(t, sd)
	require.NotNil(t, sd.MA20, "MA20 was configured")
	require.Nil(t, sd.MA60, "MA60 was never configured, so it must stay nil")
	require.Nil(t, sd.ATR20, "ATR was never configured, so it must stay nil")
	require.Nil(t, sd.RSI14)
}

func TestBuild_ZeroATROmitsComputationEntirely(t *testing.T) {
	candles := flatCandles("AAPL", 30, 100)
	frame := Build("AAPL", candles, Periods{ATR: 0, EMASlope: 50})

	for _, d := range frame.Dates {
		require.Nil(t, frame.At(d).ATR20)
		require.Nil(t, frame.At(d).EMA50Slope, "slope also needs ATR > 0 to compute")
	}
}

func TestFrame_AtReturnsNilForUnknownDate(t *testing.T) {
	candles := flatCandles("AAPL", 5, 100)
	frame := Build("AAPL", candles, Periods{})

	require.Nil(t, frame.At(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestBuild_CarriesRawOHLCVThrough(t *testing.T) {
	candles := flatCandles("AAPL", 5, 100)
	frame := Build("AAPL", candles, Periods{})

	sd := frame.At(candles[0].Date)
	require.Equal(t, candles[0].Open, sd.Open)
	require.Equal(t, candles[0].High, sd.High)
	require.Equal(t, candles[0].Low, sd.Low)
	require.Equal(t, candles[0].Close, sd.Close)
	require.Equal(t, candles[0].Volume, sd.Volume)
	require.Equal(t, "AAPL", sd.Ticker)
}

func TestBuild_MA20WarmsUpAfterTwentyBars(t *testing.T) {
	candles := flatCandles("AAPL", 25, 100)
	frame := Build("AAPL", candles, Periods{MA: []int{20}})

	// On a perfectly flat series, once warmed up MA20 must equal the price.
	sd := frame.At(candles[24].Date)
	require.NotNil(t, sd.MA20)
	require.InDelta(t, 100.0, *sd.MA20, 0.0001)
}
