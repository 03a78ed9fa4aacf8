package core

import "time"

// SignalData is the per-ticker, per-day view a Strategy evaluates. Fields are
// pointers because early trading days lack enough history to seed every
// indicator; a nil field means "not yet available" and strategies must treat
// it as a non-match rather than panic.
type SignalData struct {
	Ticker string
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	MA20  *float64
	MA60  *float64
	MA120 *float64
	MA200 *float64

	EMA20  *float64
	EMA50  *float64
	EMA120 *float64
	EMA200 *float64

	ATR20 *float64
	RSI14 *float64

	High10 *float64
	High20 *float64

	EMA50Slope *float64
}

// IndicatorKind enumerates the indicator families the kernel can compute.
type IndicatorKind string

const (
	IndicatorSMA      IndicatorKind = "SMA"
	IndicatorEMA      IndicatorKind = "EMA"
	IndicatorATR      IndicatorKind = "ATR"
	IndicatorRSI      IndicatorKind = "RSI"
	IndicatorRollHigh IndicatorKind = "ROLLING_HIGH"
	IndicatorEMASlope IndicatorKind = "EMA_SLOPE"
	IndicatorEMAStage IndicatorKind = "EMA_STAGE"
)

// IndicatorValue is one computed indicator point, addressable by ticker,
// date, kind and a canonically-encoded parameter set (e.g. {"period":20}).
type IndicatorValue struct {
	Ticker     string
	Date       time.Time
	Kind       IndicatorKind
	ParamsJSON string
	Value      float64
}
