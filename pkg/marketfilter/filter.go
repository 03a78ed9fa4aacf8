// Package marketfilter implements the breadth gate that blocks new entries
// when the broad market is not in an uptrend, independent of any single
// ticker's own setup.
package marketfilter

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/marketdata"
)

// Filter evaluates market regime off two configured breadth indices (e.g. a
// broad-market and a secondary index), requiring both to be above their own
// moving average for the market to be considered bullish.
type Filter struct {
	primary, secondary *marketdata.Frame
	maPeriod            int
	slopeThreshold      float64
}

// New builds a Filter over two precomputed index frames. maPeriod documents
// which moving-average field callers should have precomputed onto the
// frames (the original uses a 60-day MA); slopeThreshold gates the
// structural EMA50-slope check used by IsStructureOK.
func New(primary, secondary *marketdata.Frame, maPeriod int, slopeThreshold float64) *Filter {
	return &Filter{primary: primary, secondary: secondary, maPeriod: maPeriod, slopeThreshold: slopeThreshold}
}

// IsBullish requires both indices to close above their 60-day moving
// average on date. Missing data for either index is treated as not bullish.
func (f *Filter) IsBullish(date time.Time) bool {
	p := f.primary.At(date)
	s := f.secondary.At(date)
	if p == nil || s == nil || p.MA60 == nil || s.MA60 == nil {
		return false
	}
	return p.Close > *p.MA60 && s.Close > *s.MA60
}

// IsStructureOK requires both indices' EMA50 slope to be at or above
// threshold, used as the trend-following strategy's stricter market filter.
func (f *Filter) IsStructureOK(date time.Time) bool {
	p := f.primary.At(date)
	s := f.secondary.At(date)
	if p == nil || s == nil || p.EMA50Slope == nil || s.EMA50Slope == nil {
		return false
	}
	return *p.EMA50Slope >= f.slopeThreshold && *s.EMA50Slope >= f.slopeThreshold
}
