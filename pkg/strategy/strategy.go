// Package strategy defines the pluggable trading-rule contract the engine
// drives, plus four reference strategies ported from the original system.
package strategy

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// DefaultReEntryCooldown is used when a Strategy doesn't override
// ReEntryCooldown — the number of trading days that must pass after a
// TRAILING_STOP exit before the same ticker may be entered again.
const DefaultReEntryCooldown = 5

// Strategy is the entry/exit rule contract the engine evaluates once per
// ticker per trading day. Implementations must be stateless across tickers:
// all per-position state (highest close, initial stop) is threaded back in
// by the caller, not held on the Strategy itself.
type Strategy interface {
	// Name identifies the strategy in reports and trade repositories.
	Name() string

	// ReEntryCooldown is the trading-day count a ticker must wait after a
	// TRAILING_STOP exit before a new entry signal is honored.
	ReEntryCooldown() int

	// CheckMarketFilter reports whether the broad market regime allows new
	// entries on date. Strategies that don't gate on market regime return
	// true unconditionally.
	CheckMarketFilter(date time.Time) bool

	// CheckEntrySignal reports whether data qualifies for a new entry.
	CheckEntrySignal(data *core.SignalData) bool

	// CheckExitSignal reports whether an open position should be closed
	// today, and why. highestClose and initialStop are read from the live
	// Position, since they carry state across days that SignalData doesn't.
	CheckExitSignal(data *core.SignalData, entryPrice float64, entryDate time.Time, highestClose, initialStop float64) (core.ExitReason, bool)

	// CalculateStopLoss derives the initial stop from the entry price and
	// the ATR observed on the signal day.
	CalculateStopLoss(entryPrice, atr float64) float64
}

// Pyramiding is an optional capability a Strategy implements to allow
// scaling into an existing winning position. The engine type-asserts for
// this interface each day rather than requiring every Strategy to support it.
type Pyramiding interface {
	// CheckPyramidSignal reports whether an add-on should be opened today.
	// currentMFER is the position's current favorable excursion in R;
	// currentRUnit/newRUnit are the original and recalculated per-share risk
	// distances; totalOpenRiskR is the portfolio's combined open risk in R.
	CheckPyramidSignal(data *core.SignalData, currentMFER, currentRUnit, newRUnit, totalOpenRiskR float64) bool

	// CalculatePyramidSize sizes the add-on; the engine then clamps the
	// returned share count to available cash.
	CalculatePyramidSize(capital, entryPrice, stopLoss float64) int
}
