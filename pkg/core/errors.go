package core

import "errors"

// Sentinel errors form the taxonomy dispatched on via errors.Is/errors.As
// throughout the engine, strategies and storage adapters.
var (
	// ErrDataUnavailable is returned when a candle or indicator value is
	// requested for a ticker/date pair that has no data.
	ErrDataUnavailable = errors.New("core: data unavailable")

	// ErrInsufficientCash is returned when a position open would overdraw
	// the portfolio's cash balance.
	ErrInsufficientCash = errors.New("core: insufficient cash")

	// ErrInvalidStop is returned when a stop-loss is not below entry price.
	ErrInvalidStop = errors.New("core: invalid stop loss")

	// ErrRiskCapExceeded is returned when a new position would push total
	// portfolio risk past the configured cap.
	ErrRiskCapExceeded = errors.New("core: portfolio risk cap exceeded")

	// ErrSinkFailure wraps a failure writing to a TradeRepository or
	// CandleStore sink; callers should log and continue, not abort.
	ErrSinkFailure = errors.New("core: sink failure")

	// ErrInternalInvariantViolation marks a defect in engine bookkeeping
	// (e.g. a close on a ticker with no open position).
	ErrInternalInvariantViolation = errors.New("core: internal invariant violation")
)
