package core

import (
	"context"
	"time"
)

// CandleStore serves historical daily candles for one or more tickers. A
// backtest session is read-only against a CandleStore; nothing in the engine
// ever writes candles back through it.
type CandleStore interface {
	// Candles returns the full chronological candle series for ticker between
	// start and end (inclusive), wrapping ErrDataUnavailable if the ticker is
	// unknown.
	Candles(ctx context.Context, ticker string, start, end time.Time) (CandleSeries, error)

	// TradingDays returns the sorted, deduplicated set of session dates
	// observed across all tickers between start and end.
	TradingDays(ctx context.Context, start, end time.Time) ([]time.Time, error)

	// Close releases any underlying resources (file handles, DB connections).
	Close() error
}

// TradeRepository persists executed trades as a side effect of the engine's
// daily loop. Implementations must treat write failures as non-fatal:
// wrap with ErrSinkFailure and let the caller decide whether to continue.
type TradeRepository interface {
	RecordBuy(ctx context.Context, sessionID string, p *Position) error
	RecordSell(ctx context.Context, sessionID string, t *Trade) error
	Close() error
}

// Notifier delivers out-of-band session events. Implementations must not
// block the backtest loop for long; a slow sink should buffer or drop.
type Notifier interface {
	Notify(text string)
	OnError(err error)
}

// NotifierWithStart is a Notifier that owns a background lifecycle (e.g. a
// long-polling Telegram bot) that must be started and stopped explicitly.
type NotifierWithStart interface {
	Notifier
	Start(ctx context.Context) error
	Stop() error
}
