package core

import "time"

// Position is an open holding in a single ticker within a Portfolio.
//
// HighestClose only ever increases; it backs trailing-stop calculations
// and must never be lowered once a position is opened.
type Position struct {
	Ticker       string
	EntryDate    time.Time
	EntryPrice   float64
	Shares       int
	InitialStop  float64
	HighestClose float64
	ATRAtEntry   float64
	RiskAmount   float64
}

// Cost is the entry-price-based capital committed to this position.
func (p *Position) Cost() float64 {
	return p.EntryPrice * float64(p.Shares)
}

// UpdateHighestClose raises HighestClose if close is a new high; it never lowers it.
func (p *Position) UpdateHighestClose(close float64) {
	if close > p.HighestClose {
		p.HighestClose = close
	}
}

// UnrealizedPnL is the mark-to-market profit at the given price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	return (price - p.EntryPrice) * float64(p.Shares)
}

// RUnit is the per-share risk distance fixed at entry (entry price minus initial stop).
func (p *Position) RUnit() float64 {
	return p.EntryPrice - p.InitialStop
}

// ExitReason classifies why a position was closed.
type ExitReason string

const (
	ExitStopLoss     ExitReason = "STOP_LOSS"
	ExitTrailingStop ExitReason = "TRAILING_STOP"
	ExitMAExit       ExitReason = "MA_EXIT"
	ExitEMAExit      ExitReason = "EMA_EXIT"
	ExitEMAStructure ExitReason = "EMA_STRUCTURE_EXIT"
	ExitTimeExit     ExitReason = "TIME_EXIT"
	ExitRSITarget    ExitReason = "RSI_TARGET"
	ExitForceExit    ExitReason = "FORCE_EXIT"
)

// Trade is the closed-out record of a fully round-tripped position.
type Trade struct {
	Ticker     string
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	Shares     int
	ExitReason ExitReason
	PnL        float64
	PnLPct     float64
	RMultiple  float64
}

// DailyRecord is one day's equity snapshot, written once per trading day.
type DailyRecord struct {
	Date          time.Time
	Equity        float64
	Cash          float64
	PositionCount int
	TotalRisk     float64
}

// PendingEntry is a signal captured at today's close, executed at tomorrow's open.
type PendingEntry struct {
	Ticker     string
	SignalDate time.Time
	SignalClose float64
	ATR        float64
}
