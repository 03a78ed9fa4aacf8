package core

import "time"

// BasicStats is the minimal stat set computed directly off the trade
// ledger. The richer stat set (CAGR, Sharpe, max drawdown, profit factor,
// SQN, bootstrap confidence intervals) lives in package metric and is
// derived from a Result, not stored on it.
type BasicStats struct {
	TotalTrades    int
	WinningTrades  int
	LosingTrades   int
	WinRate        float64
	TotalPnL       float64
	TotalReturnPct float64

	// AvgRMultiple is the mean R-multiple across all closed trades.
	AvgRMultiple float64
	// AvgHoldingDays is the mean number of calendar days between a trade's
	// entry and exit.
	AvgHoldingDays float64
	// MaxConsecutiveWins and MaxConsecutiveLosses are the longest winning
	// and losing streaks in close order.
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
}

// Result is the complete output of one backtest session.
type Result struct {
	SessionID      string
	StartDate      time.Time
	EndDate        time.Time
	InitialCapital float64
	FinalEquity    float64
	Stats          BasicStats
	Trades         []Trade
	DailyRecords   []DailyRecord
	RiskState      RiskState
}
