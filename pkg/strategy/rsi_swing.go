package strategy

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// RSI-swing constants, ported from rsi_swing.py.
const (
	rsiSwingEntryThreshold    = 45.0
	rsiSwingExitThreshold     = 70.0
	rsiSwingMaxHoldingDays    = 10
	rsiSwingATRStopMultiplier = 2.5
)

// RSISwing buys oversold dips above the 60-day moving average and exits on
// a hard stop, a fixed holding-period timeout, or an overbought RSI target.
//
// The holding-period timeout counts calendar days, not trading days: a
// deliberate difference from the engine's trading-day re-entry and
// kill-switch cooldowns.
type RSISwing struct{ cfg config }

func NewRSISwing(opts ...Option) *RSISwing {
	return &RSISwing{cfg: newConfig(opts...)}
}

func (s *RSISwing) Name() string        { return "rsi_swing" }
func (s *RSISwing) ReEntryCooldown() int { return s.cfg.reEntryCooldown }

func (s *RSISwing) CheckMarketFilter(date time.Time) bool {
	if s.cfg.marketFilter == nil {
		return true
	}
	return s.cfg.marketFilter.IsBullish(date)
}

func (s *RSISwing) CheckEntrySignal(d *core.SignalData) bool {
	if d.MA60 == nil || d.RSI14 == nil {
		return false
	}
	return d.Close > *d.MA60 && *d.RSI14 < rsiSwingEntryThreshold
}

func (s *RSISwing) CheckExitSignal(d *core.SignalData, entryPrice float64, entryDate time.Time, highestClose, initialStop float64) (core.ExitReason, bool) {
	if d.Close <= initialStop {
		return core.ExitStopLoss, true
	}
	if daysHeldCalendar(entryDate, d.Date) >= rsiSwingMaxHoldingDays {
		return core.ExitTimeExit, true
	}
	if d.RSI14 != nil && *d.RSI14 > rsiSwingExitThreshold {
		return core.ExitRSITarget, true
	}
	return "", false
}

func (s *RSISwing) CalculateStopLoss(entryPrice, atr float64) float64 {
	return entryPrice - atr*rsiSwingATRStopMultiplier
}

func daysHeldCalendar(entry, today time.Time) int {
	return int(today.Sub(entry).Hours() / 24)
}
