package strategy

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// EMA-breakout constants, ported from ema_breakout.py.
const (
	emaBreakoutATRStopMultiplier     = 2.5
	emaBreakoutATRTrailingMultiplier = 3.0
)

// EMABreakout is the exponential-moving-average analogue of SMABreakout:
// same breakout/stop/trailing-stop shape, but gated on a 20/50/120 EMA
// alignment and exiting on a close below the 50-day EMA instead of the
// 60-day SMA.
type EMABreakout struct{ cfg config }

func NewEMABreakout(opts ...Option) *EMABreakout {
	return &EMABreakout{cfg: newConfig(opts...)}
}

func (s *EMABreakout) Name() string        { return "ema_breakout" }
func (s *EMABreakout) ReEntryCooldown() int { return s.cfg.reEntryCooldown }

func (s *EMABreakout) CheckMarketFilter(date time.Time) bool {
	if s.cfg.marketFilter == nil {
		return true
	}
	return s.cfg.marketFilter.IsBullish(date)
}

func (s *EMABreakout) CheckEntrySignal(d *core.SignalData) bool {
	if d.EMA20 == nil || d.EMA50 == nil || d.EMA120 == nil || d.High20 == nil {
		return false
	}
	aligned := *d.EMA20 > *d.EMA50 && *d.EMA50 > *d.EMA120
	return aligned && d.Close > *d.High20
}

func (s *EMABreakout) CheckExitSignal(d *core.SignalData, entryPrice float64, entryDate time.Time, highestClose, initialStop float64) (core.ExitReason, bool) {
	if d.Close <= initialStop {
		return core.ExitStopLoss, true
	}
	if d.ATR20 != nil {
		trailing := highestClose - *d.ATR20*emaBreakoutATRTrailingMultiplier
		if d.Close <= trailing {
			return core.ExitTrailingStop, true
		}
	}
	if d.EMA50 != nil && d.Close < *d.EMA50 {
		return core.ExitEMAExit, true
	}
	return "", false
}

func (s *EMABreakout) CalculateStopLoss(entryPrice, atr float64) float64 {
	return entryPrice - atr*emaBreakoutATRStopMultiplier
}
