package strategy

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// SMA-breakout constants, ported from sma_breakout.py.
const (
	smaBreakoutATRStopMultiplier     = 2.5
	smaBreakoutATRTrailingMultiplier = 3.0
)

// SMABreakout enters on a 20/60/120-day moving-average alignment breaking
// above the prior 20-day high, and exits on a hard stop, an ATR trailing
// stop, or a close back below the 60-day moving average.
type SMABreakout struct{ cfg config }

func NewSMABreakout(opts ...Option) *SMABreakout {
	return &SMABreakout{cfg: newConfig(opts...)}
}

func (s *SMABreakout) Name() string            { return "sma_breakout" }
func (s *SMABreakout) ReEntryCooldown() int     { return s.cfg.reEntryCooldown }

func (s *SMABreakout) CheckMarketFilter(date time.Time) bool {
	if s.cfg.marketFilter == nil {
		return true
	}
	return s.cfg.marketFilter.IsBullish(date)
}

func (s *SMABreakout) CheckEntrySignal(d *core.SignalData) bool {
	if d.MA20 == nil || d.MA60 == nil || d.MA120 == nil || d.High20 == nil {
		return false
	}
	aligned := *d.MA20 > *d.MA60 && *d.MA60 > *d.MA120
	return aligned && d.Close > *d.High20
}

func (s *SMABreakout) CheckExitSignal(d *core.SignalData, entryPrice float64, entryDate time.Time, highestClose, initialStop float64) (core.ExitReason, bool) {
	if d.Close <= initialStop {
		return core.ExitStopLoss, true
	}
	if d.ATR20 != nil {
		trailing := highestClose - *d.ATR20*smaBreakoutATRTrailingMultiplier
		if d.Close <= trailing {
			return core.ExitTrailingStop, true
		}
	}
	if d.MA60 != nil && d.Close < *d.MA60 {
		return core.ExitMAExit, true
	}
	return "", false
}

func (s *SMABreakout) CalculateStopLoss(entryPrice, atr float64) float64 {
	return entryPrice - atr*smaBreakoutATRStopMultiplier
}
