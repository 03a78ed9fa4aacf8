package strategy

import (
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// Trend-following constants, ported from trend_following.py except for
// atrOverheatThreshold, where spec.md's explicit 0.15 overrides the
// original's 0.08 — see DESIGN.md Open Question decision 5.
const (
	trendATRStopMultiplier     = 2.0
	trendATRTrailingMultiplier = 2.5
	trendEMASlopeEntryFloor    = -0.2
	trendEMASlopeExitFloor     = -0.3
	trendATROverheatThreshold  = 0.15

	// trendPyramidMFEThreshold is the minimum favorable excursion, in R, an
	// open position must reach before an add-on is considered.
	trendPyramidMFEThreshold = 1.0
	// trendPyramidMaxOpenRiskR caps the portfolio's combined open risk, in
	// R, at which an add-on is still considered.
	trendPyramidMaxOpenRiskR = 2.0
	// trendPyramidRiskPct is the fraction of equity risked on an add-on,
	// half the base per-trade risk — a deliberately smaller bet than the
	// initial entry since it's adding to an already-extended position.
	trendPyramidRiskPct = 0.005
)

// TrendFollowing enters on a 20-day breakout with a non-deteriorating EMA50
// slope and non-overheated volatility, exits on a hard stop, an ATR
// trailing stop, or an EMA50 structural breakdown, and supports pyramiding
// into winners via Pyramiding.
type TrendFollowing struct{ cfg config }

func NewTrendFollowing(opts ...Option) *TrendFollowing {
	return &TrendFollowing{cfg: newConfig(opts...)}
}

func (s *TrendFollowing) Name() string        { return "trend_following" }
func (s *TrendFollowing) ReEntryCooldown() int { return s.cfg.reEntryCooldown }

func (s *TrendFollowing) CheckMarketFilter(date time.Time) bool {
	if s.cfg.marketFilter == nil {
		return true
	}
	return s.cfg.marketFilter.IsBullish(date) && s.cfg.marketFilter.IsStructureOK(date)
}

func (s *TrendFollowing) CheckEntrySignal(d *core.SignalData) bool {
	if d.High20 == nil || d.EMA50Slope == nil || d.ATR20 == nil || d.Close <= 0 {
		return false
	}
	if d.Close <= *d.High20 {
		return false
	}
	if *d.EMA50Slope < trendEMASlopeEntryFloor {
		return false
	}
	return *d.ATR20/d.Close <= trendATROverheatThreshold
}

func (s *TrendFollowing) CheckExitSignal(d *core.SignalData, entryPrice float64, entryDate time.Time, highestClose, initialStop float64) (core.ExitReason, bool) {
	if d.Close <= initialStop {
		return core.ExitStopLoss, true
	}
	if d.ATR20 != nil {
		trailing := highestClose - *d.ATR20*trendATRTrailingMultiplier
		if d.Close < trailing {
			return core.ExitTrailingStop, true
		}
	}
	if d.EMA50 != nil && d.EMA50Slope != nil && d.Close < *d.EMA50 && *d.EMA50Slope < trendEMASlopeExitFloor {
		return core.ExitEMAStructure, true
	}
	return "", false
}

func (s *TrendFollowing) CalculateStopLoss(entryPrice, atr float64) float64 {
	return entryPrice - atr*trendATRStopMultiplier
}

// CheckPyramidSignal requires the position to already be up at least 1R,
// the recalculated stop to be no looser than the original (a tightening
// add-on, never a widening one), a fresh breakout above the rolling 10-day
// high, and headroom under the 2R combined open-risk cap.
func (s *TrendFollowing) CheckPyramidSignal(d *core.SignalData, currentMFER, currentRUnit, newRUnit, totalOpenRiskR float64) bool {
	if d.High10 == nil {
		return false
	}
	if currentMFER < trendPyramidMFEThreshold {
		return false
	}
	if newRUnit > currentRUnit {
		return false
	}
	if totalOpenRiskR >= trendPyramidMaxOpenRiskR {
		return false
	}
	return d.Close > *d.High10
}

// CalculatePyramidSize sizes the add-on so it risks trendPyramidRiskPct of
// capital over the stop distance. The size is not reduced by the headroom
// left under the 2R combined open-risk cap.
func (s *TrendFollowing) CalculatePyramidSize(capital, entryPrice, stopLoss float64) int {
	if entryPrice <= stopLoss {
		return 0
	}
	return int(capital * trendPyramidRiskPct / (entryPrice - stopLoss))
}
