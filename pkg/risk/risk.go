// Package risk implements the position-sizing and reduced-risk state
// machine that governs how much of the portfolio a new trade may risk.
package risk

import (
	"github.com/nawhizz/trend-surfer/pkg/core"
)

// Default parameter values, ported from risk_manager.py.
const (
	DefaultRiskPct          = 0.01
	ReducedRiskPct          = 0.005
	MaxPortfolioRisk        = 0.04
	ConsecutiveLossTrigger  = 3
	DrawdownTrigger         = 0.07
	ReducedTradesCount      = 3
	RecoveryRThreshold      = 2.0
	RecoveryWinsThreshold   = 2
)

// Params holds every configurable knob the risk engine recognizes. Zero
// values are not valid defaults for most fields — build one through
// DefaultParams and override only what a session needs to change.
type Params struct {
	BaseRiskPct      float64
	MaxPortfolioRisk float64

	// ReducedRiskPct is the per-trade risk percentage applied while in
	// reduced-risk mode.
	ReducedRiskPct float64
	// ReducedTradesCount is how many trades reduced-risk mode lasts at most:
	// once that many trades have closed since it activated, it lapses even
	// if neither recovery threshold was reached.
	ReducedTradesCount int
	// ConsecutiveLossTrigger is how many consecutive stop-loss exits
	// activate reduced-risk mode.
	ConsecutiveLossTrigger int
	// DrawdownTrigger is the drawdown-from-peak fraction that activates
	// reduced-risk mode independently of the consecutive-loss count.
	DrawdownTrigger float64
	// RecoveryRThreshold is the cumulative R gained since entering
	// reduced-risk mode that ends it early.
	RecoveryRThreshold float64
	// RecoveryWinsThreshold is the count of non-stop-loss exits since
	// entering reduced-risk mode that ends it early.
	RecoveryWinsThreshold int
}

// DefaultParams returns the reference risk parameters.
func DefaultParams() Params {
	return Params{
		BaseRiskPct:            DefaultRiskPct,
		MaxPortfolioRisk:       MaxPortfolioRisk,
		ReducedRiskPct:         ReducedRiskPct,
		ReducedTradesCount:     ReducedTradesCount,
		ConsecutiveLossTrigger: ConsecutiveLossTrigger,
		DrawdownTrigger:        DrawdownTrigger,
		RecoveryRThreshold:     RecoveryRThreshold,
		RecoveryWinsThreshold:  RecoveryWinsThreshold,
	}
}

// Manager tracks reduced-risk state across a session and sizes new
// positions. It holds no reference to the Portfolio; callers pass in
// whatever portfolio figures the sizing and gating decisions need.
type Manager struct {
	params Params
	state  core.RiskState
}

// New creates a Manager with baseRiskPct as the per-trade risk percentage
// and maxPortfolioRisk as the portfolio-wide risk cap; every other
// parameter uses its reference default. Use NewWithParams to override them.
func New(baseRiskPct, maxPortfolioRisk float64) *Manager {
	params := DefaultParams()
	params.BaseRiskPct = baseRiskPct
	params.MaxPortfolioRisk = maxPortfolioRisk
	return NewWithParams(params)
}

// NewWithParams creates a Manager from a fully specified parameter set.
func NewWithParams(params Params) *Manager {
	return &Manager{params: params}
}

// State returns a copy of the current risk state, e.g. for session results.
func (m *Manager) State() core.RiskState { return m.state }

// UpdatePeakEquity raises the tracked peak equity if equity is a new high.
func (m *Manager) UpdatePeakEquity(equity float64) {
	if equity > m.state.PeakEquity {
		m.state.PeakEquity = equity
	}
}

// CheckDrawdown returns the current drawdown from peak equity as a
// fraction, or 0 if no peak has been recorded yet.
func (m *Manager) CheckDrawdown(equity float64) float64 {
	if m.state.PeakEquity == 0 {
		return 0
	}
	return (m.state.PeakEquity - equity) / m.state.PeakEquity
}

// CurrentRiskPct is the per-trade risk percentage in effect: the reduced
// rate while in reduced-risk mode, the base rate otherwise.
func (m *Manager) CurrentRiskPct() float64 {
	if m.state.IsReduced {
		return m.params.ReducedRiskPct
	}
	return m.params.BaseRiskPct
}

// CanTakeRisk reports whether adding newPositionRiskPct to
// currentPortfolioRiskPct would stay within the configured portfolio cap.
func (m *Manager) CanTakeRisk(currentPortfolioRiskPct, newPositionRiskPct float64) bool {
	return currentPortfolioRiskPct+newPositionRiskPct <= m.params.MaxPortfolioRisk
}

// CalculatePositionSize sizes a new position so that (entryPrice-stopLoss)
// times shares equals capital times the current risk percentage. It
// returns 0 if the stop isn't below the entry price.
func (m *Manager) CalculatePositionSize(capital, entryPrice, stopLoss float64) int {
	if entryPrice <= stopLoss {
		return 0
	}
	return int(capital * m.CurrentRiskPct() / (entryPrice - stopLoss))
}

// OnTradeExit updates consecutive-loss tracking and reduced-risk recovery
// progress after a trade closes, then checks for a reduction trigger and,
// if already reduced, a recovery condition. isStopLoss alone decides both
// the consecutive-loss counter and the winning-exits-since-reduced counter:
// any non-stop-loss exit counts as a win for recovery purposes even if its
// P&L came in negative, matching risk_manager.py's plain else-branch.
func (m *Manager) OnTradeExit(isStopLoss bool, rMultiple, currentEquity float64) {
	if isStopLoss {
		m.state.ConsecutiveLosses++
	} else {
		m.state.ConsecutiveLosses = 0
	}

	if m.state.IsReduced {
		m.state.RGainedSinceReduced += rMultiple
		if !isStopLoss {
			m.state.WinningExitsSinceReduced++
		}
		if m.state.ReducedTradesRemaining > 0 {
			m.state.ReducedTradesRemaining--
		}
	}

	m.checkReductionTrigger(currentEquity)
	m.checkRecovery()
}

func (m *Manager) checkReductionTrigger(currentEquity float64) {
	if m.state.IsReduced {
		return
	}
	if m.state.ConsecutiveLosses >= m.params.ConsecutiveLossTrigger || m.CheckDrawdown(currentEquity) >= m.params.DrawdownTrigger {
		m.activateReduction()
	}
}

func (m *Manager) activateReduction() {
	m.state.IsReduced = true
	m.state.ReducedTradesRemaining = m.params.ReducedTradesCount
	m.state.WinningExitsSinceReduced = 0
	m.state.RGainedSinceReduced = 0
}

// checkRecovery ends reduced-risk mode once the R gained or the count of
// non-stop-loss exits since reduction reaches its threshold, or once the
// reduced-trade budget is used up.
func (m *Manager) checkRecovery() {
	if !m.state.IsReduced {
		return
	}
	switch {
	case m.state.RGainedSinceReduced >= m.params.RecoveryRThreshold:
		m.deactivateReduction()
	case m.state.WinningExitsSinceReduced >= m.params.RecoveryWinsThreshold:
		m.deactivateReduction()
	case m.state.ReducedTradesRemaining <= 0:
		m.deactivateReduction()
	}
}

func (m *Manager) deactivateReduction() {
	m.state.IsReduced = false
	m.state.ConsecutiveLosses = 0
}
