// Package engine drives the day-by-day backtest simulation: it is the only
// package that knows the order in which market-filter checks, pending-entry
// fills, exits, new entries, pyramiding and equity recording must happen
// within a single trading day.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/nawhizz/trend-surfer/pkg/logger"
	"github.com/nawhizz/trend-surfer/pkg/marketdata"
	"github.com/nawhizz/trend-surfer/pkg/portfolio"
	"github.com/nawhizz/trend-surfer/pkg/risk"
	"github.com/nawhizz/trend-surfer/pkg/strategy"
	"github.com/schollz/progressbar/v3"
)

// Config holds the session-wide parameters a backtest run is wired with.
type Config struct {
	SessionID      string
	InitialCapital float64

	// Risk embeds every parameter the risk engine recognizes
	// (BaseRiskPct, MaxPortfolioRisk, ReducedRiskPct,
	// ConsecutiveLossTrigger, DrawdownTrigger, RecoveryRThreshold,
	// RecoveryWinsThreshold, ReducedTradesCount), promoted onto Config so
	// callers can keep writing e.g. cfg.BaseRiskPct.
	risk.Params

	// KillSwitchWindow is the number of most-recent closed trades the
	// circuit breaker evaluates; KillSwitchFailThreshold is how many of
	// those must be losers to trip it.
	KillSwitchWindow        int
	KillSwitchFailThreshold int
	// KillSwitchCooldownDays is the trading-day count the breaker stays
	// tripped before re-arming.
	KillSwitchCooldownDays int

	// DrawdownEntryBlock blocks all new entries once drawdown-from-peak
	// reaches this fraction, independent of the reduced-risk trigger.
	DrawdownEntryBlock float64
}

// DefaultConfig returns the reference risk and kill-switch parameters.
func DefaultConfig(sessionID string, initialCapital float64) Config {
	return Config{
		SessionID:               sessionID,
		InitialCapital:          initialCapital,
		Params:                  risk.DefaultParams(),
		KillSwitchWindow:        10,
		KillSwitchFailThreshold: 8,
		KillSwitchCooldownDays:  20,
		DrawdownEntryBlock:      0.15,
	}
}

type exitInfo struct {
	date   time.Time
	reason core.ExitReason
}

// Engine runs one backtest session against a fixed universe of precomputed
// SignalData frames.
type Engine struct {
	cfg      Config
	strategy strategy.Strategy
	pf       *portfolio.Portfolio
	rm       *risk.Manager
	repo     core.TradeRepository
	notifier core.Notifier
	log      logger.Logger
	progress bool

	frames      map[string]*marketdata.Frame
	tradingDays []time.Time

	pending         []core.PendingEntry
	stoppedOutToday map[string]bool
	lastExit        map[string]exitInfo

	killSwitchResults []bool
	killSwitchActive  bool
	killSwitchDate    time.Time
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTradeRepository attaches a sink that records every buy/sell as a
// side effect of the daily loop.
func WithTradeRepository(repo core.TradeRepository) Option {
	return func(e *Engine) { e.repo = repo }
}

// WithNotifier attaches a sink that is notified when the kill switch
// activates. Reduction-mode transitions and session completion are not
// sent to it.
func WithNotifier(n core.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithProgressBar renders a CLI progress bar over the trading-day loop,
// the way backtestCandles does over its priority queue of candles.
func WithProgressBar() Option {
	return func(e *Engine) { e.progress = true }
}

// New builds an Engine over a fixed set of per-ticker frames.
func New(cfg Config, strat strategy.Strategy, frames map[string]*marketdata.Frame, tradingDays []time.Time, opts ...Option) *Engine {
	e := &Engine{
		cfg:             cfg,
		strategy:        strat,
		pf:              portfolio.New(cfg.InitialCapital),
		rm:              risk.NewWithParams(cfg.Params),
		log:             logger.Noop{},
		frames:          frames,
		tradingDays:     tradingDays,
		stoppedOutToday: make(map[string]bool),
		lastExit:        make(map[string]exitInfo),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rm.UpdatePeakEquity(cfg.InitialCapital)
	return e
}

// Run executes every trading day in order and returns the session result.
func (e *Engine) Run(ctx context.Context) (*core.Result, error) {
	var bar *progressbar.ProgressBar
	if e.progress {
		bar = progressbar.Default(int64(len(e.tradingDays)))
	}

	for i, date := range e.tradingDays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.processDay(ctx, date)
		if i == len(e.tradingDays)-1 {
			e.closeAllPositions(ctx, date)
		}
		if bar != nil {
			if err := bar.Add(1); err != nil {
				e.log.Warnf("engine: update progressbar fail: %v", err)
			}
		}
	}
	return e.result(), nil
}

func (e *Engine) processDay(ctx context.Context, date time.Time) {
	e.stoppedOutToday = make(map[string]bool)

	isMarketOK := e.strategy.CheckMarketFilter(date)

	e.processPendingEntries(ctx, date)
	e.processExits(ctx, date)

	if isMarketOK {
		e.scanEntrySignals(date)
		e.scanPyramidSignals(date)
	}

	prices := make(map[string]float64, len(e.pf.OpenPositionKeys()))
	for _, key := range e.pf.OpenPositionKeys() {
		ticker := baseOf(key)
		if sd := e.frames[ticker].At(date); sd != nil {
			prices[key] = sd.Close
		}
	}
	e.pf.RecordDaily(date, prices)
	e.rm.UpdatePeakEquity(e.pf.Equity())
}

func baseOf(key string) string {
	for i, r := range key {
		if r == '#' {
			return key[:i]
		}
	}
	return key
}

func (e *Engine) processPendingEntries(ctx context.Context, date time.Time) {
	pending := e.pending
	e.pending = nil

	for _, pe := range pending {
		frame := e.frames[pe.Ticker]
		data := frame.At(date)
		if data == nil {
			continue
		}

		entryPrice := data.Open
		stopLoss := e.strategy.CalculateStopLoss(entryPrice, pe.ATR)
		shares := e.rm.CalculatePositionSize(e.pf.Equity(), entryPrice, stopLoss)
		if shares <= 0 {
			continue
		}

		newRiskPct := (entryPrice - stopLoss) * float64(shares) / e.pf.Equity()
		if !e.rm.CanTakeRisk(e.pf.TotalRiskPct(), newRiskPct) {
			continue
		}

		cost := entryPrice * float64(shares)
		if cost > e.pf.Cash() && entryPrice > 0 {
			shares = int(e.pf.Cash() / entryPrice)
		}
		if shares <= 0 {
			continue
		}

		pos, err := e.pf.OpenPosition(pe.Ticker, date, entryPrice, shares, stopLoss, pe.ATR)
		if err != nil {
			e.log.WithError(err).Warn("engine: failed to open pending entry")
			continue
		}
		if e.repo != nil {
			if err := e.repo.RecordBuy(ctx, e.cfg.SessionID, pos); err != nil {
				e.log.WithError(fmt.Errorf("%w: %v", core.ErrSinkFailure, err)).Error("engine: trade repository record buy failed")
			}
		}
	}
}

func (e *Engine) processExits(ctx context.Context, date time.Time) {
	for _, ticker := range e.tickerUniverse() {
		for _, key := range e.pf.PositionKeysFor(ticker) {
			pos := e.pf.GetPositionByKey(key)
			if pos == nil {
				continue
			}
			data := e.frames[ticker].At(date)
			if data == nil {
				continue
			}
			pos.UpdateHighestClose(data.Close)

			reason, exit := e.strategy.CheckExitSignal(data, pos.EntryPrice, pos.EntryDate, pos.HighestClose, pos.InitialStop)
			if !exit {
				continue
			}

			trade := e.pf.ClosePositionByKey(key, date, data.Close, reason)
			if trade == nil {
				continue
			}
			if e.repo != nil {
				if err := e.repo.RecordSell(ctx, e.cfg.SessionID, trade); err != nil {
					e.log.WithError(fmt.Errorf("%w: %v", core.ErrSinkFailure, err)).Error("engine: trade repository record sell failed")
				}
			}

			if reason == core.ExitStopLoss {
				e.stoppedOutToday[ticker] = true
			}
			e.lastExit[ticker] = exitInfo{date: date, reason: reason}

			e.recordKillSwitchResult(trade.PnL > 0, date)
			e.rm.OnTradeExit(reason == core.ExitStopLoss, trade.RMultiple, e.pf.Equity())
		}
	}
}

func (e *Engine) recordKillSwitchResult(won bool, date time.Time) {
	e.killSwitchResults = append(e.killSwitchResults, won)
	if len(e.killSwitchResults) > e.cfg.KillSwitchWindow {
		e.killSwitchResults = e.killSwitchResults[len(e.killSwitchResults)-e.cfg.KillSwitchWindow:]
	}
	if e.killSwitchActive || len(e.killSwitchResults) < e.cfg.KillSwitchWindow {
		return
	}
	fails := 0
	for _, win := range e.killSwitchResults {
		if !win {
			fails++
		}
	}
	if fails >= e.cfg.KillSwitchFailThreshold {
		e.killSwitchActive = true
		e.killSwitchDate = date
		if e.notifier != nil {
			e.notifier.Notify(fmt.Sprintf("kill switch activated on %s: %d/%d losses", date.Format("2006-01-02"), fails, len(e.killSwitchResults)))
		}
		e.log.WithField("date", date).Warn("engine: kill switch activated")
	}
}

func (e *Engine) scanEntrySignals(date time.Time) {
	if e.killSwitchActive {
		if countTradingDays(e.tradingDays, e.killSwitchDate, date) >= e.cfg.KillSwitchCooldownDays {
			e.killSwitchActive = false
			e.killSwitchResults = nil
			e.log.WithField("date", date).Info("engine: kill switch deactivated, cooldown elapsed")
		} else {
			return
		}
	}

	if e.rm.CheckDrawdown(e.pf.Equity()) >= e.cfg.DrawdownEntryBlock {
		return
	}

	for _, ticker := range e.tickerUniverse() {
		if e.pf.HasPosition(ticker) || e.stoppedOutToday[ticker] || e.isPending(ticker) {
			continue
		}
		if !e.reEntryAllowed(ticker, date) {
			continue
		}
		data := e.frames[ticker].At(date)
		if data == nil || data.ATR20 == nil {
			continue
		}
		if e.strategy.CheckEntrySignal(data) {
			e.pending = append(e.pending, core.PendingEntry{
				Ticker:      ticker,
				SignalDate:  date,
				SignalClose: data.Close,
				ATR:         *data.ATR20,
			})
		}
	}
}

func (e *Engine) reEntryAllowed(ticker string, date time.Time) bool {
	info, seen := e.lastExit[ticker]
	if !seen {
		return true
	}
	if info.reason != core.ExitTrailingStop {
		return false
	}
	return countTradingDays(e.tradingDays, info.date, date) >= e.strategy.ReEntryCooldown()
}

func (e *Engine) isPending(ticker string) bool {
	for _, p := range e.pending {
		if p.Ticker == ticker {
			return true
		}
	}
	return false
}

func (e *Engine) scanPyramidSignals(date time.Time) {
	pyramider, ok := e.strategy.(strategy.Pyramiding)
	if !ok {
		return
	}
	riskPerTrade := e.cfg.BaseRiskPct

	for _, ticker := range e.tickerUniverse() {
		base := e.pf.GetPosition(ticker)
		if base == nil {
			continue
		}
		data := e.frames[ticker].At(date)
		if data == nil || data.ATR20 == nil {
			continue
		}

		rUnit := base.RUnit()
		if rUnit <= 0 {
			continue
		}
		currentMFER := (data.Close - base.EntryPrice) / rUnit
		newStop := e.strategy.CalculateStopLoss(data.Close, *data.ATR20)
		newRUnit := data.Close - newStop
		totalOpenRiskR := e.pf.TotalRisk() / (e.pf.Equity() * riskPerTrade)

		if !pyramider.CheckPyramidSignal(data, currentMFER, rUnit, newRUnit, totalOpenRiskR) {
			continue
		}

		shares := pyramider.CalculatePyramidSize(e.pf.Equity(), data.Close, newStop)
		if shares <= 0 {
			continue
		}
		if cost := data.Close * float64(shares); cost > e.pf.Cash() && data.Close > 0 {
			shares = int(e.pf.Cash() / data.Close)
		}
		if shares <= 0 {
			continue
		}

		if _, err := e.pf.OpenPyramid(ticker, date, data.Close, shares, newStop, *data.ATR20); err != nil {
			e.log.WithError(err).Warn("engine: failed to open pyramid add-on")
		}
	}
}

func (e *Engine) closeAllPositions(ctx context.Context, date time.Time) {
	for _, key := range e.pf.OpenPositionKeys() {
		ticker := baseOf(key)
		price := e.pf.GetPositionByKey(key).HighestClose
		if data := e.frames[ticker].At(date); data != nil {
			price = data.Close
		}
		trade := e.pf.ClosePositionByKey(key, date, price, core.ExitForceExit)
		if trade != nil && e.repo != nil {
			if err := e.repo.RecordSell(ctx, e.cfg.SessionID, trade); err != nil {
				e.log.WithError(fmt.Errorf("%w: %v", core.ErrSinkFailure, err)).Error("engine: trade repository record forced sell failed")
			}
		}
	}
}

func (e *Engine) tickerUniverse() []string {
	tickers := make([]string, 0, len(e.frames))
	for t := range e.frames {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func (e *Engine) result() *core.Result {
	var start, end time.Time
	if len(e.tradingDays) > 0 {
		start, end = e.tradingDays[0], e.tradingDays[len(e.tradingDays)-1]
	}
	return &core.Result{
		SessionID:      e.cfg.SessionID,
		StartDate:      start,
		EndDate:        end,
		InitialCapital: e.cfg.InitialCapital,
		FinalEquity:    e.pf.Equity(),
		Stats:          e.pf.Stats(e.cfg.InitialCapital),
		Trades:         e.pf.Trades(),
		DailyRecords:   e.pf.DailyRecords(),
		RiskState:      e.rm.State(),
	}
}

// countTradingDays counts entries of tradingDays strictly after start, up
// to and including end, against the session's own calendar rather than a
// fixed-length day count.
func countTradingDays(tradingDays []time.Time, start, end time.Time) int {
	count := 0
	for _, d := range tradingDays {
		if d.After(start) && !d.After(end) {
			count++
		}
	}
	return count
}

