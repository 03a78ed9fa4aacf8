// Package portfolio tracks cash, open positions and the realized-trade
// ledger for one backtest session.
package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// Portfolio is the single source of truth for cash, open positions, closed
// trades and the daily equity curve. It is not safe for concurrent use —
// each session owns one Portfolio on a single goroutine, matching the
// engine's single-threaded, deterministic simulation model.
type Portfolio struct {
	cash         float64
	positions    map[string]*core.Position // keyed by ticker, or "ticker#N" for pyramid add-ons
	seq          map[string]int            // next add-on sequence number per base ticker
	trades       []core.Trade
	dailyRecords []core.DailyRecord
}

// New creates a Portfolio seeded with initialCapital in cash and no
// open positions.
func New(initialCapital float64) *Portfolio {
	return &Portfolio{
		cash:      initialCapital,
		positions: make(map[string]*core.Position),
		seq:       make(map[string]int),
	}
}

// PositionValue is the entry-price-based cost basis of every open position.
// It is deliberately not marked to market: exposure is tracked by capital
// committed, not by unrealized gain/loss.
func (p *Portfolio) PositionValue() float64 {
	var total float64
	for _, pos := range p.positions {
		total += pos.Cost()
	}
	return total
}

// Equity is cash plus entry-price-based position value.
func (p *Portfolio) Equity() float64 {
	return p.cash + p.PositionValue()
}

// Cash returns the current uncommitted cash balance.
func (p *Portfolio) Cash() float64 { return p.cash }

// TotalRisk sums the risk_amount recorded at entry across all open
// positions (base entries and pyramid add-ons alike).
func (p *Portfolio) TotalRisk() float64 {
	var total float64
	for _, pos := range p.positions {
		total += pos.RiskAmount
	}
	return total
}

// TotalRiskPct is TotalRisk as a fraction of current equity.
func (p *Portfolio) TotalRiskPct() float64 {
	equity := p.Equity()
	if equity <= 0 {
		return 0
	}
	return p.TotalRisk() / equity
}

// HasPosition reports whether ticker (a base ticker, not an add-on key) has
// any open position, base or pyramided.
func (p *Portfolio) HasPosition(ticker string) bool {
	return len(p.PositionsFor(ticker)) > 0
}

// GetPosition returns the base position for ticker, or nil if none is open.
// Pyramid add-ons are not returned here; use PositionsFor for the full set.
func (p *Portfolio) GetPosition(ticker string) *core.Position {
	return p.positions[ticker]
}

// PositionsFor returns every open position (base plus any pyramid add-ons)
// for a ticker, base entry first.
func (p *Portfolio) PositionsFor(ticker string) []*core.Position {
	var out []*core.Position
	for _, key := range p.PositionKeysFor(ticker) {
		out = append(out, p.positions[key])
	}
	return out
}

// PositionKeysFor returns the internal storage key for every open position
// (base plus any pyramid add-ons) belonging to ticker, base entry first.
func (p *Portfolio) PositionKeysFor(ticker string) []string {
	var out []string
	if _, ok := p.positions[ticker]; ok {
		out = append(out, ticker)
	}
	for n := 1; ; n++ {
		key := addOnKey(ticker, n)
		if _, ok := p.positions[key]; !ok {
			break
		}
		out = append(out, key)
	}
	return out
}

func addOnKey(ticker string, n int) string {
	return fmt.Sprintf("%s#%d", ticker, n)
}

// OpenPosition opens a new base position for ticker, failing with
// core.ErrInsufficientCash if its cost exceeds available cash.
func (p *Portfolio) OpenPosition(ticker string, date time.Time, entryPrice float64, shares int, stopLoss, atr float64) (*core.Position, error) {
	return p.openKeyed(ticker, ticker, date, entryPrice, shares, stopLoss, atr)
}

// OpenPyramid opens a sequence-numbered add-on position for a ticker that
// already has a base position open.
func (p *Portfolio) OpenPyramid(ticker string, date time.Time, entryPrice float64, shares int, stopLoss, atr float64) (*core.Position, error) {
	p.seq[ticker]++
	key := addOnKey(ticker, p.seq[ticker])
	return p.openKeyed(key, ticker, date, entryPrice, shares, stopLoss, atr)
}

func (p *Portfolio) openKeyed(key, ticker string, date time.Time, entryPrice float64, shares int, stopLoss, atr float64) (*core.Position, error) {
	cost := entryPrice * float64(shares)
	if cost > p.cash {
		return nil, fmt.Errorf("%w: cost %.2f exceeds cash %.2f", core.ErrInsufficientCash, cost, p.cash)
	}
	pos := &core.Position{
		Ticker:       ticker,
		EntryDate:    date,
		EntryPrice:   entryPrice,
		Shares:       shares,
		InitialStop:  stopLoss,
		HighestClose: entryPrice,
		ATRAtEntry:   atr,
		RiskAmount:   (entryPrice - stopLoss) * float64(shares),
	}
	p.cash -= cost
	p.positions[key] = pos
	return pos, nil
}

// GetPositionByKey returns the position stored under key (a base ticker or
// a pyramid add-on key from PositionKeysFor), or nil if none is open.
func (p *Portfolio) GetPositionByKey(key string) *core.Position {
	return p.positions[key]
}

// ClosePositionByKey closes the position stored under key (a base ticker or
// an add-on key from PositionKeysFor), crediting cash and recording a Trade.
// It returns nil if no position is open under that key.
func (p *Portfolio) ClosePositionByKey(key string, date time.Time, exitPrice float64, reason core.ExitReason) *core.Trade {
	pos, ok := p.positions[key]
	if !ok {
		return nil
	}
	delete(p.positions, key)

	p.cash += exitPrice * float64(pos.Shares)

	pnl := (exitPrice - pos.EntryPrice) * float64(pos.Shares)
	pnlPct := (exitPrice - pos.EntryPrice) / pos.EntryPrice * 100

	var rMultiple float64
	if rUnit := pos.RUnit(); rUnit > 0 {
		rMultiple = (exitPrice - pos.EntryPrice) / rUnit
	}

	trade := core.Trade{
		Ticker:     pos.Ticker,
		EntryDate:  pos.EntryDate,
		EntryPrice: pos.EntryPrice,
		ExitDate:   date,
		ExitPrice:  exitPrice,
		Shares:     pos.Shares,
		ExitReason: reason,
		PnL:        pnl,
		PnLPct:     pnlPct,
		RMultiple:  rMultiple,
	}
	p.trades = append(p.trades, trade)
	return &trade
}

// RecordDaily appends today's equity snapshot. prices is the day's close
// per open ticker key; a held position with no entry in prices (e.g. a
// trading halt) is valued at its own entry price rather than skipped or
// marked to zero — see DESIGN.md Open Question decision 3.
func (p *Portfolio) RecordDaily(date time.Time, prices map[string]float64) {
	var equity float64
	for key, pos := range p.positions {
		price, ok := prices[key]
		if !ok {
			price = pos.EntryPrice
		}
		equity += price * float64(pos.Shares)
	}
	equity += p.cash

	p.dailyRecords = append(p.dailyRecords, core.DailyRecord{
		Date:          date,
		Equity:        equity,
		Cash:          p.cash,
		PositionCount: len(p.positions),
		TotalRisk:     p.TotalRisk(),
	})
}

// Trades returns the closed-trade ledger in close order.
func (p *Portfolio) Trades() []core.Trade { return append([]core.Trade(nil), p.trades...) }

// DailyRecords returns the equity curve in date order.
func (p *Portfolio) DailyRecords() []core.DailyRecord {
	return append([]core.DailyRecord(nil), p.dailyRecords...)
}

// OpenPositionKeys returns every currently open position key, base tickers
// and add-ons alike, sorted for deterministic iteration by callers that
// need to force-close at session end.
func (p *Portfolio) OpenPositionKeys() []string {
	keys := make([]string, 0, len(p.positions))
	for k := range p.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats computes the minimal stat set directly off the trade ledger. The
// richer stat set (CAGR, Sharpe, max drawdown, profit factor, SQN,
// bootstrap confidence interval) is computed separately by package metric
// from the full Result.
func (p *Portfolio) Stats(initialCapital float64) core.BasicStats {
	var winning, losing int
	var totalPnL, totalR, totalHoldingDays float64
	var curWinStreak, curLossStreak, maxWinStreak, maxLossStreak int
	for _, t := range p.trades {
		totalPnL += t.PnL
		totalR += t.RMultiple
		totalHoldingDays += t.ExitDate.Sub(t.EntryDate).Hours() / 24

		if t.PnL > 0 {
			winning++
			curWinStreak++
			curLossStreak = 0
		} else {
			losing++
			curLossStreak++
			curWinStreak = 0
		}
		if curWinStreak > maxWinStreak {
			maxWinStreak = curWinStreak
		}
		if curLossStreak > maxLossStreak {
			maxLossStreak = curLossStreak
		}
	}
	total := len(p.trades)
	var winRate, avgR, avgHoldingDays float64
	if total > 0 {
		winRate = float64(winning) / float64(total) * 100
		avgR = totalR / float64(total)
		avgHoldingDays = totalHoldingDays / float64(total)
	}
	var returnPct float64
	if initialCapital > 0 {
		returnPct = totalPnL / initialCapital * 100
	}
	return core.BasicStats{
		TotalTrades:          total,
		WinningTrades:        winning,
		LosingTrades:         losing,
		WinRate:              winRate,
		TotalPnL:             totalPnL,
		TotalReturnPct:       returnPct,
		AvgRMultiple:         avgR,
		AvgHoldingDays:       avgHoldingDays,
		MaxConsecutiveWins:   maxWinStreak,
		MaxConsecutiveLosses: maxLossStreak,
	}
}
