package strategy

import (
	"testing"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestEMABreakout_EntryRequiresAlignmentAndBreakout(t *testing.T) {
	s := NewEMABreakout()

	aligned := &core.SignalData{
		Close: 110,
		EMA20: ptr(100), EMA50: ptr(95), EMA120: ptr(90),
		High20: ptr(105),
	}
	require.True(t, s.CheckEntrySignal(aligned))

	notAligned := &core.SignalData{
		Close: 110,
		EMA20: ptr(90), EMA50: ptr(95), EMA120: ptr(100),
		High20: ptr(105),
	}
	require.False(t, s.CheckEntrySignal(notAligned))

	noBreakout := &core.SignalData{
		Close: 100,
		EMA20: ptr(95), EMA50: ptr(90), EMA120: ptr(85),
		High20: ptr(105),
	}
	require.False(t, s.CheckEntrySignal(noBreakout))
}

func TestEMABreakout_EntryMissingIndicatorsIsNonMatch(t *testing.T) {
	s := NewEMABreakout()
	require.False(t, s.CheckEntrySignal(&core.SignalData{Close: 110}))
}

func TestEMABreakout_ExitPriorityStopBeatsTrailingBeatsEMA(t *testing.T) {
	s := NewEMABreakout()
	entryDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	stopHit := &core.SignalData{Close: 89, ATR20: ptr(1), EMA50: ptr(100)}
	reason, exit := s.CheckExitSignal(stopHit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitStopLoss, reason)

	trailingHit := &core.SignalData{Close: 110.9, ATR20: ptr(3), EMA50: ptr(100)}
	reason, exit = s.CheckExitSignal(trailingHit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitTrailingStop, reason)

	// ATR 10 puts the trailing level at 120-30=90, below the close, so only
	// the EMA exit fires.
	emaExit := &core.SignalData{Close: 95, ATR20: ptr(10), EMA50: ptr(100)}
	reason, exit = s.CheckExitSignal(emaExit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitEMAExit, reason)

	noExit := &core.SignalData{Close: 125, ATR20: ptr(1), EMA50: ptr(100)}
	_, exit = s.CheckExitSignal(noExit, 100, entryDate, 120, 90)
	require.False(t, exit)
}

func TestEMABreakout_CalculateStopLoss(t *testing.T) {
	s := NewEMABreakout()
	require.InDelta(t, 100-2.5*3, s.CalculateStopLoss(100, 3), 1e-9)
}

func TestEMABreakout_MarketFilterDefaultsToPassWhenUnset(t *testing.T) {
	s := NewEMABreakout()
	require.True(t, s.CheckMarketFilter(time.Now()))
}
