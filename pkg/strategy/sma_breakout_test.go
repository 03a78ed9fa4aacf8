package strategy

import (
	"testing"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSMABreakout_EntryRequiresAlignmentAndBreakout(t *testing.T) {
	s := NewSMABreakout()

	aligned := &core.SignalData{
		Close: 110,
		MA20:  ptr(100), MA60: ptr(95), MA120: ptr(90),
		High20: ptr(105),
	}
	require.True(t, s.CheckEntrySignal(aligned))

	notAligned := &core.SignalData{
		Close: 110,
		MA20:  ptr(90), MA60: ptr(95), MA120: ptr(100),
		High20: ptr(105),
	}
	require.False(t, s.CheckEntrySignal(notAligned))

	noBreakout := &core.SignalData{
		Close: 100,
		MA20:  ptr(95), MA60: ptr(90), MA120: ptr(85),
		High20: ptr(105),
	}
	require.False(t, s.CheckEntrySignal(noBreakout))
}

func TestSMABreakout_EntryMissingIndicatorsIsNonMatch(t *testing.T) {
	s := NewSMABreakout()
	require.False(t, s.CheckEntrySignal(&core.SignalData{Close: 110}))
}

func TestSMABreakout_ExitPriorityStopBeatsTrailingBeatsMA(t *testing.T) {
	s := NewSMABreakout()
	entryDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	stopHit := &core.SignalData{Close: 89, ATR20: ptr(1), MA60: ptr(100)}
	reason, exit := s.CheckExitSignal(stopHit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitStopLoss, reason)

	trailingHit := &core.SignalData{Close: 110.9, ATR20: ptr(3), MA60: ptr(100)}
	reason, exit = s.CheckExitSignal(trailingHit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitTrailingStop, reason)

	// ATR 10 puts the trailing level at 120-30=90, below the close, so only
	// the MA exit fires.
	maExit := &core.SignalData{Close: 95, ATR20: ptr(10), MA60: ptr(100)}
	reason, exit = s.CheckExitSignal(maExit, 100, entryDate, 120, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitMAExit, reason)

	noExit := &core.SignalData{Close: 125, ATR20: ptr(1), MA60: ptr(100)}
	_, exit = s.CheckExitSignal(noExit, 100, entryDate, 120, 90)
	require.False(t, exit)
}

func TestSMABreakout_CalculateStopLoss(t *testing.T) {
	s := NewSMABreakout()
	require.InDelta(t, 100-2.5*3, s.CalculateStopLoss(100, 3), 1e-9)
}

func TestSMABreakout_MarketFilterDefaultsToPassWhenUnset(t *testing.T) {
	s := NewSMABreakout()
	require.True(t, s.CheckMarketFilter(time.Now()))
}
