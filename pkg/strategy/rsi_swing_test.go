package strategy

import (
	"testing"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestRSISwing_EntrySignal(t *testing.T) {
	s := NewRSISwing()

	require.True(t, s.CheckEntrySignal(&core.SignalData{Close: 105, MA60: ptr(100), RSI14: ptr(40)}))
	require.False(t, s.CheckEntrySignal(&core.SignalData{Close: 95, MA60: ptr(100), RSI14: ptr(40)}))
	require.False(t, s.CheckEntrySignal(&core.SignalData{Close: 105, MA60: ptr(100), RSI14: ptr(50)}))
}

func TestRSISwing_TimeExitUsesCalendarDaysNotTradingDays(t *testing.T) {
	s := NewRSISwing()
	entryDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) // a Tuesday

	withinWindow := entryDate.AddDate(0, 0, 9)
	d := &core.SignalData{Close: 101, Date: withinWindow, RSI14: ptr(50)}
	_, exit := s.CheckExitSignal(d, 100, entryDate, 101, 90)
	require.False(t, exit)

	atWindow := entryDate.AddDate(0, 0, 10)
	d = &core.SignalData{Close: 101, Date: atWindow, RSI14: ptr(50)}
	reason, exit := s.CheckExitSignal(d, 100, entryDate, 101, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitTimeExit, reason)
}

func TestRSISwing_RSITargetExit(t *testing.T) {
	s := NewRSISwing()
	entryDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d := &core.SignalData{Close: 101, Date: entryDate.AddDate(0, 0, 1), RSI14: ptr(75)}

	reason, exit := s.CheckExitSignal(d, 100, entryDate, 101, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitRSITarget, reason)
}

func TestRSISwing_StopLossTakesPriorityOverTimeExit(t *testing.T) {
	s := NewRSISwing()
	entryDate := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d := &core.SignalData{Close: 85, Date: entryDate.AddDate(0, 0, 20), RSI14: ptr(80)}

	reason, exit := s.CheckExitSignal(d, 100, entryDate, 101, 90)
	require.True(t, exit)
	require.Equal(t, core.ExitStopLoss, reason)
}
