package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPosition_Cost(t *testing.T) {
	p := &Position{EntryPrice: 25.5, Shares: 40}
	require.Equal(t, 1020.0, p.Cost())
}

func TestPosition_UpdateHighestCloseNeverLowers(t *testing.T) {
	p := &Position{HighestClose: 100}
	p.UpdateHighestClose(90)
	require.Equal(t, 100.0, p.HighestClose)

	p.UpdateHighestClose(110)
	require.Equal(t, 110.0, p.HighestClose)
}

func TestPosition_UnrealizedPnL(t *testing.T) {
	p := &Position{EntryPrice: 50, Shares: 20}
	require.Equal(t, 200.0, p.UnrealizedPnL(60))
	require.Equal(t, -100.0, p.UnrealizedPnL(45))
}

func TestPosition_RUnit(t *testing.T) {
	p := &Position{EntryPrice: 100, InitialStop: 92}
	require.Equal(t, 8.0, p.RUnit())
}
