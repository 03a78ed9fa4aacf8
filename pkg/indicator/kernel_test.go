package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRollingHigh_ExcludesToday(t *testing.T) {
	closes := []float64{1, 2, 3, 100, 5, 6, 7}
	out := RollingHigh(closes, 3)

	for i := 0; i < 3; i++ {
		require.True(t, math.IsNaN(out[i]), "index %d should be unwarmed", i)
	}
	// index 3: max of closes[0:3] = max(1,2,3) = 3, NOT closes[3]=100 itself.
	require.Equal(t, 3.0, out[3])
	// index 4: max of closes[1:4] = max(2,3,100) = 100, the breakout bar now
	// counts toward future highs but never against itself.
	require.Equal(t, 100.0, out[4])
	// index 6: max of closes[3:6] = max(100,5,6) = 100.
	require.Equal(t, 100.0, out[6])
}

func TestRollingHigh_ShortSeriesAllNaN(t *testing.T) {
	out := RollingHigh([]float64{1, 2}, 5)
	for _, v := range out {
		require.True(t, math.IsNaN(v))
	}
}

func TestEMAStage_ClassifiesStrictOrdering(t *testing.T) {
	p := EMAStageParams{Short: 1, Medium: 1, Long: 1}
	// With period 1, EMA equals the input series itself, so the triple at
	// each index is just (closes[i], closes[i], closes[i]) — a tie, which
	// must classify as stage 0 regardless of index.
	out := EMAStage([]float64{10, 20, 30}, p)
	for _, stage := range out {
		require.Equal(t, 0, stage)
	}
}

func TestEMAStage_ZeroBeforeWarmup(t *testing.T) {
	p := DefaultEMAStageParams // Long = 40
	out := EMAStage(make([]float64, 10), p)
	for _, stage := range out {
		require.Equal(t, 0, stage)
	}
}
