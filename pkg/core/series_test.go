package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeries_LastIsIndexedFromTheEnd(t *testing.T) {
	s := Series[float64]{1, 2, 3, 4}
	require.Equal(t, 4.0, s.Last(0))
	require.Equal(t, 3.0, s.Last(1))
}

func TestSeries_LastValuesClampsToLength(t *testing.T) {
	s := Series[int]{1, 2, 3}
	require.Equal(t, Series[int]{2, 3}, s.LastValues(2))
	require.Equal(t, Series[int]{1, 2, 3}, s.LastValues(10))
}

func TestSeries_CrossoverRequiresPriorNonGreater(t *testing.T) {
	s := Series[float64]{10, 20}
	ref := Series[float64]{15, 15}
	require.True(t, s.Crossover(ref), "10<=15 then 20>15 is a crossover")

	s2 := Series[float64]{16, 20}
	ref2 := Series[float64]{15, 15}
	require.False(t, s2.Crossover(ref2), "already above in the prior bar is not a fresh cross")
}

func TestSeries_Crossunder(t *testing.T) {
	s := Series[float64]{20, 10}
	ref := Series[float64]{15, 15}
	require.True(t, s.Crossunder(ref))

	s2 := Series[float64]{10, 10}
	ref2 := Series[float64]{15, 15}
	require.False(t, s2.Crossunder(ref2), "already at or below in the prior bar is not a fresh cross")
}

func TestSeries_Cross(t *testing.T) {
	up := Series[float64]{10, 20}
	ref := Series[float64]{15, 15}
	require.True(t, up.Cross(ref))

	flat := Series[float64]{16, 17}
	require.False(t, flat.Cross(ref))
}

func TestNumDecPlaces(t *testing.T) {
	require.Equal(t, int64(2), NumDecPlaces(1.23))
	require.Equal(t, int64(0), NumDecPlaces(5))
	require.Equal(t, int64(4), NumDecPlaces(0.1234))
}
