package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_BuildsAllFourReferenceStrategies(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"sma_breakout", "ema_breakout", "trend_following", "rsi_swing"} {
		s, err := r.Build(name)
		require.NoError(t, err)
		require.Equal(t, name, s.Name())
	}
}

func TestRegistry_BuildUnknownNameErrors(t *testing.T) {
	r := NewRegistry()
	_, err := r.Build("does_not_exist")
	require.Error(t, err)
}

func TestRegistry_RegisterOverridesExistingConstructor(t *testing.T) {
	r := NewRegistry()
	r.Register("sma_breakout", func(opts ...Option) Strategy { return NewEMABreakout(opts...) })
	s, err := r.Build("sma_breakout")
	require.NoError(t, err)
	require.Equal(t, "ema_breakout", s.Name())
}

func TestRegistry_NamesListsAllRegistered(t *testing.T) {
	r := NewRegistry()
	require.ElementsMatch(t, []string{"sma_breakout", "ema_breakout", "trend_following", "rsi_swing"}, r.Names())
}

func TestWithReEntryCooldown_OverridesDefault(t *testing.T) {
	s := NewSMABreakout(WithReEntryCooldown(9))
	require.Equal(t, 9, s.ReEntryCooldown())
}

func TestNewConfig_DefaultsReEntryCooldown(t *testing.T) {
	s := NewSMABreakout()
	require.Equal(t, DefaultReEntryCooldown, s.ReEntryCooldown())
}
