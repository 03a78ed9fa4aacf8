package strategy

import "github.com/nawhizz/trend-surfer/pkg/marketfilter"

// config is the shared set of knobs every reference strategy accepts via
// functional options, following the WithX(...) constructor pattern used
// throughout this module.
type config struct {
	marketFilter    *marketfilter.Filter
	reEntryCooldown int
}

func newConfig(opts ...Option) config {
	cfg := config{reEntryCooldown: DefaultReEntryCooldown}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a reference strategy at construction time.
type Option func(*config)

// WithMarketFilter attaches a breadth filter. Strategies that don't check
// market regime ignore it.
func WithMarketFilter(f *marketfilter.Filter) Option {
	return func(c *config) { c.marketFilter = f }
}

// WithReEntryCooldown overrides the default 5-trading-day re-entry cooldown.
func WithReEntryCooldown(days int) Option {
	return func(c *config) { c.reEntryCooldown = days }
}
