package strategy

import "fmt"

// Constructor builds a Strategy, optionally parameterized by a market
// filter dependency passed as an Option when the strategy is built.
type Constructor func(opts ...Option) Strategy

// Registry maps a strategy name to its constructor, letting the CLI host
// select a strategy by its configured name rather than by importing every
// implementation.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a Registry pre-populated with the four reference
// strategies.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.Register("sma_breakout", func(opts ...Option) Strategy { return NewSMABreakout(opts...) })
	r.Register("ema_breakout", func(opts ...Option) Strategy { return NewEMABreakout(opts...) })
	r.Register("trend_following", func(opts ...Option) Strategy { return NewTrendFollowing(opts...) })
	r.Register("rsi_swing", func(opts ...Option) Strategy { return NewRSISwing(opts...) })
	return r
}

// Register adds or replaces a named constructor.
func (r *Registry) Register(name string, c Constructor) {
	r.constructors[name] = c
}

// Build instantiates the named strategy, applying opts.
func (r *Registry) Build(name string, opts ...Option) (Strategy, error) {
	c, ok := r.constructors[name]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q", name)
	}
	return c(opts...), nil
}

// Names lists the registered strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	return names
}
