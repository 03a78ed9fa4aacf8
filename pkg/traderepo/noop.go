package traderepo

import (
	"context"

	"github.com/nawhizz/trend-surfer/pkg/core"
)

// Noop discards every record — the default for sessions that don't need a
// persisted trade ledger, e.g. ad hoc parameter sweeps.
type Noop struct{}

func (Noop) RecordBuy(context.Context, string, *core.Position) error { return nil }
func (Noop) RecordSell(context.Context, string, *core.Trade) error   { return nil }
func (Noop) Close() error                                            { return nil }
