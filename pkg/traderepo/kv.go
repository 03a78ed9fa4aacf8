package traderepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/tidwall/buntdb"
)

// KVRepository persists trades to a BuntDB store, following the
// open/index/Ascend pattern of storage/buntdb.go.
type KVRepository struct {
	db     *buntdb.DB
	nextID int64
}

// NewKV opens (or creates) a BuntDB file at path. Pass ":memory:" for an
// ephemeral in-memory store.
func NewKV(path string) (*KVRepository, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("traderepo: failed to open buntdb: %w", err)
	}
	if err := db.CreateIndex("session_index", "session:*", buntdb.IndexJSON("session_id")); err != nil {
		return nil, fmt.Errorf("traderepo: failed to create index: %w", err)
	}
	return &KVRepository{db: db}, nil
}

func (k *KVRepository) id() int64 {
	return atomic.AddInt64(&k.nextID, 1)
}

type kvBuy struct {
	SessionID  string  `json:"session_id"`
	Ticker     string  `json:"ticker"`
	EntryPrice float64 `json:"entry_price"`
	Shares     int     `json:"shares"`
	StopLoss   float64 `json:"stop_loss"`
}

type kvSell struct {
	SessionID  string  `json:"session_id"`
	Ticker     string  `json:"ticker"`
	ExitPrice  float64 `json:"exit_price"`
	ExitReason string  `json:"exit_reason"`
	PnL        float64 `json:"pnl"`
	RMultiple  float64 `json:"r_multiple"`
}

func (k *KVRepository) RecordBuy(_ context.Context, sessionID string, p *core.Position) error {
	row := kvBuy{SessionID: sessionID, Ticker: p.Ticker, EntryPrice: p.EntryPrice, Shares: p.Shares, StopLoss: p.InitialStop}
	return k.put("buy", row)
}

func (k *KVRepository) RecordSell(_ context.Context, sessionID string, t *core.Trade) error {
	row := kvSell{SessionID: sessionID, Ticker: t.Ticker, ExitPrice: t.ExitPrice, ExitReason: string(t.ExitReason), PnL: t.PnL, RMultiple: t.RMultiple}
	return k.put("sell", row)
}

func (k *KVRepository) put(kind string, row any) error {
	content, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkFailure, err)
	}
	key := "session:" + kind + ":" + strconv.FormatInt(k.id(), 10)
	err = k.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(content), nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkFailure, err)
	}
	return nil
}

func (k *KVRepository) Close() error {
	if k.db == nil {
		return nil
	}
	return k.db.Close()
}
