package traderepo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func samplePosition() *core.Position {
	return &core.Position{
		Ticker:      "AAPL",
		EntryDate:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EntryPrice:  100,
		Shares:      10,
		InitialStop: 95,
		ATRAtEntry:  2.5,
	}
}

func sampleTrade() *core.Trade {
	return &core.Trade{
		Ticker:     "AAPL",
		EntryDate:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		EntryPrice: 100,
		ExitDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		ExitPrice:  110,
		Shares:     10,
		ExitReason: core.ExitMAExit,
		PnL:        100,
		PnLPct:     0.1,
		RMultiple:  2,
	}
}

func TestKVRepository_RecordBuyAndSellDoNotError(t *testing.T) {
	repo, err := NewKV(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.RecordBuy(context.Background(), "session-1", samplePosition()))
	require.NoError(t, repo.RecordSell(context.Background(), "session-1", sampleTrade()))
}

func TestKVRepository_CloseIsNoopOnNilDB(t *testing.T) {
	repo := &KVRepository{}
	require.NoError(t, repo.Close())
}

func newTestSQLRepo(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := NewSQL(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLRepository_RecordBuyPersistsRow(t *testing.T) {
	repo := newTestSQLRepo(t)
	require.NoError(t, repo.RecordBuy(context.Background(), "session-1", samplePosition()))

	var row buyRecord
	require.NoError(t, repo.db.First(&row).Error)
	require.Equal(t, "AAPL", row.Ticker)
	require.Equal(t, 10, row.Shares)
	require.Equal(t, 2.5, row.ATR)
}

func TestSQLRepository_RecordSellPersistsRow(t *testing.T) {
	repo := newTestSQLRepo(t)
	require.NoError(t, repo.RecordSell(context.Background(), "session-1", sampleTrade()))

	var row sellRecord
	require.NoError(t, repo.db.First(&row).Error)
	require.Equal(t, "AAPL", row.Ticker)
	require.Equal(t, string(core.ExitMAExit), row.ExitReason)
	require.Equal(t, 2.0, row.RMultiple)
}
