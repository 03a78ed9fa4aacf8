// Package traderepo provides TradeRepository implementations: a GORM-backed
// SQL sink, a BuntDB-backed key/value sink, and a no-op default.
package traderepo

import (
	"context"
	"fmt"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"gorm.io/gorm"
)

// buyRecord and sellRecord are the GORM models backing SQLRepository. Two
// tables rather than one nullable-column table, matching the original
// engine's separate record_buy/record_sell calls.
type buyRecord struct {
	ID         uint `gorm:"primaryKey"`
	SessionID  string
	Ticker     string
	EntryDate  time.Time
	EntryPrice float64
	Shares     int
	StopLoss   float64
	ATR        float64
}

type sellRecord struct {
	ID         uint `gorm:"primaryKey"`
	SessionID  string
	Ticker     string
	EntryDate  time.Time
	EntryPrice float64
	ExitDate   time.Time
	ExitPrice  float64
	Shares     int
	ExitReason string
	PnL        float64
	PnLPct     float64
	RMultiple  float64
}

// SQLRepository persists trades through GORM, following the connection-pool
// configuration and AutoMigrate-on-open pattern of storage/sql.go.
type SQLRepository struct {
	db *gorm.DB
}

// NewSQL opens a GORM connection over dialect, configures its pool and
// migrates the buy/sell tables.
func NewSQL(dialect gorm.Dialector, opts ...gorm.Option) (*SQLRepository, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("traderepo: failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("traderepo: failed to get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&buyRecord{}, &sellRecord{}); err != nil {
		return nil, fmt.Errorf("traderepo: failed to run migrations: %w", err)
	}

	return &SQLRepository{db: db}, nil
}

func (s *SQLRepository) RecordBuy(ctx context.Context, sessionID string, p *core.Position) error {
	row := buyRecord{
		SessionID:  sessionID,
		Ticker:     p.Ticker,
		EntryDate:  p.EntryDate,
		EntryPrice: p.EntryPrice,
		Shares:     p.Shares,
		StopLoss:   p.InitialStop,
		ATR:        p.ATRAtEntry,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkFailure, err)
	}
	return nil
}

func (s *SQLRepository) RecordSell(ctx context.Context, sessionID string, t *core.Trade) error {
	row := sellRecord{
		SessionID:  sessionID,
		Ticker:     t.Ticker,
		EntryDate:  t.EntryDate,
		EntryPrice: t.EntryPrice,
		ExitDate:   t.ExitDate,
		ExitPrice:  t.ExitPrice,
		Shares:     t.Shares,
		ExitReason: string(t.ExitReason),
		PnL:        t.PnL,
		PnLPct:     t.PnLPct,
		RMultiple:  t.RMultiple,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("%w: %v", core.ErrSinkFailure, err)
	}
	return nil
}

func (s *SQLRepository) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("traderepo: failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
