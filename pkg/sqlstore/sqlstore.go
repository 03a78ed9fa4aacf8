// Package sqlstore implements core.CandleStore over a GORM-backed SQL table,
// following the connection-pool and AutoMigrate-on-open pattern traderepo
// uses for trade persistence.
package sqlstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"gorm.io/gorm"
)

// candleRow is the GORM model backing Store.
type candleRow struct {
	ID     uint `gorm:"primaryKey"`
	Ticker string `gorm:"index:idx_ticker_date,unique"`
	Date   time.Time `gorm:"index:idx_ticker_date,unique"`
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (candleRow) TableName() string { return "candles" }

// Store serves candles from a SQL candles table.
type Store struct {
	db *gorm.DB
}

// New opens a GORM connection over dialect, configures its pool and
// migrates the candles table.
func New(dialect gorm.Dialector, opts ...gorm.Option) (*Store, error) {
	db, err := gorm.Open(dialect, opts...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: failed to get database handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&candleRow{}); err != nil {
		return nil, fmt.Errorf("sqlstore: failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Seed bulk-inserts a ticker's candle series, used by importers and tests to
// populate a store ahead of a backtest session.
func (s *Store) Seed(ctx context.Context, series core.CandleSeries) error {
	if len(series) == 0 {
		return nil
	}
	rows := make([]candleRow, len(series))
	for i, c := range series {
		rows[i] = candleRow{Ticker: c.Ticker, Date: c.Date, Open: c.Open, High: c.High, Low: c.Low, Close: c.Close, Volume: c.Volume}
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("sqlstore: seed failed: %w", err)
	}
	return nil
}

func (s *Store) Candles(ctx context.Context, ticker string, start, end time.Time) (core.CandleSeries, error) {
	var rows []candleRow
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND date BETWEEN ? AND ?", ticker, start, end).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	if len(rows) == 0 {
		var known int64
		if err := s.db.WithContext(ctx).Model(&candleRow{}).Where("ticker = ?", ticker).Count(&known).Error; err != nil {
			return nil, fmt.Errorf("sqlstore: %w", err)
		}
		if known == 0 {
			return nil, fmt.Errorf("%w: %s", core.ErrDataUnavailable, ticker)
		}
		return core.CandleSeries{}, nil
	}

	series := make(core.CandleSeries, len(rows))
	for i, r := range rows {
		series[i] = core.Candle{Ticker: r.Ticker, Date: r.Date, Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume}
	}
	return series, nil
}

func (s *Store) TradingDays(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := s.db.WithContext(ctx).
		Model(&candleRow{}).
		Where("date BETWEEN ? AND ?", start, end).
		Distinct().
		Order("date ASC").
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("sqlstore: %w", err)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlstore: failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}
