// Package csvstore implements core.CandleStore over a directory of
// per-ticker daily OHLCV CSV files, grounded on exchange.CSVFeed's header
// parsing and row layout but trimmed to the daily-equities shape: no
// timeframe resampling, no Heikin-Ashi conversion.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// defaultHeaderMap maps columns by position as date,open,high,low,close,
// volume. Header names are not read; a first row whose date field doesn't
// parse is skipped as a header line.
var defaultHeaderMap = map[string]int{
	"date": 0, "open": 1, "high": 2, "low": 3, "close": 4, "volume": 5,
}

const dateLayout = "2006-01-02"

// Store serves candles from one CSV file per ticker under Dir, named
// "<TICKER>.csv". Lookback, if non-zero, trims each loaded series to the
// trailing window ending at its last candle, mirroring CSVFeed.Limit.
type Store struct {
	dir      string
	lookback time.Duration

	cache map[string]core.CandleSeries
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithLookback trims each ticker's series to the trailing duration (parsed
// via go-str2duration, e.g. "4380h" for ~6 months) ending at its last candle.
func WithLookback(spec string) Option {
	return func(s *Store) {
		if spec == "" {
			return
		}
		d, err := str2duration.ParseDuration(spec)
		if err == nil {
			s.lookback = d
		}
	}
}

// New opens a directory-backed candle store. Files are read lazily on first
// Candles call per ticker and cached for the Store's lifetime.
func New(dir string, opts ...Option) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("csvstore: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("csvstore: %s is not a directory", dir)
	}
	s := &Store{dir: dir, cache: make(map[string]core.CandleSeries)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Candles(_ context.Context, ticker string, start, end time.Time) (core.CandleSeries, error) {
	series, err := s.load(ticker)
	if err != nil {
		return nil, err
	}

	out := make(core.CandleSeries, 0, len(series))
	for _, c := range series {
		if c.Date.Before(start) || c.Date.After(end) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) TradingDays(ctx context.Context, start, end time.Time) ([]time.Time, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("csvstore: %w", err)
	}

	seen := make(map[time.Time]struct{})
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".csv" {
			continue
		}
		ticker := ticker(e.Name())
		series, err := s.load(ticker)
		if err != nil {
			return nil, err
		}
		for _, c := range series {
			if c.Date.Before(start) || c.Date.After(end) {
				continue
			}
			seen[c.Date] = struct{}{}
		}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func (s *Store) Close() error { return nil }

func (s *Store) load(tickerName string) (core.CandleSeries, error) {
	if cached, ok := s.cache[tickerName]; ok {
		return cached, nil
	}

	path := filepath.Join(s.dir, tickerName+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", core.ErrDataUnavailable, tickerName, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvstore: %s: %w", tickerName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", core.ErrDataUnavailable, tickerName)
	}

	headerMap := defaultHeaderMap
	if _, err := time.Parse(dateLayout, rows[0][headerMap["date"]]); err != nil {
		rows = rows[1:]
	}

	series := make(core.CandleSeries, 0, len(rows))
	for _, row := range rows {
		c, err := parseRow(row, headerMap, tickerName)
		if err != nil {
			return nil, fmt.Errorf("csvstore: %s: %w", tickerName, err)
		}
		series = append(series, c)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })

	if s.lookback > 0 && len(series) > 0 {
		cutoff := series[len(series)-1].Date.Add(-s.lookback)
		trimmed := series[:0:0]
		for _, c := range series {
			if !c.Date.Before(cutoff) {
				trimmed = append(trimmed, c)
			}
		}
		series = trimmed
	}

	s.cache[tickerName] = series
	return series, nil
}

func parseRow(row []string, headerMap map[string]int, tickerName string) (core.Candle, error) {
	date, err := time.Parse(dateLayout, row[headerMap["date"]])
	if err != nil {
		return core.Candle{}, err
	}

	c := core.Candle{Ticker: tickerName, Date: date}
	fields := []struct {
		key string
		dst *float64
	}{
		{"open", &c.Open},
		{"high", &c.High},
		{"low", &c.Low},
		{"close", &c.Close},
		{"volume", &c.Volume},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(row[headerMap[f.key]], 64)
		if err != nil {
			return core.Candle{}, err
		}
		*f.dst = v
	}
	return c, nil
}

func ticker(filename string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))]
}
