package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, ticker, contents string) {
	t.Helper()
	path := filepath.Join(dir, ticker+".csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestStore_CandlesParsesHeaderedFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", "date,open,high,low,close,volume\n"+
		"2024-01-02,100,105,99,104,1000000\n"+
		"2024-01-03,104,108,103,107,1200000\n")

	s, err := New(dir)
	require.NoError(t, err)

	candles, err := s.Candles(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.Equal(t, "AAPL", candles[0].Ticker)
	require.Equal(t, 104.0, candles[1].Open)
	require.Equal(t, 107.0, candles[1].Close)
}

func TestStore_CandlesParsesHeaderlessFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "MSFT", "2024-01-02,100,105,99,104,1000000\n")

	s, err := New(dir)
	require.NoError(t, err)

	candles, err := s.Candles(context.Background(), "MSFT",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, candles, 1)
	require.Equal(t, 104.0, candles[0].Close)
}

func TestStore_CandlesFiltersToRange(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", "date,open,high,low,close,volume\n"+
		"2024-01-02,100,105,99,104,1000000\n"+
		"2024-06-01,110,115,108,112,900000\n")

	s, err := New(dir)
	require.NoError(t, err)

	candles, err := s.Candles(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, candles, 1)
	require.Equal(t, 104.0, candles[0].Close)
}

func TestStore_CandlesMissingFileReturnsDataUnavailable(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Candles(context.Background(), "NOPE", time.Time{}, time.Now())
	require.ErrorIs(t, err, core.ErrDataUnavailable)
}

func TestStore_TradingDaysUnionsAcrossTickers(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", "date,open,high,low,close,volume\n"+
		"2024-01-02,100,105,99,104,1000000\n"+
		"2024-01-03,104,108,103,107,1200000\n")
	writeCSV(t, dir, "MSFT", "date,open,high,low,close,volume\n"+
		"2024-01-03,200,205,199,204,500000\n"+
		"2024-01-04,204,210,202,208,600000\n")

	s, err := New(dir)
	require.NoError(t, err)

	days, err := s.TradingDays(context.Background(),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, days, 3)
	require.True(t, days[0].Before(days[1]))
	require.True(t, days[1].Before(days[2]))
}

func TestWithLookback_TrimsToTrailingWindow(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", "date,open,high,low,close,volume\n"+
		"2023-01-01,100,105,99,104,1000000\n"+
		"2024-01-01,110,115,108,112,900000\n"+
		"2024-06-01,120,125,118,122,800000\n")

	s, err := New(dir, WithLookback("4380h")) // ~6 months
	require.NoError(t, err)

	candles, err := s.Candles(context.Background(), "AAPL",
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, candles, 2, "the 2023 bar falls outside the ~6-month trailing window ending 2024-06-01")
	require.Equal(t, 112.0, candles[0].Close)
	require.Equal(t, 122.0, candles[1].Close)
}

func TestNew_RejectsMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
