package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nawhizz/trend-surfer/pkg/config"
	"github.com/nawhizz/trend-surfer/pkg/core"
	"github.com/nawhizz/trend-surfer/pkg/csvstore"
	"github.com/nawhizz/trend-surfer/pkg/engine"
	"github.com/nawhizz/trend-surfer/pkg/logger"
	"github.com/nawhizz/trend-surfer/pkg/logger/logrusadapter"
	"github.com/nawhizz/trend-surfer/pkg/logger/zerologadapter"
	"github.com/nawhizz/trend-surfer/pkg/marketdata"
	"github.com/nawhizz/trend-surfer/pkg/marketfilter"
	"github.com/nawhizz/trend-surfer/pkg/metric"
	"github.com/nawhizz/trend-surfer/pkg/notification"
	"github.com/nawhizz/trend-surfer/pkg/report"
	"github.com/nawhizz/trend-surfer/pkg/sqlstore"
	"github.com/nawhizz/trend-surfer/pkg/strategy"
	"github.com/nawhizz/trend-surfer/pkg/traderepo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "backtest",
		Short:   "Run an event-driven daily equity backtest session",
		Version: "1.0.0",
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "path to session config file")
	rootCmd.AddCommand(buildRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a backtest session end to end",
		RunE:  runSession,
	}
}

func runSession(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("backtest: failed to init logger: %w", err)
	}

	ctx := cmd.Context()
	start, err := time.Parse(dateLayout, cfg.StartDate)
	if err != nil {
		return fmt.Errorf("backtest: invalid start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, cfg.EndDate)
	if err != nil {
		return fmt.Errorf("backtest: invalid end_date: %w", err)
	}

	store, err := buildCandleStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	frames, tradingDays, err := buildFrames(ctx, store, cfg, start, end)
	if err != nil {
		return err
	}

	strat, err := buildStrategy(cfg, frames)
	if err != nil {
		return err
	}

	repo, err := buildTradeRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	notifier := buildNotifier(cfg)

	econf := engine.DefaultConfig(cfg.SessionID, cfg.InitialCapital)
	econf.BaseRiskPct = cfg.BaseRiskPct
	econf.MaxPortfolioRisk = cfg.MaxPortfolioRisk
	econf.ReducedRiskPct = cfg.ReduceRiskPct
	econf.ReducedTradesCount = cfg.ReductionTradeBudget
	econf.ConsecutiveLossTrigger = cfg.ConsecLossTrigger
	econf.DrawdownTrigger = cfg.DrawdownTrigger
	econf.RecoveryRThreshold = cfg.RecoveryR
	econf.RecoveryWinsThreshold = cfg.RecoveryWins

	opts := []engine.Option{
		engine.WithTradeRepository(repo),
		engine.WithLogger(log),
		engineNotifierOption(notifier),
	}
	if cfg.ShowProgress {
		opts = append(opts, engine.WithProgressBar())
	}
	eng := engine.New(econf, strat, frames, tradingDays, opts...)

	result, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("backtest: session failed: %w", err)
	}

	stats := metric.Compute(result, cfg.RiskFreeRate)
	report.WriteSummary(os.Stdout, cfg.SessionID, stats)
	fmt.Println("------ TRADE RETURNS -------")
	report.WriteTradeReturnsHistogram(os.Stdout, result.Trades)
	fmt.Println("------ EQUITY CURVE (daily % returns) -------")
	report.WriteEquityCurve(os.Stdout, result.DailyRecords)

	if notifier != nil {
		notifier.Notify(fmt.Sprintf("session %s finished: return %.2f%%", cfg.SessionID, stats.TotalReturnPct))
	}
	return nil
}

func engineNotifierOption(n core.Notifier) engine.Option {
	if n == nil {
		return func(*engine.Engine) {}
	}
	return engine.WithNotifier(n)
}

// buildLogger selects the zerolog-backed adapter by default, or the
// logrus-backed one when a host already standardizes on logrus elsewhere.
func buildLogger(cfg *config.Config) (logger.Logger, error) {
	switch cfg.LogBackend {
	case "logrus":
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("backtest: invalid log_level %q: %w", cfg.LogLevel, err)
		}
		return logrusadapter.New(level), nil
	case "zerolog", "":
		return zerologadapter.New(cfg.LogLevel, true, false)
	default:
		return nil, fmt.Errorf("backtest: unknown log_backend %q", cfg.LogBackend)
	}
}

func buildCandleStore(cfg *config.Config) (core.CandleStore, error) {
	switch cfg.Data.Source {
	case "sql":
		return sqlstore.New(sqlite.Open(cfg.Data.SQLDSN))
	case "csv", "":
		if cfg.Data.Lookback != "" {
			return csvstore.New(cfg.Data.CSVDir, csvstore.WithLookback(cfg.Data.Lookback))
		}
		return csvstore.New(cfg.Data.CSVDir)
	default:
		return nil, fmt.Errorf("backtest: unknown data source %q", cfg.Data.Source)
	}
}

func buildFrames(ctx context.Context, store core.CandleStore, cfg *config.Config, start, end time.Time) (map[string]*marketdata.Frame, []time.Time, error) {
	frames := make(map[string]*marketdata.Frame, len(cfg.Tickers))
	for _, ticker := range cfg.Tickers {
		candles, err := store.Candles(ctx, ticker, start, end)
		if err != nil {
			return nil, nil, fmt.Errorf("backtest: failed to load candles for %s: %w", ticker, err)
		}
		frames[ticker] = marketdata.Build(ticker, candles, marketdata.DefaultPeriods)
	}

	tradingDays, err := store.TradingDays(ctx, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("backtest: failed to load trading days: %w", err)
	}
	return frames, tradingDays, nil
}

func buildStrategy(cfg *config.Config, frames map[string]*marketdata.Frame) (strategy.Strategy, error) {
	var opts []strategy.Option
	if cfg.MarketFilter.Enabled {
		primary := frames[cfg.MarketFilter.PrimaryTicker]
		secondary := frames[cfg.MarketFilter.SecondaryTicker]
		if primary == nil || secondary == nil {
			return nil, fmt.Errorf("backtest: market filter tickers must be included in the session universe")
		}
		filter := marketfilter.New(primary, secondary, cfg.MarketFilter.MAPeriod, cfg.MarketFilter.SlopeThreshold)
		opts = append(opts, strategy.WithMarketFilter(filter))
	}

	registry := strategy.NewRegistry()
	return registry.Build(cfg.Strategy, opts...)
}

func buildTradeRepository(cfg *config.Config) (core.TradeRepository, error) {
	switch cfg.Trade.Sink {
	case "sql":
		return traderepo.NewSQL(sqlite.Open(cfg.Trade.SQLDSN))
	case "kv":
		return traderepo.NewKV(cfg.Trade.KVPath)
	case "noop", "":
		return traderepo.Noop{}, nil
	default:
		return nil, fmt.Errorf("backtest: unknown trade sink %q", cfg.Trade.Sink)
	}
}

func buildNotifier(cfg *config.Config) core.Notifier {
	if cfg.Telegram.Enabled {
		n, err := notification.NewTelegram(cfg.Telegram.Token, cfg.Telegram.Users, nil)
		if err == nil {
			return n
		}
	}
	if cfg.Mail.Enabled {
		return notification.NewMail(notification.MailParams{
			SMTPServerPort:    cfg.Mail.SMTPPort,
			SMTPServerAddress: cfg.Mail.SMTPServer,
			To:                cfg.Mail.To,
			From:              cfg.Mail.From,
			Password:          cfg.Mail.Password,
		})
	}
	return nil
}
