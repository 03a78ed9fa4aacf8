// Package config loads session configuration through Viper: a YAML file on
// disk, overridable by environment variables, following trend_master's
// AppConfig/LoadAppConfig pattern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nawhizz/trend-surfer/pkg/risk"
	"github.com/spf13/viper"
)

// DefaultConfigPath is used when no --config flag is supplied.
const DefaultConfigPath = "./trend-surfer.yaml"

// Config is the full session configuration: capital, risk, data source,
// strategy selection and notification sinks.
type Config struct {
	SessionID        string  `mapstructure:"session_id"`
	InitialCapital   float64 `mapstructure:"initial_capital"`
	BaseRiskPct      float64 `mapstructure:"base_risk_pct"`
	MaxPortfolioRisk float64 `mapstructure:"max_portfolio_risk"`

	// ReduceRiskPct is the per-trade risk percentage applied once reduced-
	// risk mode activates.
	ReduceRiskPct float64 `mapstructure:"reduce_risk_pct"`
	// ReductionTradeBudget is the number of trades after which reduced-risk
	// mode lapses if no recovery threshold has ended it sooner.
	ReductionTradeBudget int `mapstructure:"reduction_trade_budget"`
	// ConsecLossTrigger is the consecutive stop-loss count that activates
	// reduced-risk mode.
	ConsecLossTrigger int `mapstructure:"consec_loss_trigger"`
	// DrawdownTrigger is the drawdown-from-peak fraction that activates
	// reduced-risk mode.
	DrawdownTrigger float64 `mapstructure:"drawdown_trigger"`
	// RecoveryR is the cumulative R gained since reduction that ends
	// reduced-risk mode early.
	RecoveryR float64 `mapstructure:"recovery_r"`
	// RecoveryWins is the count of non-stop-loss exits since reduction
	// that ends reduced-risk mode early.
	RecoveryWins int `mapstructure:"recovery_wins"`

	// RiskFreeRate is the annualized rate metric.Compute subtracts before
	// annualizing the Sharpe ratio.
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`

	Strategy   string   `mapstructure:"strategy"`
	Tickers    []string `mapstructure:"tickers"`
	StartDate  string   `mapstructure:"start_date"`
	EndDate    string   `mapstructure:"end_date"`

	MarketFilter MarketFilterConfig `mapstructure:"market_filter"`

	Data  DataConfig  `mapstructure:"data"`
	Trade TradeConfig `mapstructure:"trade"`

	Telegram TelegramConfig `mapstructure:"telegram"`
	Mail     MailConfig     `mapstructure:"mail"`

	LogLevel   string `mapstructure:"log_level"`
	LogBackend string `mapstructure:"log_backend"`

	// ShowProgress renders a CLI progress bar over the trading-day loop.
	// Disabled by default since CI/batch runs redirect stdout elsewhere.
	ShowProgress bool `mapstructure:"show_progress"`
}

// MarketFilterConfig selects the two index tickers and parameters backing
// marketfilter.Filter.
type MarketFilterConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	PrimaryTicker   string  `mapstructure:"primary_ticker"`
	SecondaryTicker string  `mapstructure:"secondary_ticker"`
	MAPeriod        int     `mapstructure:"ma_period"`
	SlopeThreshold  float64 `mapstructure:"slope_threshold"`
}

// DataConfig selects the candle source: "csv" (a directory of per-ticker
// files) or "sql" (a DSN against a candles table).
type DataConfig struct {
	Source   string `mapstructure:"source"`
	CSVDir   string `mapstructure:"csv_dir"`
	SQLDSN   string `mapstructure:"sql_dsn"`
	Lookback string `mapstructure:"lookback"`
}

// TradeConfig selects where executed trades are recorded: "noop", "sql" or
// "kv".
type TradeConfig struct {
	Sink   string `mapstructure:"sink"`
	SQLDSN string `mapstructure:"sql_dsn"`
	KVPath string `mapstructure:"kv_path"`
}

// TelegramConfig configures the optional Telegram notifier.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
	Users   []int  `mapstructure:"users"`
}

// MailConfig configures the optional email notifier.
type MailConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SMTPServer string `mapstructure:"smtp_server"`
	SMTPPort   int    `mapstructure:"smtp_port"`
	From       string `mapstructure:"from"`
	To         string `mapstructure:"to"`
	Password   string `mapstructure:"password"`
}

// Default returns a Config with the engine's own defaults, suitable as a
// starting point before a file or env vars are applied.
func Default() *Config {
	return &Config{
		SessionID:            "backtest",
		InitialCapital:       100000,
		BaseRiskPct:          risk.DefaultRiskPct,
		MaxPortfolioRisk:     risk.MaxPortfolioRisk,
		ReduceRiskPct:        risk.ReducedRiskPct,
		ReductionTradeBudget: risk.ReducedTradesCount,
		ConsecLossTrigger:    risk.ConsecutiveLossTrigger,
		DrawdownTrigger:      risk.DrawdownTrigger,
		RecoveryR:            risk.RecoveryRThreshold,
		RecoveryWins:         risk.RecoveryWinsThreshold,
		RiskFreeRate:         0.03,
		Strategy:             "trend_following",
		Data:                 DataConfig{Source: "csv", CSVDir: "./data"},
		Trade:                TradeConfig{Sink: "noop"},
		LogLevel:             "info",
		LogBackend:           "zerolog",
	}
}

// Load reads configPath (YAML) into a Config, falling back to Default and
// writing it out when the file doesn't exist yet. Environment variables
// prefixed TRENDSURFER_ (e.g. TRENDSURFER_BASE_RISK_PCT) override top-level
// keys the file sets; keys absent from the file are not read from the
// environment, and a missing file yields the defaults without consulting it.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetEnvPrefix("TRENDSURFER")
	v.AutomaticEnv()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return saveDefault(v, configPath)
	}

	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", configPath, err)
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configPath, err)
	}
	return cfg, nil
}

func saveDefault(v *viper.Viper, configPath string) (*Config, error) {
	cfg := Default()

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return cfg, nil
		}
	}

	v.SetConfigFile(configPath)
	v.Set("session_id", cfg.SessionID)
	v.Set("initial_capital", cfg.InitialCapital)
	v.Set("base_risk_pct", cfg.BaseRiskPct)
	v.Set("max_portfolio_risk", cfg.MaxPortfolioRisk)
	v.Set("reduce_risk_pct", cfg.ReduceRiskPct)
	v.Set("reduction_trade_budget", cfg.ReductionTradeBudget)
	v.Set("consec_loss_trigger", cfg.ConsecLossTrigger)
	v.Set("drawdown_trigger", cfg.DrawdownTrigger)
	v.Set("recovery_r", cfg.RecoveryR)
	v.Set("recovery_wins", cfg.RecoveryWins)
	v.Set("risk_free_rate", cfg.RiskFreeRate)
	v.Set("strategy", cfg.Strategy)
	v.Set("data", cfg.Data)
	v.Set("trade", cfg.Trade)
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_backend", cfg.LogBackend)
	v.Set("show_progress", cfg.ShowProgress)

	if err := v.WriteConfig(); err != nil {
		return cfg, fmt.Errorf("config: failed to write default config: %w", err)
	}
	return cfg, nil
}
