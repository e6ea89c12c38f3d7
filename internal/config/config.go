// Package config provides configuration management for the decision engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"tradecost/internal/models"
	"tradecost/internal/tariff"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	Engine      EngineConfig          `mapstructure:"engine"`
	Ledger      LedgerConfig          `mapstructure:"ledger"`
	Logging     LoggingConfig         `mapstructure:"logging"`
	Gateway     GatewayConfig         `mapstructure:"gateway"`
	Tariff      map[string]RateConfig `mapstructure:"tariff"`
	Credentials Credentials           `mapstructure:"-"` // Loaded separately
}

// EngineConfig holds decision-engine parameters.
type EngineConfig struct {
	DefaultSlippagePerShare float64 `mapstructure:"default_slippage_per_share"`
	TickSize                float64 `mapstructure:"tick_size"`
	PriceCeilingMultiple    float64 `mapstructure:"price_ceiling_multiple"`
	MaxSearchIterations     int     `mapstructure:"max_search_iterations"`
}

// LedgerConfig holds trade-ledger configuration.
type LedgerConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
	Path    string `mapstructure:"path"`
}

// GatewayConfig selects the order gateway.
type GatewayConfig struct {
	Mode                 string  `mapstructure:"mode"` // "paper", "live"
	FillSlippagePerShare float64 `mapstructure:"fill_slippage_per_share"`
}

// RateConfig is one tariff table entry, percentages as brokers publish them
// (0.1 means 0.1%).
type RateConfig struct {
	BrokeragePct float64 `mapstructure:"brokerage_pct"`
	BrokerageCap float64 `mapstructure:"brokerage_cap"`
	STTBuyPct    float64 `mapstructure:"stt_buy_pct"`
	STTSellPct   float64 `mapstructure:"stt_sell_pct"`
	TxnPct       float64 `mapstructure:"txn_pct"`
	GSTPct       float64 `mapstructure:"gst_pct"`
	SEBIPct      float64 `mapstructure:"sebi_pct"`
	StampDutyPct float64 `mapstructure:"stamp_duty_pct"`
	DPFlatFee    float64 `mapstructure:"dp_flat_fee"`
}

// Credentials holds API credentials.
type Credentials struct {
	Zerodha ZerodhaCredentials `mapstructure:"zerodha"`
}

// ZerodhaCredentials holds Zerodha API credentials.
type ZerodhaCredentials struct {
	APIKey      string `mapstructure:"api_key"`
	AccessToken string `mapstructure:"access_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradecost"
	}
	return filepath.Join(home, ".config", "tradecost")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file yields the
// built-in defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	loadCredentials(configDir, &cfg.Credentials)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.default_slippage_per_share", 0.01)
	v.SetDefault("engine.tick_size", 0.05)
	v.SetDefault("engine.price_ceiling_multiple", 2.0)
	v.SetDefault("engine.max_search_iterations", 10000)
	v.SetDefault("ledger.path", filepath.Join(DefaultConfigDir(), "ledger.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.path", filepath.Join(DefaultConfigDir(), "logs", "tradecost.log"))
	v.SetDefault("gateway.mode", "paper")
	v.SetDefault("gateway.fill_slippage_per_share", 0.0)
}

func loadCredentials(configDir string, creds *Credentials) {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		return
	}
	_ = v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ZERODHA_API_KEY"); v != "" {
		cfg.Credentials.Zerodha.APIKey = v
	}
	if v := os.Getenv("ZERODHA_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Zerodha.AccessToken = v
	}
	if v := os.Getenv("TRADECOST_GATEWAY_MODE"); v != "" {
		cfg.Gateway.Mode = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Gateway.Mode != "" && c.Gateway.Mode != "paper" && c.Gateway.Mode != "live" {
		return fmt.Errorf("invalid gateway mode: %s (must be 'paper' or 'live')", c.Gateway.Mode)
	}
	if c.Engine.DefaultSlippagePerShare < 0 {
		return fmt.Errorf("default_slippage_per_share must be non-negative")
	}
	if c.Engine.TickSize < 0 {
		return fmt.Errorf("tick_size must be non-negative")
	}
	if c.Engine.PriceCeilingMultiple != 0 && c.Engine.PriceCeilingMultiple <= 1 {
		return fmt.Errorf("price_ceiling_multiple must be greater than 1")
	}
	for name, rate := range c.Tariff {
		if rate.BrokeragePct < 0 || rate.STTBuyPct < 0 || rate.STTSellPct < 0 ||
			rate.TxnPct < 0 || rate.GSTPct < 0 || rate.SEBIPct < 0 ||
			rate.StampDutyPct < 0 || rate.DPFlatFee < 0 {
			return fmt.Errorf("tariff %q: rates must be non-negative", name)
		}
	}
	return nil
}

// BuildSchedule returns the tariff schedule: the built-in default table
// overlaid with any configured [tariff.<type>] entries.
func (c *Config) BuildSchedule() *tariff.Schedule {
	if len(c.Tariff) == 0 {
		return tariff.DefaultSchedule()
	}

	base := tariff.DefaultSchedule()
	rates := make(map[models.TradeType]tariff.Rate)
	for _, t := range base.Types() {
		r, _ := base.Rate(t)
		rates[t] = r
	}
	for name, rc := range c.Tariff {
		rates[tradeTypeFromKey(name)] = tariff.Rate{
			BrokeragePct:   decimal.NewFromFloat(rc.BrokeragePct),
			BrokerageCap:   decimal.NewFromFloat(rc.BrokerageCap),
			STTBuyPct:      decimal.NewFromFloat(rc.STTBuyPct),
			STTSellPct:     decimal.NewFromFloat(rc.STTSellPct),
			TransactionPct: decimal.NewFromFloat(rc.TxnPct),
			GSTPct:         decimal.NewFromFloat(rc.GSTPct),
			SEBIPct:        decimal.NewFromFloat(rc.SEBIPct),
			StampDutyPct:   decimal.NewFromFloat(rc.StampDutyPct),
			DPFee:          decimal.NewFromFloat(rc.DPFlatFee),
		}
	}
	return tariff.NewSchedule(rates)
}

func tradeTypeFromKey(key string) models.TradeType {
	switch key {
	case "delivery":
		return models.TradeTypeDelivery
	case "intraday":
		return models.TradeTypeIntraday
	case "futures":
		return models.TradeTypeFutures
	case "options":
		return models.TradeTypeOptions
	default:
		return models.TradeType(key)
	}
}

// IsPaperMode returns true if the paper gateway is selected.
func (c *Config) IsPaperMode() bool {
	return c.Gateway.Mode != "live"
}
