package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Priority  PriorityConfig  `yaml:"priority" mapstructure:"priority"`
	Budget    BudgetConfig    `yaml:"budget" mapstructure:"budget"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the item-cache database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds ranking-service API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// EngineConfig configures recommendation behavior. These are the global
// defaults; per-tenant overrides are resolved by internal/settings.
type EngineConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int     `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	DefaultCount      int     `yaml:"default_count" mapstructure:"default_count"`
	DefaultMinScore   float64 `yaml:"default_min_score" mapstructure:"default_min_score"`
	MaxScan           int     `yaml:"max_scan" mapstructure:"max_scan"`
}

// PriorityConfig holds the default priority-score weights and thresholds.
type PriorityConfig struct {
	NewArrivalWeight float64 `yaml:"new_arrival_weight" mapstructure:"new_arrival_weight"`
	OverstockWeight  float64 `yaml:"overstock_weight" mapstructure:"overstock_weight"`
	SlowMoverWeight  float64 `yaml:"slow_mover_weight" mapstructure:"slow_mover_weight"`
	HighMarginWeight float64 `yaml:"high_margin_weight" mapstructure:"high_margin_weight"`
	OnSaleWeight     float64 `yaml:"on_sale_weight" mapstructure:"on_sale_weight"`

	NewArrivalWindowDays int `yaml:"new_arrival_window_days" mapstructure:"new_arrival_window_days"`
	OverstockThreshold   int `yaml:"overstock_threshold" mapstructure:"overstock_threshold"`
	SlowMoverThreshold   int `yaml:"slow_mover_threshold" mapstructure:"slow_mover_threshold"`
}

// BudgetConfig holds the default budget-tier price bands.
type BudgetConfig struct {
	LowMax    float64 `yaml:"low_max" mapstructure:"low_max"`
	MediumMax float64 `yaml:"medium_max" mapstructure:"medium_max"`
	HighMax   float64 `yaml:"high_max" mapstructure:"high_max"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("STYLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("engine.enabled", true)
	v.SetDefault("engine.requests_per_minute", 30)
	v.SetDefault("engine.max_retries", 3)
	v.SetDefault("engine.default_count", 5)
	v.SetDefault("engine.default_min_score", 50)
	v.SetDefault("engine.max_scan", 50)
	v.SetDefault("priority.new_arrival_weight", 30)
	v.SetDefault("priority.overstock_weight", 20)
	v.SetDefault("priority.slow_mover_weight", 10)
	v.SetDefault("priority.high_margin_weight", 20)
	v.SetDefault("priority.on_sale_weight", 20)
	v.SetDefault("priority.new_arrival_window_days", 30)
	v.SetDefault("priority.overstock_threshold", 50)
	v.SetDefault("priority.slow_mover_threshold", 5)
	v.SetDefault("budget.low_max", 30)
	v.SetDefault("budget.medium_max", 80)
	v.SetDefault("budget.high_max", 200)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
