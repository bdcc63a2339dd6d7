package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sells-group/capital-cli/internal/capital"
	"github.com/sells-group/capital-cli/internal/coerce"
)

// Config holds the full application configuration.
type Config struct {
	Capital CapitalConfig `yaml:"capital" mapstructure:"capital"`
	IRB     IRBConfig     `yaml:"irb" mapstructure:"irb"`
	Batch   BatchConfig   `yaml:"batch" mapstructure:"batch"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CapitalConfig holds calculator defaults.
type CapitalConfig struct {
	DefaultRatio        float64 `yaml:"default_ratio" mapstructure:"default_ratio"`
	DefaultJurisdiction string  `yaml:"default_jurisdiction" mapstructure:"default_jurisdiction"`
	ApplyBaselineFloors bool    `yaml:"apply_bcbs_baseline_floors" mapstructure:"apply_bcbs_baseline_floors"`
}

// IRBConfig configures the large-corporate background switch.
type IRBConfig struct {
	LargeCorporateSwitch bool               `yaml:"large_corporate_switch" mapstructure:"large_corporate_switch"`
	RevenueThresholds    map[string]float64 `yaml:"revenue_thresholds" mapstructure:"revenue_thresholds"`
}

// BatchConfig configures portfolio runs.
type BatchConfig struct {
	MaxConcurrentLoans int `yaml:"max_concurrent_loans" mapstructure:"max_concurrent_loans"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int      `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CAPITAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	def := capital.DefaultOptions()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("capital.default_ratio", def.DefaultRatio)
	v.SetDefault("capital.default_jurisdiction", def.DefaultJurisdiction)
	v.SetDefault("capital.apply_bcbs_baseline_floors", false)
	v.SetDefault("irb.large_corporate_switch", def.LargeCorporateSwitch)
	v.SetDefault("irb.revenue_thresholds", def.RevenueThresholds)
	v.SetDefault("batch.max_concurrent_loans", 8)

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

// CapitalOptions maps the configuration onto calculator options.
func (c *Config) CapitalOptions() capital.Options {
	// viper lower-cases map keys; jurisdictions are upper-case codes.
	thresholds := make(map[string]float64, len(c.IRB.RevenueThresholds))
	for k, v := range c.IRB.RevenueThresholds {
		thresholds[strings.ToUpper(k)] = v
	}

	return capital.Options{
		DefaultRatio:         c.Capital.DefaultRatio,
		DefaultJurisdiction:  strings.ToUpper(c.Capital.DefaultJurisdiction),
		ApplyBaselineFloors:  c.Capital.ApplyBaselineFloors,
		LargeCorporateSwitch: c.IRB.LargeCorporateSwitch,
		RevenueThresholds:    thresholds,
	}
}

// Validate checks the settings a command depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "calc", "tables", "securitization":
	case "batch":
		if c.Batch.MaxConcurrentLoans < 1 {
			errs = append(errs, "batch.max_concurrent_loans must be >= 1")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be between 1 and 65535")
		}
		if c.Server.RateLimitRPS <= 0 {
			errs = append(errs, "server.rate_limit_rps must be > 0")
		}
		if c.Server.RateLimitBurst < 1 {
			errs = append(errs, "server.rate_limit_burst must be >= 1")
		}
		if c.Batch.MaxConcurrentLoans < 1 {
			errs = append(errs, "batch.max_concurrent_loans must be >= 1")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Capital.DefaultRatio <= 0 || c.Capital.DefaultRatio > 1 {
		errs = append(errs, "capital.default_ratio must be in (0, 1]")
	}
	if _, ok := coerce.Jurisdiction(c.Capital.DefaultJurisdiction); !ok {
		errs = append(errs, "capital.default_jurisdiction must be one of US, CAN, EU")
	}
	for k, v := range c.IRB.RevenueThresholds {
		if v <= 0 {
			errs = append(errs, "irb.revenue_thresholds."+k+" must be > 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger. When cfg.File is set, log
// lines are also written to a size-rotated file.
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

	if cfg.File != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		})
		fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zapCfg.Level)
		logger = logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	zap.ReplaceGlobals(logger)

	return nil
}
