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
	SerpAPI  SerpAPIConfig  `yaml:"serpapi" mapstructure:"serpapi"`
	Language LanguageConfig `yaml:"language" mapstructure:"language"`
	Enrich   EnrichConfig   `yaml:"enrich" mapstructure:"enrich"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SerpAPIConfig holds SerpAPI search settings.
type SerpAPIConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	ResultCount int    `yaml:"result_count" mapstructure:"result_count"`
}

// LanguageConfig holds Cloud Natural Language API settings.
type LanguageConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// EnrichConfig configures the autofill engine.
type EnrichConfig struct {
	FirmColumn    string `yaml:"firm_column" mapstructure:"firm_column"`
	RolesFile     string `yaml:"roles_file" mapstructure:"roles_file"`
	DelaySecs     int    `yaml:"delay_secs" mapstructure:"delay_secs"`
	Concurrency   int    `yaml:"concurrency" mapstructure:"concurrency"`
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// CacheConfig configures the local lookup cache.
type CacheConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that the configuration can support an enrichment run.
func (c *Config) Validate() error {
	var missing []string
	if c.SerpAPI.Key == "" {
		missing = append(missing, "serpapi.key is required (CONTACT_SERPAPI_KEY)")
	}
	if c.Language.Key == "" {
		missing = append(missing, "language.key is required (CONTACT_LANGUAGE_KEY)")
	}
	if c.Enrich.FirmColumn == "" {
		missing = append(missing, "enrich.firm_column must not be empty")
	}
	if c.Enrich.DelaySecs < 0 {
		missing = append(missing, "enrich.delay_secs must be >= 0")
	}
	if c.Enrich.Concurrency < 1 || c.Enrich.Concurrency > 50 {
		missing = append(missing, "enrich.concurrency must be between 1 and 50")
	}
	if len(missing) > 0 {
		return eris.New("config: " + strings.Join(missing, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CONTACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.result_count", 10)
	v.SetDefault("language.base_url", "https://language.googleapis.com/v1")
	v.SetDefault("enrich.firm_column", "FIRM NAME")
	v.SetDefault("enrich.delay_secs", 3)
	v.SetDefault("enrich.concurrency", 1)
	v.SetDefault("enrich.cache_ttl_hours", 168)
	v.SetDefault("cache.path", "contact-cache.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
