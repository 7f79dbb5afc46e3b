package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site" mapstructure:"site"`
	Browser  BrowserConfig  `yaml:"browser" mapstructure:"browser"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SiteConfig identifies the source site and the index query.
type SiteConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	ListingsURL string `yaml:"listings_url" mapstructure:"listings_url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// BrowserConfig configures the Chrome automation session.
type BrowserConfig struct {
	Headless        bool   `yaml:"headless" mapstructure:"headless"`
	ProfileDir      string `yaml:"profile_dir" mapstructure:"profile_dir"`
	NavTimeoutSecs  int    `yaml:"nav_timeout_secs" mapstructure:"nav_timeout_secs"`
	SettleDelaySecs int    `yaml:"settle_delay_secs" mapstructure:"settle_delay_secs"`
}

// NavTimeout returns the navigation timeout as a duration.
func (c BrowserConfig) NavTimeout() time.Duration {
	return time.Duration(c.NavTimeoutSecs) * time.Second
}

// SettleDelay returns the client-render settle delay as a duration.
func (c BrowserConfig) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelaySecs) * time.Second
}

// GeocodeConfig configures the Maps coordinate lookup.
type GeocodeConfig struct {
	SearchURL   string `yaml:"search_url" mapstructure:"search_url"`
	MaxWaitSecs int    `yaml:"max_wait_secs" mapstructure:"max_wait_secs"`
}

// MaxWait returns the redirect wait bound as a duration.
func (c GeocodeConfig) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitSecs) * time.Second
}

// OutputConfig configures the XLSX sink.
type OutputConfig struct {
	Path      string `yaml:"path" mapstructure:"path"`
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
	// CheckpointEveryPages saves the workbook every N completed pages.
	// 0 keeps the legacy behavior of a single save at end of range, at the
	// cost of losing everything on a mid-run fatal failure.
	CheckpointEveryPages int `yaml:"checkpoint_every_pages" mapstructure:"checkpoint_every_pages"`
}

// PipelineConfig configures the page range and walk behavior.
type PipelineConfig struct {
	StartPage int `yaml:"start_page" mapstructure:"start_page"`
	EndPage   int `yaml:"end_page" mapstructure:"end_page"`
	// PrefetchPages fetches index pages concurrently before detail scraping
	// begins. Detail scrapes stay strictly sequential and ordered either way.
	PrefetchPages bool `yaml:"prefetch_pages" mapstructure:"prefetch_pages"`
}

// StoreConfig configures the run journal.
type StoreConfig struct {
	// Driver is "sqlite" or "none".
	Driver string `yaml:"driver" mapstructure:"driver"`
	Path   string `yaml:"path" mapstructure:"path"`
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
	v.SetEnvPrefix("HOUSEKG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("site.base_url", "https://www.house.kg")
	v.SetDefault("site.listings_url", "https://www.house.kg/snyat?region=all&sort_by=upped_at%20desc")
	v.SetDefault("site.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/97.0.4692.71 Safari/537.36")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.nav_timeout_secs", 60)
	v.SetDefault("browser.settle_delay_secs", 3)
	v.SetDefault("geocode.search_url", "https://www.google.com/maps/search/")
	v.SetDefault("geocode.max_wait_secs", 5)
	v.SetDefault("output.path", "output/HouseKG_Properties.xlsx")
	v.SetDefault("output.sheet_name", "Properties")
	v.SetDefault("output.checkpoint_every_pages", 1)
	v.SetDefault("pipeline.start_page", 1)
	v.SetDefault("pipeline.end_page", 100)
	v.SetDefault("pipeline.prefetch_pages", false)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "output/housekg.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

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
