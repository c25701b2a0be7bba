package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jengzang/livestock-atlas-go/internal/render"
)

const envPrefix = "ATLAS"

// Source kinds
const (
	SourceUpstream = "upstream"
	SourceSQLite   = "sqlite"
	SourceFile     = "file"
)

// Cache kinds
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Source SourceConfig `mapstructure:"source"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Render RenderConfig `mapstructure:"render"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	RateLimit       int           `mapstructure:"rate_limit"`
	RateWindow      time.Duration `mapstructure:"rate_window"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// PathConfig upstream endpoint paths, relative to BaseURL
type PathConfig struct {
	AllData          string `mapstructure:"all_data"`
	Summary          string `mapstructure:"summary"`
	TypeDistribution string `mapstructure:"type_distribution"`
	FatteningDairy   string `mapstructure:"fattening_dairy"`
	Dots             string `mapstructure:"dots"`
}

// SourceConfig selects where the dataset comes from
type SourceConfig struct {
	Kind         string        `mapstructure:"kind"`
	BaseURL      string        `mapstructure:"base_url"`
	Paths        PathConfig    `mapstructure:"paths"`
	Timeout      time.Duration `mapstructure:"timeout"`
	DBPath       string        `mapstructure:"db_path"`
	SnapshotPath string        `mapstructure:"snapshot_path"`
}

// CacheConfig dataset cache settings
type CacheConfig struct {
	Kind          string        `mapstructure:"kind"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	Key           string        `mapstructure:"key"`
}

// RenderConfig presentation settings
type RenderConfig struct {
	Locale    string       `mapstructure:"locale"`
	PieRadius float64      `mapstructure:"pie_radius"`
	Trend     render.Trend `mapstructure:"trend"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.rate_limit", 120)
	v.SetDefault("server.rate_window", time.Minute)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("source.kind", SourceUpstream)
	v.SetDefault("source.base_url", "http://localhost:5000")
	v.SetDefault("source.paths.all_data", "/api/animals_sec/all-data")
	v.SetDefault("source.paths.summary", "/api/animals_sec/heads-per-breeder")
	v.SetDefault("source.paths.type_distribution", "/api/animals_sec/animal-types-distribution")
	v.SetDefault("source.paths.fattening_dairy", "/api/animals_sec/fattening-vs-dairy")
	v.SetDefault("source.paths.dots", "/api/dumanimal/dot-density-categorized")
	v.SetDefault("source.timeout", 15*time.Second)
	v.SetDefault("source.db_path", "./data/atlas.db")
	v.SetDefault("source.snapshot_path", "./data/snapshot.json")

	v.SetDefault("cache.kind", CacheMemory)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.key", "atlas:dataset")

	v.SetDefault("render.locale", render.DefaultLocale)
	v.SetDefault("render.pie_radius", 15)
}

// Load reads the configuration. An empty path reads defaults and ATLAS_* variables only.
func Load(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Render.Trend.Series) == 0 {
		cfg.Render.Trend = render.DefaultTrend()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks enumerations and required fields
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Port) == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("server.rate_limit must not be negative"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or console", c.Log.Format))
	}

	switch c.Source.Kind {
	case SourceUpstream:
		if strings.TrimSpace(c.Source.BaseURL) == "" {
			errs = append(errs, errors.New("source.base_url is required for upstream source"))
		}
		if c.Source.Timeout <= 0 {
			errs = append(errs, errors.New("source.timeout must be positive"))
		}
	case SourceSQLite:
		if strings.TrimSpace(c.Source.DBPath) == "" {
			errs = append(errs, errors.New("source.db_path is required for sqlite source"))
		}
	case SourceFile:
		if strings.TrimSpace(c.Source.SnapshotPath) == "" {
			errs = append(errs, errors.New("source.snapshot_path is required for file source"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind %q is not upstream, sqlite or file", c.Source.Kind))
	}

	switch c.Cache.Kind {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(c.Cache.RedisAddr) == "" {
			errs = append(errs, errors.New("cache.redis_addr is required for redis cache"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.kind %q is not none, memory or redis", c.Cache.Kind))
	}
	if c.Cache.Kind != CacheNone && c.Cache.TTL <= 0 {
		errs = append(errs, errors.New("cache.ttl must be positive"))
	}

	if c.Render.PieRadius <= 0 {
		errs = append(errs, errors.New("render.pie_radius must be positive"))
	}

	return errors.Join(errs...)
}
