// Package config loads run settings from YAML, a .env file and STRATA_*
// environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-strata/pkg/stratigraphy"
	"github.com/dd0wney/cluso-strata/pkg/supergroups"
	"github.com/dd0wney/cluso-strata/pkg/validation"
)

// Authority sources.
const (
	SourceFile     = "file"
	SourceURL      = "url"
	SourcePostgres = "postgres"
)

// AuthorityConfig selects the reference table of known relationships.
type AuthorityConfig struct {
	Enabled bool          `yaml:"enabled"`
	Source  string        `yaml:"source"`
	Path    string        `yaml:"path"`
	URL     string        `yaml:"url" validate:"omitempty,url"`
	DSN     string        `yaml:"dsn"`
	Table   string        `yaml:"table"`
	Timeout time.Duration `yaml:"timeout"`
}

// OrderingConfig controls topological order enumeration.
type OrderingConfig struct {
	UnitMode              string `yaml:"unit_mode"`
	MaxOrders             int    `yaml:"max_orders"`
	GroupEnumerationLimit int    `yaml:"group_enumeration_limit"`
	EqualAgeFallback      bool   `yaml:"equal_age_fallback"`
	CycleLimit            int    `yaml:"cycle_limit"`
}

// FaultsConfig controls fault tracking and clustering.
type FaultsConfig struct {
	MinLength           float64 `yaml:"min_length"`
	OrientationClusters int     `yaml:"orientation_clusters"`
	LengthClusters      int     `yaml:"length_clusters"`
	Workers             int     `yaml:"workers"`
}

// S3Config is the optional artifact bucket.
type S3Config struct {
	Bucket   string `yaml:"bucket"`
	Prefix   string `yaml:"prefix"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
}

// OutputConfig says where artifacts go.
type OutputConfig struct {
	Dir      string   `yaml:"dir"`
	Compress bool     `yaml:"compress"`
	S3       S3Config `yaml:"s3"`
}

// LoggingConfig selects the log backend.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// KeywordsConfig names the rock-type keywords for intrusive bodies.
type KeywordsConfig struct {
	Intrusive string `yaml:"intrusive"`
	Sill      string `yaml:"sill"`
}

// Config is the full run configuration.
type Config struct {
	Misorientation float64         `yaml:"misorientation"`
	CoverMap       bool            `yaml:"cover_map"`
	Keywords       KeywordsConfig  `yaml:"keywords"`
	Authority      AuthorityConfig `yaml:"authority"`
	Ordering       OrderingConfig  `yaml:"ordering"`
	Faults         FaultsConfig    `yaml:"faults"`
	Output         OutputConfig    `yaml:"output"`
	Logging        LoggingConfig   `yaml:"logging"`
	MetricsFile    string          `yaml:"metrics_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Misorientation: supergroups.DefaultMisorientation,
		Keywords: KeywordsConfig{
			Intrusive: supergroups.DefaultKeywords.Intrusive,
			Sill:      supergroups.DefaultKeywords.Sill,
		},
		Authority: AuthorityConfig{
			Source:  SourceFile,
			Table:   "strat_relationships",
			Timeout: 15 * time.Second,
		},
		Ordering: OrderingConfig{
			UnitMode:              string(stratigraphy.OneOrder),
			MaxOrders:             stratigraphy.MaxOrders,
			GroupEnumerationLimit: 10,
		},
		Faults: FaultsConfig{
			OrientationClusters: 2,
			LengthClusters:      2,
			Workers:             4,
		},
		Output:  OutputConfig{Dir: "output"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	d := Default()
	c.Misorientation = validation.DefaultOr(c.Misorientation, d.Misorientation)
	c.Keywords.Intrusive = validation.DefaultOr(c.Keywords.Intrusive, d.Keywords.Intrusive)
	c.Keywords.Sill = validation.DefaultOr(c.Keywords.Sill, d.Keywords.Sill)
	c.Authority.Source = validation.DefaultOr(c.Authority.Source, d.Authority.Source)
	c.Authority.Table = validation.DefaultOr(c.Authority.Table, d.Authority.Table)
	c.Authority.Timeout = validation.DefaultOr(c.Authority.Timeout, d.Authority.Timeout)
	c.Ordering.UnitMode = validation.DefaultOr(c.Ordering.UnitMode, d.Ordering.UnitMode)
	c.Ordering.MaxOrders = validation.DefaultOrInt(c.Ordering.MaxOrders, d.Ordering.MaxOrders)
	c.Ordering.GroupEnumerationLimit = validation.DefaultOrInt(c.Ordering.GroupEnumerationLimit, d.Ordering.GroupEnumerationLimit)
	c.Faults.OrientationClusters = validation.DefaultOrInt(c.Faults.OrientationClusters, d.Faults.OrientationClusters)
	c.Faults.LengthClusters = validation.DefaultOrInt(c.Faults.LengthClusters, d.Faults.LengthClusters)
	c.Faults.Workers = validation.DefaultOrInt(c.Faults.Workers, d.Faults.Workers)
	c.Output.Dir = validation.DefaultOr(c.Output.Dir, d.Output.Dir)
	c.Logging.Level = validation.DefaultOr(c.Logging.Level, d.Logging.Level)
	c.Logging.Format = validation.DefaultOr(c.Logging.Format, d.Logging.Format)
}

// Validate checks ranges, enumerations and per-source requirements.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	v := validation.NewConfigValidator("Config")
	v.RangeFloat("misorientation", c.Misorientation, 0, 180).
		OneOf("ordering.unit_mode", c.Ordering.UnitMode, []string{string(stratigraphy.OneOrder), string(stratigraphy.AllOrders)}).
		RangeInt("ordering.max_orders", c.Ordering.MaxOrders, 1, stratigraphy.MaxOrders).
		Positive("ordering.group_enumeration_limit", c.Ordering.GroupEnumerationLimit).
		NonNegative("ordering.cycle_limit", c.Ordering.CycleLimit).
		Positive("faults.orientation_clusters", c.Faults.OrientationClusters).
		Positive("faults.length_clusters", c.Faults.LengthClusters).
		RangeInt("faults.workers", c.Faults.Workers, 1, 256).
		Custom("faults.min_length", func() error {
			if c.Faults.MinLength < 0 {
				return errors.New("must not be negative")
			}
			return nil
		}).
		Required("output.dir", c.Output.Dir).
		OneOf("logging.format", c.Logging.Format, []string{"json", "console", "text"}).
		OneOf("logging.level", c.Logging.Level, []string{"debug", "info", "warn", "warning", "error"})

	v.When(c.Authority.Enabled, func(cv *validation.ConfigValidator) {
		cv.OneOf("authority.source", c.Authority.Source, []string{SourceFile, SourceURL, SourcePostgres})
		cv.When(c.Authority.Source == SourceFile, func(cv *validation.ConfigValidator) {
			cv.Required("authority.path", c.Authority.Path)
		})
		cv.When(c.Authority.Source == SourceURL, func(cv *validation.ConfigValidator) {
			cv.Required("authority.url", c.Authority.URL)
		})
		cv.When(c.Authority.Source == SourcePostgres, func(cv *validation.ConfigValidator) {
			cv.Required("authority.dsn", c.Authority.DSN).Required("authority.table", c.Authority.Table)
		})
	})
	return v.Validate()
}

// Load reads path (optional when empty), then envFile (ignored when
// missing), then applies STRATA_* overrides, defaults and validation.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
