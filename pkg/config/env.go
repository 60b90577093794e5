package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STRATA_"

type lookupFunc func(string) (string, bool)

type envBinder struct {
	lookup lookupFunc
	err    error
}

func (b *envBinder) fail(key string, err error) {
	if b.err == nil {
		b.err = fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
	}
}

func (b *envBinder) str(key string, dst *string) {
	if v, ok := b.lookup(EnvPrefix + key); ok {
		*dst = v
	}
}

func (b *envBinder) boolean(key string, dst *bool) {
	if v, ok := b.lookup(EnvPrefix + key); ok {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			b.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func (b *envBinder) integer(key string, dst *int) {
	if v, ok := b.lookup(EnvPrefix + key); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			b.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func (b *envBinder) float(key string, dst *float64) {
	if v, ok := b.lookup(EnvPrefix + key); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			b.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func (b *envBinder) duration(key string, dst *time.Duration) {
	if v, ok := b.lookup(EnvPrefix + key); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			b.fail(key, err)
			return
		}
		*dst = parsed
	}
}

func applyEnv(c *Config, lookup lookupFunc) error {
	b := &envBinder{lookup: lookup}
	b.float("MISORIENTATION", &c.Misorientation)
	b.boolean("COVER_MAP", &c.CoverMap)

	b.boolean("AUTHORITY_ENABLED", &c.Authority.Enabled)
	b.str("AUTHORITY_SOURCE", &c.Authority.Source)
	b.str("AUTHORITY_PATH", &c.Authority.Path)
	b.str("AUTHORITY_URL", &c.Authority.URL)
	b.str("AUTHORITY_DSN", &c.Authority.DSN)
	b.str("AUTHORITY_TABLE", &c.Authority.Table)
	b.duration("AUTHORITY_TIMEOUT", &c.Authority.Timeout)

	b.str("UNIT_MODE", &c.Ordering.UnitMode)
	b.integer("MAX_ORDERS", &c.Ordering.MaxOrders)
	b.integer("GROUP_ENUMERATION_LIMIT", &c.Ordering.GroupEnumerationLimit)
	b.boolean("EQUAL_AGE_FALLBACK", &c.Ordering.EqualAgeFallback)
	b.integer("CYCLE_LIMIT", &c.Ordering.CycleLimit)

	b.float("FAULT_MIN_LENGTH", &c.Faults.MinLength)
	b.integer("FAULT_ORIENTATION_CLUSTERS", &c.Faults.OrientationClusters)
	b.integer("FAULT_LENGTH_CLUSTERS", &c.Faults.LengthClusters)
	b.integer("FAULT_WORKERS", &c.Faults.Workers)

	b.str("OUTPUT_DIR", &c.Output.Dir)
	b.boolean("OUTPUT_COMPRESS", &c.Output.Compress)
	b.str("S3_BUCKET", &c.Output.S3.Bucket)
	b.str("S3_PREFIX", &c.Output.S3.Prefix)
	b.str("S3_REGION", &c.Output.S3.Region)
	b.str("S3_ENDPOINT", &c.Output.S3.Endpoint)

	b.str("LOG_LEVEL", &c.Logging.Level)
	b.str("LOG_FORMAT", &c.Logging.Format)
	b.str("METRICS_FILE", &c.MetricsFile)
	return b.err
}
