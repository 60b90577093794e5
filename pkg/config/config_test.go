package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30.0, cfg.Misorientation)
	assert.Equal(t, "one", cfg.Ordering.UnitMode)
	assert.Equal(t, 100, cfg.Ordering.MaxOrders)
	assert.Equal(t, 10, cfg.Ordering.GroupEnumerationLimit)
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	cfg := Config{Ordering: OrderingConfig{MaxOrders: 5}}
	cfg.ApplyDefaults()

	assert.Equal(t, 5, cfg.Ordering.MaxOrders)
	assert.Equal(t, "one", cfg.Ordering.UnitMode)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, 15*time.Second, cfg.Authority.Timeout)
	assert.Equal(t, "intrusive", cfg.Keywords.Intrusive)
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unit mode", func(c *Config) { c.Ordering.UnitMode = "some" }, "ordering.unit_mode"},
		{"max orders", func(c *Config) { c.Ordering.MaxOrders = 101 }, "ordering.max_orders"},
		{"misorientation", func(c *Config) { c.Misorientation = 181 }, "misorientation"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative min length", func(c *Config) { c.Faults.MinLength = -1 }, "faults.min_length"},
		{"authority source", func(c *Config) {
			c.Authority.Enabled = true
			c.Authority.Source = "ftp"
		}, "authority.source"},
		{"authority path", func(c *Config) {
			c.Authority.Enabled = true
			c.Authority.Source = SourceFile
		}, "authority.path"},
		{"authority dsn", func(c *Config) {
			c.Authority.Enabled = true
			c.Authority.Source = SourcePostgres
		}, "authority.dsn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateSkipsDisabledAuthority(t *testing.T) {
	cfg := Default()
	cfg.Authority.Source = SourcePostgres
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "strata.yaml", `
misorientation: 20
cover_map: true
ordering:
  unit_mode: all
  max_orders: 12
faults:
  orientation_clusters: 3
output:
  dir: out
  compress: true
authority:
  enabled: true
  source: file
  path: ref.csv
`)
	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 20.0, cfg.Misorientation)
	assert.True(t, cfg.CoverMap)
	assert.Equal(t, "all", cfg.Ordering.UnitMode)
	assert.Equal(t, 12, cfg.Ordering.MaxOrders)
	assert.Equal(t, 3, cfg.Faults.OrientationClusters)
	assert.Equal(t, 2, cfg.Faults.LengthClusters)
	assert.True(t, cfg.Output.Compress)
	assert.Equal(t, "ref.csv", cfg.Authority.Path)
}

func TestLoadEnvOverridesYAML(t *testing.T) {
	path := writeFile(t, "strata.yaml", "ordering:\n  max_orders: 12\n")
	t.Setenv("STRATA_MAX_ORDERS", "7")
	t.Setenv("STRATA_AUTHORITY_TIMEOUT", "2s")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Ordering.MaxOrders)
	assert.Equal(t, 2*time.Second, cfg.Authority.Timeout)
}

func TestLoadDotEnv(t *testing.T) {
	env := writeFile(t, ".env", "STRATA_FAULT_WORKERS=9\n")
	t.Cleanup(func() { os.Unsetenv("STRATA_FAULT_WORKERS") })

	cfg, err := Load("", env)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Faults.Workers)
}

func TestLoadMissingEnvFileIgnored(t *testing.T) {
	cfg, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	assert.Equal(t, "output", cfg.Output.Dir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	bad := writeFile(t, "bad.yaml", "ordering: [1, 2\n")
	_, err = Load(bad, "")
	assert.Error(t, err)

	t.Setenv("STRATA_MAX_ORDERS", "many")
	_, err = Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRATA_MAX_ORDERS")
}

func TestApplyEnvLookup(t *testing.T) {
	env := map[string]string{
		"STRATA_COVER_MAP":  "true",
		"STRATA_S3_BUCKET":  "maps",
		"STRATA_UNIT_MODE":  "all",
		"STRATA_LOG_FORMAT": "console",
	}
	cfg := Default()
	err := applyEnv(&cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	assert.True(t, cfg.CoverMap)
	assert.Equal(t, "maps", cfg.Output.S3.Bucket)
	assert.Equal(t, "all", cfg.Ordering.UnitMode)
	assert.Equal(t, "console", cfg.Logging.Format)
}
