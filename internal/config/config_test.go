package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godescribe/adapters/datareadiness/coercer"
	"godescribe/adapters/stats/engine"
	"godescribe/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Input.Format)
	assert.Equal(t, ',', cfg.Delimiter())
	assert.Equal(t, "stats_output", cfg.Output.Basename)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.Equal(t, 100, cfg.Analysis.SampleRows)
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "rows", cfg.Analysis.Layout)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(64), cfg.Server.MaxUploadMB)

	sets, err := cfg.KeySets()
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "by_page", sets[0].Name)
	assert.Equal(t, []string{"page_id"}, sets[0].Columns)
	assert.Equal(t, "by_page_ad", sets[1].Name)
	assert.Equal(t, []string{"page_id", "ad_id"}, sets[1].Columns)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultConfig(), ec)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("INPUT_PATH", "ads.csv")
	t.Setenv("INPUT_DELIMITER", ";")
	t.Setenv("OUTPUT_FORMATS", "json,xlsx,md")
	t.Setenv("SAMPLE_STRATEGY", "stratified")
	t.Setenv("NUMBER_FORMAT", "lenient")
	t.Setenv("GROUP_BY", "by_campaign=campaign_id")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "ads.csv", cfg.Input.Path)
	assert.Equal(t, ';', cfg.Delimiter())
	assert.Equal(t, []string{"json", "xlsx", "md"}, cfg.Output.Formats)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)
	assert.Equal(t, engine.SampleStratified, ec.SampleStrategy)
	assert.Equal(t, coercer.FormatLenient, ec.NumberFormat)

	require.NoError(t, cfg.ValidateSource())
}

func TestLoadFromYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  path: data.xlsx
  sheet: Ads
output:
  basename: weekly
analysis:
  workers: 2
`), 0o644))
	t.Setenv("WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "data.xlsx", cfg.Input.Path)
	assert.Equal(t, "Ads", cfg.Input.Sheet)
	assert.Equal(t, "weekly", cfg.Output.Basename)
	assert.Equal(t, 8, cfg.Analysis.Workers)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"input format", map[string]string{"INPUT_FORMAT": "parquet"}},
		{"delimiter", map[string]string{"INPUT_DELIMITER": "ab"}},
		{"output format", map[string]string{"OUTPUT_FORMATS": "json,pdf"}},
		{"sample rows", map[string]string{"SAMPLE_ROWS": "-1"}},
		{"workers", map[string]string{"WORKERS": "0"}},
		{"layout", map[string]string{"TABLE_LAYOUT": "diagonal"}},
		{"strategy", map[string]string{"SAMPLE_STRATEGY": "random"}},
		{"number format", map[string]string{"NUMBER_FORMAT": "roman"}},
		{"group by", map[string]string{"GROUP_BY": "a=x;a=y"}},
		{"driver", map[string]string{"DATABASE_URL": "dsn", "SQL_DRIVER": "oracle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestValidateSource(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateSource())

	cfg.Input.Path = "a.csv"
	assert.NoError(t, cfg.ValidateSource())

	cfg.Database.DSN = "postgres://localhost/db"
	assert.Error(t, cfg.ValidateSource())

	cfg.Input.Path = ""
	assert.Error(t, cfg.ValidateSource(), "query is required")

	cfg.Database.Query = "SELECT 1"
	assert.NoError(t, cfg.ValidateSource())
}
