package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"godescribe/adapters/datareadiness/coercer"
	"godescribe/adapters/stats/engine"
	"godescribe/domain/describe"
	"godescribe/internal/errors"
)

// Config represents the complete application configuration.
// Values come from an optional YAML file with environment variable overrides.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level" env:"LOG_LEVEL" env-default:"INFO"`
}

// InputConfig describes a file source
type InputConfig struct {
	Path      string `yaml:"path" env:"INPUT_PATH"`
	Format    string `yaml:"format" env:"INPUT_FORMAT" env-default:"auto"`
	Sheet     string `yaml:"sheet" env:"INPUT_SHEET"`
	Delimiter string `yaml:"delimiter" env:"INPUT_DELIMITER" env-default:","`
	// DataPath is a gjson path to the record array inside a JSON document.
	DataPath string `yaml:"data_path" env:"INPUT_DATA_PATH"`
}

// DatabaseConfig describes a SQL source
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"SQL_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"-" env:"DATABASE_URL"` // Secret - not in YAML
	Query  string `yaml:"query" env:"SQL_QUERY"`
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Basename string   `yaml:"basename" env:"OUTPUT_BASENAME" env-default:"stats_output"`
	Dir      string   `yaml:"dir" env:"OUTPUT_DIR" env-default:"."`
	Formats  []string `yaml:"formats" env:"OUTPUT_FORMATS" env-separator:"," env-default:"json"`
}

// AnalysisConfig tunes classification and grouping
type AnalysisConfig struct {
	SampleRows     int    `yaml:"sample_rows" env:"SAMPLE_ROWS" env-default:"100"`
	SampleStrategy string `yaml:"sample_strategy" env:"SAMPLE_STRATEGY" env-default:"prefix"`
	NumberFormat   string `yaml:"number_format" env:"NUMBER_FORMAT" env-default:"strict"`
	GroupBy        string `yaml:"group_by" env:"GROUP_BY" env-default:"by_page=page_id;by_page_ad=page_id,ad_id"`
	Workers        int    `yaml:"workers" env:"WORKERS" env-default:"4"`
	// Layout selects the in-memory table representation: rows or columns.
	Layout string `yaml:"layout" env:"TABLE_LAYOUT" env-default:"rows"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string `yaml:"port" env:"PORT" env-default:"8080"`
	GinMode     string `yaml:"gin_mode" env:"GIN_MODE" env-default:"release"`
	MaxUploadMB int64  `yaml:"max_upload_mb" env:"MAX_UPLOAD_MB" env-default:"64"`
}

// Supported input formats, output formats and SQL drivers
var (
	InputFormats  = []string{"auto", "csv", "xlsx", "json"}
	OutputFormats = []string{"json", "xlsx", "md", "html"}
	SQLDrivers    = []string{"postgres", "mysql", "sqlite3", "sqlserver"}
)

// Load reads .env (if present), then path (if non-empty) with environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ConfigInvalid(fmt.Sprintf("config file %s: %v", path, err)), "failed to load configuration")
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to read %s: %w", path, err))
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to read environment: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate checks every field that has a closed set of values
func (c *Config) Validate() error {
	if !contains(InputFormats, strings.ToLower(c.Input.Format)) {
		return errors.ConfigInvalid(fmt.Sprintf("INPUT_FORMAT %q is not one of %s", c.Input.Format, strings.Join(InputFormats, ", ")))
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		return errors.ConfigInvalid(fmt.Sprintf("INPUT_DELIMITER must be a single character, got %q", c.Input.Delimiter))
	}
	if c.Database.DSN != "" && !contains(SQLDrivers, c.Database.Driver) {
		return errors.ConfigInvalid(fmt.Sprintf("SQL_DRIVER %q is not one of %s", c.Database.Driver, strings.Join(SQLDrivers, ", ")))
	}
	if strings.TrimSpace(c.Output.Basename) == "" {
		return errors.ConfigInvalid("OUTPUT_BASENAME must not be empty")
	}
	for _, f := range c.Output.Formats {
		if !contains(OutputFormats, strings.ToLower(strings.TrimSpace(f))) {
			return errors.ConfigInvalid(fmt.Sprintf("output format %q is not one of %s", f, strings.Join(OutputFormats, ", ")))
		}
	}
	if c.Analysis.SampleRows < 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must not be negative")
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigInvalid("WORKERS must be at least 1")
	}
	if c.Analysis.Layout != "rows" && c.Analysis.Layout != "columns" {
		return errors.ConfigInvalid(fmt.Sprintf("TABLE_LAYOUT %q is not one of rows, columns", c.Analysis.Layout))
	}
	if _, err := engine.ParseSampleStrategy(c.Analysis.SampleStrategy); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if _, err := coercer.ParseNumberFormat(c.Analysis.NumberFormat); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if _, err := describe.ParseKeySets(c.Analysis.GroupBy); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("GROUP_BY: %v", err))
	}
	if c.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// ValidateSource checks that exactly one input source is configured
func (c *Config) ValidateSource() error {
	hasFile := c.Input.Path != ""
	hasDB := c.Database.DSN != ""
	switch {
	case hasFile && hasDB:
		return errors.ConfigInvalid("set either INPUT_PATH or DATABASE_URL, not both")
	case !hasFile && !hasDB:
		return errors.ConfigInvalid("an input is required: set INPUT_PATH or DATABASE_URL")
	case hasDB && strings.TrimSpace(c.Database.Query) == "":
		return errors.ConfigInvalid("SQL_QUERY is required with DATABASE_URL")
	}
	return nil
}

// EngineConfig converts the analysis settings into engine options
func (c *Config) EngineConfig() (engine.Config, error) {
	strategy, err := engine.ParseSampleStrategy(c.Analysis.SampleStrategy)
	if err != nil {
		return engine.Config{}, errors.ConfigInvalid(err.Error())
	}
	format, err := coercer.ParseNumberFormat(c.Analysis.NumberFormat)
	if err != nil {
		return engine.Config{}, errors.ConfigInvalid(err.Error())
	}
	return engine.Config{
		SampleRows:     c.Analysis.SampleRows,
		SampleStrategy: strategy,
		NumberFormat:   format,
	}, nil
}

// KeySets parses GROUP_BY
func (c *Config) KeySets() ([]describe.KeySet, error) {
	sets, err := describe.ParseKeySets(c.Analysis.GroupBy)
	if err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("GROUP_BY: %v", err))
	}
	return sets, nil
}

// Delimiter returns the CSV delimiter rune
func (c *Config) Delimiter() rune {
	r := []rune(c.Input.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
