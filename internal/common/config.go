package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for thirteenf
type Config struct {
	Environment string          `toml:"environment"`
	Logging     LoggingConfig   `toml:"logging"`
	Filing      FilingConfig    `toml:"filing"`
	Portfolio   PortfolioConfig `toml:"portfolio"`
	Report      ReportConfig    `toml:"report"`
	Export      ExportConfig    `toml:"export"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"; empty picks by environment
}

// FilingConfig controls how the 13(f) list text is parsed
type FilingConfig struct {
	NoiseMarkers []string `toml:"noise_markers"` // lines containing any marker are dropped
	Strict       bool     `toml:"strict"`        // fail on records missing name or description
}

// PortfolioConfig names the holdings workbook columns
type PortfolioConfig struct {
	Sheet            string `toml:"sheet"` // empty selects the first sheet
	IdentifierColumn string `toml:"identifier_column"`
	QuantityColumn   string `toml:"quantity_column"`
	ValueColumn      string `toml:"value_column"`
	FIGIColumn       string `toml:"figi_column"`
	PutCallColumn    string `toml:"put_call_column"`
}

// ReportConfig holds the reporting thresholds. Both are exclusive lower bounds.
type ReportConfig struct {
	MinValue  int64 `toml:"min_value"`
	MinShares int64 `toml:"min_shares"`
}

// ExportConfig controls the intermediate workbook dumps
type ExportConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
		},
		Filing: FilingConfig{
			NoiseMarkers: []string{"**", "CUSIP", "ISSUER", "STATUS"},
		},
		Portfolio: PortfolioConfig{
			IdentifierColumn: "CUSIP",
			QuantityColumn:   "Trade Date Quantity",
			ValueColumn:      "Market Value",
			FIGIColumn:       "FIGI",
			PutCallColumn:    "PutOrCall",
		},
		Report: ReportConfig{
			MinValue:  200000,
			MinShares: 10000,
		},
		Export: ExportConfig{
			Dir: ".",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("THIRTEENF_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("THIRTEENF_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("THIRTEENF_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if strict := os.Getenv("THIRTEENF_FILING_STRICT"); strict != "" {
		if b, err := strconv.ParseBool(strict); err == nil {
			config.Filing.Strict = b
		}
	}

	if v := os.Getenv("THIRTEENF_MIN_VALUE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Report.MinValue = n
		}
	}

	if v := os.Getenv("THIRTEENF_MIN_SHARES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Report.MinShares = n
		}
	}

	if dir := os.Getenv("THIRTEENF_EXPORT_DIR"); dir != "" {
		config.Export.Dir = dir
		config.Export.Enabled = true
	}
}

// Validate rejects configurations the pipeline cannot run with
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Portfolio.IdentifierColumn) == "" {
		missing = append(missing, "portfolio.identifier_column")
	}
	if strings.TrimSpace(c.Portfolio.QuantityColumn) == "" {
		missing = append(missing, "portfolio.quantity_column")
	}
	if strings.TrimSpace(c.Portfolio.ValueColumn) == "" {
		missing = append(missing, "portfolio.value_column")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	if c.Report.MinValue < 0 || c.Report.MinShares < 0 {
		return fmt.Errorf("report thresholds must not be negative")
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// LogFormat returns the configured log format, defaulting to json in
// production and console elsewhere.
func (c *Config) LogFormat() string {
	if c.Logging.Format != "" {
		return c.Logging.Format
	}
	if c.IsProduction() {
		return "json"
	}
	return "console"
}
