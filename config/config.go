package config

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// DefaultDatabasePath is used when neither the config nor the command line names a database.
const DefaultDatabasePath = "db/database.db"

// Config represents the application configuration.
type Config struct {
	DatabasePath    string `hcl:"database_path,optional"`
	BatchSize       int    `hcl:"batch_size,optional"`
	SampleSize      int    `hcl:"sample_size,optional"`
	LogErrors       bool   `hcl:"log_errors,optional"`
	Verbose         bool   `hcl:"verbose,optional"`
	Delimiter       string `hcl:"delimiter,optional"`
	DetectDelimiter bool   `hcl:"detect_delimiter,optional"`
	Sheet           string `hcl:"sheet,optional"`
	TableID         string `hcl:"table_id,optional"`
	ScanTimeout     string `hcl:"scan_timeout,optional"`
	WatchDir        string `hcl:"watch_dir,optional"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DatabasePath: DefaultDatabasePath,
		BatchSize:    converters.DefaultBatchSize,
		SampleSize:   converters.DefaultSampleSize,
		ScanTimeout:  "30s",
	}
}

// Load reads the configuration from the given HCL file. Attributes missing
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %s", diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %s", diags.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that HCL typing alone cannot.
func (c *Config) Validate() error {
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must not be negative, got %d", c.BatchSize)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must not be negative, got %d", c.SampleSize)
	}
	if c.Delimiter != "" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	if _, err := c.ScanTimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// ScanTimeoutDuration parses scan_timeout. Empty means no timeout.
func (c *Config) ScanTimeoutDuration() (time.Duration, error) {
	if c.ScanTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.ScanTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid scan_timeout %q: %w", c.ScanTimeout, err)
	}
	return d, nil
}

// ImportOptions returns the load options described by the config.
func (c *Config) ImportOptions() *converters.ImportOptions {
	return &converters.ImportOptions{
		LogErrors:  c.LogErrors,
		Verbose:    c.Verbose,
		BatchSize:  c.BatchSize,
		SampleSize: c.SampleSize,
	}
}

// ConversionConfig returns the parser options described by the config.
func (c *Config) ConversionConfig() *common.ConversionConfig {
	cc := &common.ConversionConfig{
		DetectDelimiter: c.DetectDelimiter,
		Sheet:           c.Sheet,
		TableID:         c.TableID,
		Verbose:         c.Verbose,
	}
	if r, _ := utf8.DecodeRuneInString(c.Delimiter); r != utf8.RuneError {
		cc.Delimiter = r
	}
	return cc
}

// Export writes the configuration to the specified file in HCL format.
func Export(path string, cfg *Config) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("database_path", cty.StringVal(cfg.DatabasePath))
	root.SetAttributeValue("batch_size", cty.NumberIntVal(int64(cfg.BatchSize)))
	root.SetAttributeValue("sample_size", cty.NumberIntVal(int64(cfg.SampleSize)))
	root.SetAttributeValue("log_errors", cty.BoolVal(cfg.LogErrors))
	root.SetAttributeValue("verbose", cty.BoolVal(cfg.Verbose))
	root.AppendNewline()

	// Parser options
	root.SetAttributeValue("delimiter", cty.StringVal(cfg.Delimiter))
	root.SetAttributeValue("detect_delimiter", cty.BoolVal(cfg.DetectDelimiter))
	root.SetAttributeValue("sheet", cty.StringVal(cfg.Sheet))
	root.SetAttributeValue("table_id", cty.StringVal(cfg.TableID))
	root.SetAttributeValue("scan_timeout", cty.StringVal(cfg.ScanTimeout))
	root.SetAttributeValue("watch_dir", cty.StringVal(cfg.WatchDir))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(f.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write config to file: %w", err)
	}

	return nil
}
