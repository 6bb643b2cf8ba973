package converters

import (
	"context"
	"log"
	"strings"

	"github.com/darianmavgo/mktable/converters/common"
)

// DefaultBatchSize is the number of rows bound into one INSERT statement.
const DefaultBatchSize = 1000

// ImportOptions defines configuration for the import process.
type ImportOptions struct {
	LogErrors  bool // If true, skipped lines are also written to the _mktable_errors table.
	Verbose    bool // If true, enables detailed logging.
	BatchSize  int  // Rows per INSERT statement, DefaultBatchSize when zero.
	SampleSize int  // Preview rows in the summary, DefaultSampleSize when zero.
}

func (o *ImportOptions) withDefaults() *ImportOptions {
	out := ImportOptions{}
	if o != nil {
		out = *o
	}
	if out.BatchSize <= 0 {
		out.BatchSize = DefaultBatchSize
	}
	if out.SampleSize <= 0 {
		out.SampleSize = DefaultSampleSize
	}
	return &out
}

// Convert loads data in the named format into table tableName of the SQLite
// database at dbPath, replacing any table of the same name, and returns a
// summary of the result. Every failure comes back as a *common.ConversionError
// labelled with the format family.
func Convert(ctx context.Context, dbPath, format string, data []byte, tableName string, cfg *common.ConversionConfig, opts *ImportOptions) (*TableSummary, error) {
	driver, err := Lookup(format)
	if err != nil {
		return nil, common.WithFormat(strings.ToUpper(format), err)
	}
	summary, err := convert(ctx, dbPath, driver, data, tableName, cfg, opts.withDefaults())
	if err != nil {
		return nil, common.WithFormat(driver.Label(), err)
	}
	return summary, nil
}

// ConvertCSV loads comma-separated data. The csv driver must be registered,
// usually by importing converters/all.
func ConvertCSV(ctx context.Context, dbPath string, data []byte, tableName string) (*TableSummary, error) {
	return Convert(ctx, dbPath, "csv", data, tableName, nil, nil)
}

// ConvertJSON loads a JSON array of objects.
func ConvertJSON(ctx context.Context, dbPath string, data []byte, tableName string) (*TableSummary, error) {
	return Convert(ctx, dbPath, "json", data, tableName, nil, nil)
}

// ConvertJSONL loads newline-delimited JSON objects, skipping bad lines.
func ConvertJSONL(ctx context.Context, dbPath string, data []byte, tableName string) (*TableSummary, error) {
	return Convert(ctx, dbPath, "jsonl", data, tableName, nil, nil)
}

func convert(ctx context.Context, dbPath string, driver common.Driver, data []byte, tableName string, cfg *common.ConversionConfig, opts *ImportOptions) (*TableSummary, error) {
	table := common.SanitizeTableName(tableName)
	if opts.Verbose && table != tableName {
		log.Printf("[MKTABLE] Table name %q sanitized to %q", tableName, table)
	}

	if cfg == nil {
		cfg = &common.ConversionConfig{}
	}
	if opts.Verbose {
		log.Printf("[MKTABLE] Parsing %d bytes as %s...", len(data), driver.Label())
	}
	parsed, err := driver.Parse(ctx, data, cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(common.KindInternal, err)
	}

	for _, le := range parsed.Skipped {
		log.Printf("[MKTABLE] Skipping %s line %d: %v", driver.Label(), le.Line, le.Err)
	}
	if n := len(parsed.Skipped); n > 0 {
		log.Printf("[MKTABLE] Skipped %d invalid %s lines, loaded %d records", n, driver.Label(), len(parsed.Rows))
	}

	if parsed.Width() == 0 {
		return nil, common.NewError(common.KindUnsupportedShape, "no columns found in input")
	}

	columns := common.CleanColumnNames(parsed.Columns)
	common.SQLValues(parsed.Rows)
	load := &Load{
		Table:   table,
		Columns: columns,
		Types:   common.InferColumnTypes(parsed.Rows, len(columns)),
		Rows:    parsed.Rows,
		Skipped: parsed.Skipped,
	}

	store, err := OpenStore(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.ReplaceTable(ctx, load, opts)
}
