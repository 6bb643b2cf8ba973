package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/darianmavgo/mktable/config"
	"github.com/darianmavgo/mktable/converters"
	_ "github.com/darianmavgo/mktable/converters/all"
	"github.com/darianmavgo/mktable/source"
	"github.com/darianmavgo/mktable/watch"
)

type cliArgs struct {
	logMode      bool
	verbose      bool
	configPath   string
	format       string
	table        string
	watchDir     string
	exportConfig string
	describe     string
	positional   []string
}

func parseArgs(args []string) (*cliArgs, error) {
	a := &cliArgs{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		needValue := func() (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s needs a value", arg)
			}
			i++
			return args[i], nil
		}
		var err error
		switch arg {
		case "--log":
			a.logMode = true
		case "--verbose":
			a.verbose = true
		case "--config":
			a.configPath, err = needValue()
		case "--format":
			a.format, err = needValue()
		case "--table":
			a.table, err = needValue()
		case "--watch":
			a.watchDir, err = needValue()
		case "--export-config":
			a.exportConfig, err = needValue()
		case "--describe":
			a.describe, err = needValue()
		default:
			a.positional = append(a.positional, arg)
		}
		if err != nil {
			return nil, err
		}
	}
	return a, nil
}

func loadConfig(a *cliArgs) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if a.logMode {
		cfg.LogErrors = true
	}
	if a.verbose {
		cfg.Verbose = true
	}
	if a.watchDir != "" {
		cfg.WatchDir = a.watchDir
	}
	return cfg, nil
}

// FileToTable reads ref (a path or s3:// URI) and loads it into dbPath.
// format and table default to the driver for the file extension and the file name.
func FileToTable(ctx context.Context, ref, dbPath, format, table string, cfg *config.Config) (*converters.TableSummary, error) {
	if format == "" {
		name, err := converters.DriverForPath(source.Name(ref))
		if err != nil {
			return nil, err
		}
		format = name
	}
	if table == "" {
		table = source.Name(ref)
	}

	idle, err := cfg.ScanTimeoutDuration()
	if err != nil {
		return nil, err
	}
	rc, err := source.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := source.ReadAll(ctx, rc, idle)
	if err != nil {
		return nil, err
	}
	return converters.Convert(ctx, dbPath, format, data, table, cfg.ConversionConfig(), cfg.ImportOptions())
}

func describe(ctx context.Context, dbPath, table string, sampleSize int) (*converters.TableSummary, error) {
	store, err := converters.OpenStore(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Describe(ctx, table, sampleSize)
}

func watchDir(ctx context.Context, dir, dbPath string, cfg *config.Config) error {
	accept := func(path string) bool {
		_, err := converters.DriverForPath(path)
		return err == nil
	}
	w := watch.New(dir, accept, func(ctx context.Context, path string) error {
		summary, err := FileToTable(ctx, path, dbPath, "", "", cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Loaded %s into table %s (%d rows)\n", filepath.Base(path), summary.TableName, summary.RowCount)
		return nil
	})
	return w.Run(ctx)
}

func printSummary(summary *converters.TableSummary) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  mktable [--log] [--verbose] [--config file.hcl] [--format f] [--table name] <input> [db]")
	fmt.Println("  mktable --describe <table> [db]                  # Summarize an existing table")
	fmt.Println("  mktable --watch <dir> [db]                       # Load files as they appear")
	fmt.Println("  mktable --export-config <file.hcl>               # Write the default config")
}

func main() {
	a, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		usage()
		os.Exit(1)
	}

	if a.exportConfig != "" {
		if err := config.Export(a.exportConfig, config.DefaultConfig()); err != nil {
			fmt.Printf("Error exporting config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default config to %s\n", a.exportConfig)
		return
	}

	cfg, err := loadConfig(a)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	switch {
	case a.watchDir != "" || (cfg.WatchDir != "" && a.describe == "" && len(a.positional) == 0):
		dbPath := cfg.DatabasePath
		if len(a.positional) == 1 {
			dbPath = a.positional[0]
		}
		if err := watchDir(ctx, cfg.WatchDir, dbPath, cfg); err != nil {
			fmt.Printf("Error watching %s: %v\n", cfg.WatchDir, err)
			os.Exit(1)
		}

	case a.describe != "":
		dbPath := cfg.DatabasePath
		if len(a.positional) >= 1 {
			dbPath = a.positional[0]
		}
		summary, err := describe(ctx, dbPath, a.describe, cfg.SampleSize)
		if err != nil {
			fmt.Printf("Error describing table: %v\n", err)
			os.Exit(1)
		}
		if err := printSummary(summary); err != nil {
			fmt.Printf("Error writing summary: %v\n", err)
			os.Exit(1)
		}

	case len(a.positional) >= 1:
		dbPath := cfg.DatabasePath
		if len(a.positional) >= 2 {
			dbPath = a.positional[1]
		}
		start := time.Now()
		summary, err := FileToTable(ctx, a.positional[0], dbPath, a.format, a.table, cfg)
		if err != nil {
			fmt.Printf("Error converting file: %v\n", err)
			os.Exit(1)
		}
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "Converted %s into %s in %v\n", a.positional[0], dbPath, time.Since(start))
		}
		if err := printSummary(summary); err != nil {
			fmt.Printf("Error writing summary: %v\n", err)
			os.Exit(1)
		}

	default:
		usage()
		os.Exit(1)
	}
}
