package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestExportAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.hcl")

	cfg := DefaultConfig()
	cfg.BatchSize = 500
	cfg.LogErrors = true
	cfg.Delimiter = ";"
	cfg.DatabasePath = "out/uploads.db"
	cfg.WatchDir = "incoming"
	cfg.DetectDelimiter = true
	if err := Export(configPath, cfg); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
	if loaded.ConversionConfig().Delimiter != ';' {
		t.Errorf("delimiter rune = %q", loaded.ConversionConfig().Delimiter)
	}
	if !loaded.ConversionConfig().DetectDelimiter {
		t.Error("detect_delimiter lost in round trip")
	}
	opts := loaded.ImportOptions()
	if !opts.LogErrors || opts.BatchSize != 500 {
		t.Errorf("ImportOptions = %+v", opts)
	}
}

func TestLoadDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.hcl")
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatalf("failed to write empty config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", loaded)
	}
	if d, _ := loaded.ScanTimeoutDuration(); d != 30*time.Second {
		t.Errorf("scan timeout = %v", d)
	}
	if cc := loaded.ConversionConfig(); cc.Delimiter != 0 || cc.DetectDelimiter {
		t.Errorf("default parser options = %+v, want driver default delimiter", cc)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Syntax", `batch_size = `},
		{"WrongType", `batch_size = "many"`},
		{"UnknownAttribute", `colour = "blue"`},
		{"LongDelimiter", `delimiter = ";;"`},
		{"NegativeBatch", `batch_size = -1`},
		{"BadTimeout", `scan_timeout = "soon"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.hcl")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.hcl")); err == nil {
		t.Error("expected error for missing file")
	}
}
