// Package jsonl registers the "jsonl" driver: one JSON object per line. Lines
// that do not decode to an object are skipped and reported, not fatal.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
	"github.com/darianmavgo/mktable/converters/flatten"
)

func init() {
	converters.Register("jsonl", &jsonlDriver{})
}

type jsonlDriver struct{}

func (d *jsonlDriver) Label() string {
	return "JSONL"
}

func (d *jsonlDriver) Extensions() []string {
	return []string{".jsonl", ".ndjson"}
}

// Parse implements common.Driver.
func (d *jsonlDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.TranscodeText(data)
	if err != nil {
		return nil, err
	}
	records, skipped, err := ReadLines(ctx, text)
	if err != nil {
		return nil, err
	}
	if config != nil && config.Verbose {
		log.Printf("[MKTABLE] Decoded %d JSONL records, %d lines skipped", len(records), len(skipped))
	}
	tbl := flatten.ToTable(records)
	tbl.Skipped = skipped
	return tbl, nil
}

// ReadLines decodes every non-blank line of data on its own. Lines that are not
// valid UTF-8, fail to parse or are not objects come back as skipped; it is an error only when the
// input is blank or no line yields an object.
func ReadLines(ctx context.Context, data []byte) ([]any, []*common.LineError, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil, common.NewError(common.KindMalformedInput, "JSONL file is empty")
	}

	var (
		records []any
		skipped []*common.LineError
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, common.WrapError(common.KindInternal, err)
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if off := common.InvalidUTF8Offset([]byte(line)); off >= 0 {
			skipped = append(skipped, &common.LineError{Line: lineNo, Raw: line, Err: fmt.Errorf("invalid UTF-8 at byte %d", off)})
			continue
		}
		doc, err := flatten.ParseDocument([]byte(line))
		if err != nil {
			skipped = append(skipped, &common.LineError{Line: lineNo, Raw: line, Err: fmt.Errorf("invalid JSON: %w", err)})
			continue
		}
		if _, ok := doc.(*flatten.Object); !ok {
			skipped = append(skipped, &common.LineError{Line: lineNo, Raw: line, Err: fmt.Errorf("expected a JSON object, got %s", describe(doc))})
			continue
		}
		records = append(records, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, common.NewError(common.KindMalformedInput, "failed to read JSONL: %v", err)
	}

	if len(records) == 0 {
		return nil, skipped, common.NewError(common.KindUnsupportedShape, "No valid JSON objects found in JSONL file")
	}
	return records, skipped, nil
}

func describe(v any) string {
	switch v.(type) {
	case []any:
		return "an array"
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}
