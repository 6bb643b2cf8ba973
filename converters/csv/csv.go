// Package csv registers the "csv" driver: a header row names the columns and
// every following line is one record.
package csv

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
)

func init() {
	converters.Register("csv", &csvDriver{})
	converters.Register("tsv", &csvDriver{comma: '\t'})
}

// csvDriver reads delimited text. The zero value is comma-separated.
type csvDriver struct {
	comma rune
}

func (d *csvDriver) Label() string {
	if d.comma == '\t' {
		return "TSV"
	}
	return "CSV"
}

func (d *csvDriver) Extensions() []string {
	if d.comma == '\t' {
		return []string{".tsv", ".tab"}
	}
	return []string{".csv"}
}

// Parse implements common.Driver.
func (d *csvDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.DecodeText(data)
	if err != nil {
		return nil, err
	}
	cfg := common.ConversionConfig{}
	if config != nil {
		cfg = *config
	}
	if cfg.Delimiter == 0 && !cfg.DetectDelimiter {
		cfg.Delimiter = d.comma
	}
	header, rows, err := ReadRecords(ctx, bytes.NewReader(text), &cfg)
	if err != nil {
		return nil, err
	}
	return common.TextTable(header, rows)
}

// ReadRecords reads a header row and every data row from r. The delimiter comes
// from config.Delimiter; when that is unset it is detected from the header line
// if config.DetectDelimiter is set, and is a comma otherwise.
func ReadRecords(ctx context.Context, r io.Reader, config *common.ConversionConfig) ([]string, [][]string, error) {
	br := bufio.NewReaderSize(r, 65536)

	delim := rune(0)
	if config != nil {
		delim = config.Delimiter
	}
	if delim == 0 && config != nil && config.DetectDelimiter {
		peekBytes, _ := br.Peek(2048)
		sample := string(peekBytes)
		if idx := strings.IndexAny(sample, "\r\n"); idx != -1 {
			sample = sample[:idx]
		}
		delim = common.DetectDelimiter(sample)
	}
	if delim == 0 {
		delim = ','
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1 // row width is checked against the header later

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, common.NewError(common.KindMalformedInput, "CSV file is empty")
		}
		return nil, nil, common.NewError(common.KindMalformedInput, "failed to read CSV headers: %v", err)
	}

	var rows [][]string
	for {
		if len(rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, common.WrapError(common.KindInternal, err)
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, common.NewError(common.KindMalformedInput, "failed to read CSV row: %v", err)
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
