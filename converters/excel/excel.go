// Package excel registers the "excel" driver: one worksheet, first row as the
// header, cells read as text and typed per column like CSV.
package excel

import (
	"bytes"
	"context"
	"strings"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"

	"github.com/xuri/excelize/v2"
)

func init() {
	converters.Register("excel", &excelDriver{})
}

type excelDriver struct{}

func (d *excelDriver) Label() string {
	return "Excel"
}

func (d *excelDriver) Extensions() []string {
	return []string{".xlsx", ".xlsm"}
}

// Parse implements common.Driver. The sheet named by config.Sheet is read, or
// the first sheet when unset.
func (d *excelDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to open Excel stream: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, common.NewError(common.KindUnsupportedShape, "no sheets found in Excel file")
	}
	sheet := sheets[0]
	if config != nil && config.Sheet != "" {
		idx, err := f.GetSheetIndex(config.Sheet)
		if err != nil || idx < 0 {
			return nil, common.NewError(common.KindUnsupportedShape, "sheet %q not found (have %s)", config.Sheet, strings.Join(sheets, ", "))
		}
		sheet = config.Sheet
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to get rows iterator for sheet %s: %v", sheet, err)
	}
	defer rows.Close()

	var header []string
	var body [][]string
	for rows.Next() {
		if len(body)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, common.WrapError(common.KindInternal, err)
			}
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, common.NewError(common.KindMalformedInput, "failed to read row for sheet %s: %v", sheet, err)
		}
		if header == nil {
			if isBlank(cols) {
				continue
			}
			header = cols
			continue
		}
		if isBlank(cols) {
			continue
		}
		body = append(body, cols)
	}
	if header == nil {
		return nil, common.NewError(common.KindUnsupportedShape, "sheet %s is empty", sheet)
	}

	// Trailing cells past the header are dropped; excelize sizes rows by their
	// last non-empty cell.
	for i, row := range body {
		if len(row) > len(header) {
			body[i] = row[:len(header)]
		}
	}
	return common.TextTable(header, body)
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
