// Package txt registers the "txt" driver: every line of a plain text file
// becomes one row of a single "content" column.
package txt

import (
	"bufio"
	"bytes"
	"context"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
)

// ContentColumn is the only column of a text table.
const ContentColumn = "content"

func init() {
	converters.Register("txt", &txtDriver{})
}

type txtDriver struct{}

func (d *txtDriver) Label() string {
	return "TXT"
}

func (d *txtDriver) Extensions() []string {
	return []string{".txt", ".log"}
}

// Parse implements common.Driver.
func (d *txtDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.DecodeText(data)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	tbl := &common.Table{Columns: []string{ContentColumn}}
	for scanner.Scan() {
		if len(tbl.Rows)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, common.WrapError(common.KindInternal, err)
			}
		}
		tbl.Rows = append(tbl.Rows, []any{scanner.Text()})
	}
	if err := scanner.Err(); err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to read txt line: %v", err)
	}
	return tbl, nil
}
