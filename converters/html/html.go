// Package html registers the "html" driver: one <table> element, its first row
// as the header.
package html

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"

	"golang.org/x/net/html"
)

func init() {
	converters.Register("html", &htmlDriver{})
}

type htmlDriver struct{}

func (d *htmlDriver) Label() string {
	return "HTML"
}

func (d *htmlDriver) Extensions() []string {
	return []string{".html", ".htm"}
}

// Parse implements common.Driver. The table with id config.TableID is read, or
// the first table in the document when unset.
func (d *htmlDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.DecodeText(data)
	if err != nil {
		return nil, err
	}
	root, err := html.Parse(bytes.NewReader(text))
	if err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to parse HTML: %v", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	selector := "table"
	if config != nil && config.TableID != "" {
		selector = "table#" + config.TableID
	}
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, common.NewError(common.KindUnsupportedShape, "no table matching %q found in HTML", selector)
	}

	rows := extractRows(table)
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(common.KindInternal, err)
	}
	if len(rows) == 0 {
		return nil, common.NewError(common.KindUnsupportedShape, "HTML table has no rows")
	}
	return common.TextTable(rows[0], rows[1:])
}

// extractRows returns the cell text of every row that belongs to table itself,
// skipping rows of nested tables.
func extractRows(table *goquery.Selection) [][]string {
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(table) {
			return
		}
		var cells []string
		tr.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cellText(cell))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return rows
}

func cellText(cell *goquery.Selection) string {
	return strings.Join(strings.Fields(cell.Text()), " ")
}
