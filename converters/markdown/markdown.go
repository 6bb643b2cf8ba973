// Package markdown registers the "markdown" driver: the first pipe table in the
// document, header line followed by a separator line.
package markdown

import (
	"bufio"
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
)

func init() {
	converters.Register("markdown", &markdownDriver{})
}

var separatorRegex = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(\|\s*:?-{3,}:?\s*)*\|?$`)

type markdownDriver struct{}

func (d *markdownDriver) Label() string {
	return "Markdown"
}

func (d *markdownDriver) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse implements common.Driver.
func (d *markdownDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	text, err := common.DecodeText(data)
	if err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to read Markdown: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, common.WrapError(common.KindInternal, err)
	}

	for i := 0; i+1 < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if !strings.Contains(line, "|") || !separatorRegex.MatchString(strings.TrimSpace(lines[i+1])) {
			continue
		}
		header := splitRow(line)
		var rows [][]string
		for _, l := range lines[i+2:] {
			if !strings.Contains(l, "|") {
				break
			}
			rows = append(rows, splitRow(l))
		}
		return common.TextTable(header, rows)
	}
	return nil, common.NewError(common.KindUnsupportedShape, "no pipe table found in Markdown")
}

// splitRow splits a pipe row into trimmed cells, dropping the outer pipes.
func splitRow(l string) []string {
	l = strings.TrimSpace(l)
	l = strings.TrimPrefix(l, "|")
	l = strings.TrimSuffix(l, "|")
	parts := strings.Split(l, "|")
	for k, v := range parts {
		parts[k] = strings.TrimSpace(v)
	}
	return parts
}
