package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/darianmavgo/mktable/converters/common"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns string
		rows    [][]any
	}{
		{
			name: "Simple Table",
			input: `
| Col1 | Col2 |
|---|---|
| Val1 | Val2 |
| Val3 | Val4 |
`,
			columns: "Col1,Col2",
			rows:    [][]any{{"Val1", "Val2"}, {"Val3", "Val4"}},
		},
		{
			name: "After Prose With Alignment",
			input: `# Users

Some text | with a pipe.

ID | Name
:---|---:
1 | Alice
2 | Bob
not a row
`,
			columns: "ID,Name",
			rows:    [][]any{{int64(1), "Alice"}, {int64(2), "Bob"}},
		},
		{
			name: "Short Row",
			input: `| a | b | c |
| --- | --- | --- |
| 1 | 2 |
`,
			columns: "a,b,c",
			rows:    [][]any{{int64(1), int64(2), nil}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := (&markdownDriver{}).Parse(context.Background(), []byte(tt.input), nil)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := strings.Join(tbl.Columns, ","); got != tt.columns {
				t.Errorf("columns = %s, want %s", got, tt.columns)
			}
			if len(tbl.Rows) != len(tt.rows) {
				t.Fatalf("rows = %#v", tbl.Rows)
			}
			for i := range tt.rows {
				for j := range tt.rows[i] {
					if tbl.Rows[i][j] != tt.rows[i][j] {
						t.Errorf("row %d col %d = %#v, want %#v", i, j, tbl.Rows[i][j], tt.rows[i][j])
					}
				}
			}
		})
	}
}

func TestParseNoTable(t *testing.T) {
	_, err := (&markdownDriver{}).Parse(context.Background(), []byte("# Title\n\njust text\n"), nil)
	if !common.IsInputError(err) {
		t.Errorf("error = %v, want input error", err)
	}
}
