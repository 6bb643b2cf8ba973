package excel

import (
	"context"
	"strings"
	"testing"

	"github.com/darianmavgo/mktable/converters/common"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatal(err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatal(err)
		}
		for r, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatal(err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseFirstSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"People": {
			{"Name", "Age", "Score"},
			{"John", 25, 1.5},
			{"Jane", 30, 2},
		},
	})
	tbl, err := (&excelDriver{}).Parse(context.Background(), data, nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := strings.Join(tbl.Columns, ","); got != "Name,Age,Score" {
		t.Errorf("columns = %s", got)
	}
	if len(tbl.Rows) != 2 || tbl.Rows[0][1] != int64(25) || tbl.Rows[1][2] != 2.0 {
		t.Errorf("rows = %#v", tbl.Rows)
	}
}

func TestParseNamedSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Main": {{"a"}, {"1"}},
	})
	if _, err := (&excelDriver{}).Parse(context.Background(), data, &common.ConversionConfig{Sheet: "Missing"}); !common.IsInputError(err) {
		t.Errorf("missing sheet error = %v", err)
	}
	tbl, err := (&excelDriver{}).Parse(context.Background(), data, &common.ConversionConfig{Sheet: "Main"})
	if err != nil || len(tbl.Rows) != 1 {
		t.Errorf("named sheet: %v %#v", err, tbl)
	}
}

func TestParseRejectsNonWorkbook(t *testing.T) {
	if _, err := (&excelDriver{}).Parse(context.Background(), []byte("a,b\n1,2\n"), nil); !common.IsInputError(err) {
		t.Errorf("error = %v, want input error", err)
	}
}
