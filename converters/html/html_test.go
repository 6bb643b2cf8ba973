package html

import (
	"context"
	"strings"
	"testing"

	"github.com/darianmavgo/mktable/converters/common"
)

const page = `<html><body>
<table id="first">
  <thead><tr><th>Name</th><th>Age</th></tr></thead>
  <tbody>
    <tr><td>Alice</td><td>30</td></tr>
    <tr><td>Bob  <b>Jr.</b></td><td>25</td></tr>
    <tr><td>Nested<table><tr><td>x</td></tr></table></td><td></td></tr>
  </tbody>
</table>
<table id="second">
  <tr><th>City</th></tr>
  <tr><td>Paris</td></tr>
</table>
</body></html>`

func TestParseFirstTable(t *testing.T) {
	tbl, err := (&htmlDriver{}).Parse(context.Background(), []byte(page), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := strings.Join(tbl.Columns, ","); got != "Name,Age" {
		t.Errorf("columns = %s", got)
	}
	if len(tbl.Rows) != 3 {
		t.Fatalf("rows = %d, want 3 (nested rows excluded)", len(tbl.Rows))
	}
	if tbl.Rows[1][0] != "Bob Jr." || tbl.Rows[0][1] != int64(30) || tbl.Rows[2][1] != nil {
		t.Errorf("rows = %#v", tbl.Rows)
	}
}

func TestParseTableByID(t *testing.T) {
	tbl, err := (&htmlDriver{}).Parse(context.Background(), []byte(page), &common.ConversionConfig{TableID: "second"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tbl.Columns[0] != "City" || tbl.Rows[0][0] != "Paris" {
		t.Errorf("table = %#v", tbl)
	}
}

func TestParseNoTable(t *testing.T) {
	_, err := (&htmlDriver{}).Parse(context.Background(), []byte("<p>nothing</p>"), nil)
	if !common.IsInputError(err) {
		t.Errorf("error = %v, want input error", err)
	}
}
