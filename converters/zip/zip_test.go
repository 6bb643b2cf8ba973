package zip

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/darianmavgo/mktable/converters/common"
)

func archive(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if _, err := zw.CreateHeader(&zip.FileHeader{Name: "data/", Modified: modified}); err != nil {
		t.Fatal(err)
	}
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "data/People.CSV", Method: zip.Deflate, Modified: modified})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("name,age\nJohn,25\n")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseListsEntries(t *testing.T) {
	tbl, err := (&zipDriver{}).Parse(context.Background(), archive(t), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(tbl.Rows) != 2 || tbl.Width() != len(Columns) {
		t.Fatalf("table = %#v", tbl)
	}

	dir, file := tbl.Rows[0], tbl.Rows[1]
	if dir[0] != "data/" || dir[6] != true || dir[2] != "" {
		t.Errorf("dir row = %#v", dir)
	}
	if file[1] != "data" || file[2] != ".csv" || file[3] != int64(17) || file[6] != false {
		t.Errorf("file row = %#v", file)
	}
	if file[5] != "2024-05-01 12:00:00" {
		t.Errorf("modified = %v", file[5])
	}
}

func TestParseRejectsNonArchive(t *testing.T) {
	if _, err := (&zipDriver{}).Parse(context.Background(), []byte("not a zip"), nil); !common.IsInputError(err) {
		t.Errorf("error = %v, want input error", err)
	}
}
