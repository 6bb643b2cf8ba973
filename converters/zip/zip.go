// Package zip registers the "zip" driver: the member listing of a ZIP archive,
// one row per entry.
package zip

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"

	"github.com/darianmavgo/mktable/converters"
	"github.com/darianmavgo/mktable/converters/common"
)

// Columns of an archive listing.
var Columns = []string{"name", "dir", "ext", "size", "compressed_size", "modified", "is_dir", "crc32"}

func init() {
	converters.Register("zip", &zipDriver{})
}

type zipDriver struct{}

func (d *zipDriver) Label() string {
	return "ZIP"
}

func (d *zipDriver) Extensions() []string {
	return []string{".zip"}
}

// Parse implements common.Driver.
func (d *zipDriver) Parse(ctx context.Context, data []byte, config *common.ConversionConfig) (*common.Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, common.NewError(common.KindMalformedInput, "failed to open zip archive: %v", err)
	}

	tbl := &common.Table{Columns: Columns}
	for i, f := range zr.File {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, common.WrapError(common.KindInternal, err)
			}
		}
		tbl.Rows = append(tbl.Rows, entryRow(f))
	}
	return tbl, nil
}

func entryRow(f *zip.File) []any {
	name := f.Name
	isDir := strings.HasSuffix(name, "/")
	trimmed := strings.TrimSuffix(name, "/")

	dir, base := "", trimmed
	if idx := strings.LastIndexByte(trimmed, '/'); idx >= 0 {
		dir, base = trimmed[:idx], trimmed[idx+1:]
	}
	ext := ""
	if !isDir {
		if idx := strings.LastIndexByte(base, '.'); idx > 0 {
			ext = strings.ToLower(base[idx:])
		}
	}

	return []any{
		name,
		dir,
		ext,
		int64(f.UncompressedSize64),
		int64(f.CompressedSize64),
		f.Modified.UTC().Format("2006-01-02 15:04:05"),
		isDir,
		int64(f.CRC32),
	}
}
