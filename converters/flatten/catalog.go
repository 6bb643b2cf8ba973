package flatten

import "github.com/darianmavgo/mktable/converters/common"

// Catalog is the unified schema of a batch: every column key seen, in
// first-seen order, and the longest list observed per list key. It is built
// once by Discover or Normalize and only read afterwards.
type Catalog struct {
	Fields     []string
	MaxListLen ListLengths
	index      map[string]int
}

func newCatalog() *Catalog {
	return &Catalog{
		MaxListLen: make(ListLengths),
		index:      make(map[string]int),
	}
}

func (c *Catalog) add(rec *Record) {
	for _, k := range rec.Keys {
		if _, ok := c.index[k]; !ok {
			c.index[k] = len(c.Fields)
			c.Fields = append(c.Fields, k)
		}
	}
}

// Has reports whether key is part of the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Discover flattens every record once and returns the union of their keys.
// The whole batch must be scanned before any row is completed, since later
// records may add fields or longer lists.
func Discover(records []any) *Catalog {
	c, _ := discover(records)
	return c
}

func discover(records []any) (*Catalog, []*Record) {
	c := newCatalog()
	flat := make([]*Record, len(records))
	for i, r := range records {
		flat[i] = Flatten(r, "", c.MaxListLen)
		c.add(flat[i])
	}
	return c, flat
}

// Complete returns rec as a row aligned to c.Fields, with every field missing
// from rec bound to nil. Keys of rec outside the catalog are dropped.
func Complete(rec *Record, c *Catalog) []any {
	row := make([]any, len(c.Fields))
	for i, f := range c.Fields {
		if v, ok := rec.Values[f]; ok {
			row[i] = v
		}
	}
	return row
}

// Normalize runs discovery over records and completes each of them, returning
// the catalog and one row per record, every row len(catalog.Fields) wide.
func Normalize(records []any) (*Catalog, [][]any) {
	c, flat := discover(records)
	rows := make([][]any, len(flat))
	for i, rec := range flat {
		rows[i] = Complete(rec, c)
	}
	return c, rows
}

// ToTable normalizes records into a table whose columns are the catalog fields.
func ToTable(records []any) *common.Table {
	c, rows := Normalize(records)
	return &common.Table{Columns: c.Fields, Rows: rows}
}
