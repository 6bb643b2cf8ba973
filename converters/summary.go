package converters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/darianmavgo/mktable/converters/common"
)

// DefaultSampleSize is the number of preview rows in a TableSummary.
const DefaultSampleSize = 5

// ColumnInfo is one column of a loaded table as the store reports it.
type ColumnInfo struct {
	Name string
	Type string
}

// Schema lists columns in physical order. It encodes to JSON as an object
// whose keys keep that order.
type Schema []ColumnInfo

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, c := range s {
		names[i] = c.Name
	}
	return names
}

// TypeOf returns the declared type of column name.
func (s Schema) TypeOf(name string) (string, bool) {
	for _, c := range s {
		if c.Name == name {
			return c.Type, true
		}
	}
	return "", false
}

// MarshalJSON encodes the schema as a {column: type} object in column order.
func (s Schema) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(s))
	values := make([]any, len(s))
	for i, c := range s {
		keys[i], values[i] = c.Name, c.Type
	}
	return marshalOrdered(keys, values)
}

// SampleRow is one preview row, keyed by column name in physical order.
type SampleRow struct {
	Columns []string
	Values  []any
}

// Get returns the value of column name, or nil when absent.
func (r SampleRow) Get(name string) any {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i]
		}
	}
	return nil
}

// Map returns the row as an unordered map.
func (r SampleRow) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// MarshalJSON encodes the row as a {column: value} object in column order.
func (r SampleRow) MarshalJSON() ([]byte, error) {
	return marshalOrdered(r.Columns, r.Values)
}

// TableSummary describes a table right after it was loaded.
type TableSummary struct {
	TableName    string              `json:"table_name"`
	Schema       Schema              `json:"schema"`
	RowCount     int64               `json:"row_count"`
	SampleData   []SampleRow         `json:"sample_data"`
	SkippedLines int                 `json:"skipped_lines,omitempty"`
	Skipped      []*common.LineError `json:"-"`
	RunID        string              `json:"run_id,omitempty"`
}

func marshalOrdered(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Introspect reads the schema, up to sampleSize rows and the row count of
// table, in that order, through the fixed query templates.
func Introspect(ctx context.Context, q common.Querier, table string, sampleSize int) (*TableSummary, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	ids := map[string]string{"table": table}

	schema, err := readSchema(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	sample, err := readSample(ctx, q, ids, sampleSize)
	if err != nil {
		return nil, err
	}
	count, err := readCount(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	return &TableSummary{
		TableName:  table,
		Schema:     schema,
		RowCount:   count,
		SampleData: sample,
	}, nil
}

func readSchema(ctx context.Context, q common.Querier, ids map[string]string) (Schema, error) {
	rows, err := common.ExecuteQuerySafely(ctx, q, common.TableInfoQuery, ids)
	if err != nil {
		return nil, storeError("read table info", err)
	}
	defer rows.Close()

	var schema Schema
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, storeError("scan table info", err)
		}
		schema = append(schema, ColumnInfo{Name: name, Type: colType})
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("read table info", err)
	}
	if len(schema) == 0 {
		return nil, common.NewError(common.KindStoreUnavailable, "table %s not found", ids["table"])
	}
	return schema, nil
}

func readSample(ctx context.Context, q common.Querier, ids map[string]string, limit int) ([]SampleRow, error) {
	rows, err := common.ExecuteQuerySafely(ctx, q, common.SampleQuery, ids, limit)
	if err != nil {
		return nil, storeError("read sample rows", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, storeError("read sample columns", err)
	}

	sample := make([]SampleRow, 0, limit)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, storeError("scan sample row", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		sample = append(sample, SampleRow{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("read sample rows", err)
	}
	return sample, nil
}

func readCount(ctx context.Context, q common.Querier, ids map[string]string) (int64, error) {
	rows, err := common.ExecuteQuerySafely(ctx, q, common.CountQuery, ids)
	if err != nil {
		return 0, storeError("count rows", err)
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, storeError("count rows", err)
		}
	}
	return count, rows.Err()
}

// storeError classifies a database failure. Identifier rejections keep their
// own kind.
func storeError(op string, err error) error {
	if common.KindOf(err) != "" {
		return err
	}
	return common.WrapError(common.KindStoreUnavailable, fmt.Errorf("failed to %s: %w", op, err))
}
