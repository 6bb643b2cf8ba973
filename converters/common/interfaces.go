package common

import "context"

// Driver decodes one input format into a Table. Drivers register themselves
// with the converters package from an init function.
type Driver interface {
	// Label names the format family in error messages, e.g. "CSV".
	Label() string
	// Extensions lists the lower-case file extensions handled, with the dot.
	Extensions() []string
	// Parse decodes raw input bytes. Text formats run them through DecodeText.
	Parse(ctx context.Context, data []byte, cfg *ConversionConfig) (*Table, error)
}

// Table is one decoded input, ready for column cleaning and loading.
// Every row has exactly len(Columns) cells.
type Table struct {
	Columns []string    // raw column names, before cleaning
	Rows    [][]any     // values in column order
	Skipped []*LineError // input lines dropped while decoding
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.Columns)
}

// TextTable builds a Table from a header row and rows of cell text.
// Rows wider than the header are rejected; shorter rows are padded with NULL.
func TextTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, NewError(KindUnsupportedShape, "no header row found")
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, NewError(KindMalformedInput,
				"Error tokenizing data. Expected %d fields in line %d, saw %d", len(header), i+2, len(row))
		}
	}
	return &Table{
		Columns: header,
		Rows:    CoerceTextRows(rows, len(header)),
	}, nil
}
