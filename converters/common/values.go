package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Declared column types used when creating tables.
const (
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
	TypeText    = "TEXT"
)

// SQLValue converts a decoded value into something database/sql can bind.
// Objects and arrays become JSON text.
func SQLValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, int64, float64, bool, []byte:
		return x
	case int:
		return int64(x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case json.Marshaler, []any, map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// SQLValues converts every cell of rows in place with SQLValue.
func SQLValues(rows [][]any) {
	for _, row := range rows {
		for i, v := range row {
			row[i] = SQLValue(v)
		}
	}
}

// InferColumnTypes declares a type for each column from bindable values:
// integers and booleans give INTEGER, any float promotes to REAL, anything else
// (or a column holding only NULLs) is TEXT.
func InferColumnTypes(rows [][]any, width int) []string {
	colTypes := make([]string, width)
	for _, row := range rows {
		for i := 0; i < width && i < len(row); i++ {
			colTypes[i] = widenType(colTypes[i], row[i])
		}
	}
	for i := range colTypes {
		if colTypes[i] == "" {
			colTypes[i] = TypeText
		}
	}
	return colTypes
}

func widenType(current string, v any) string {
	switch v.(type) {
	case nil:
		return current
	case int64, bool:
		if current == "" {
			return TypeInteger
		}
		return current
	case float64:
		if current == "" || current == TypeInteger {
			return TypeReal
		}
		return current
	default:
		return TypeText
	}
}

type textKind int

const (
	textEmpty textKind = iota
	textInteger
	textReal
	textBool
	textString
)

// CoerceTextRows turns rows of cell text into typed values column by column.
// A column whose non-empty cells all parse as integers becomes int64, as numbers
// float64, as true/false bool; otherwise cells stay strings. Empty cells are NULL
// and short rows are padded with NULL.
func CoerceTextRows(rows [][]string, width int) [][]any {
	kinds := make([]textKind, width)
	for _, row := range rows {
		for i := 0; i < width && i < len(row); i++ {
			kinds[i] = widenText(kinds[i], row[i])
		}
	}

	out := make([][]any, len(rows))
	for r, row := range rows {
		values := make([]any, width)
		for i := 0; i < width && i < len(row); i++ {
			values[i] = convertText(kinds[i], row[i])
		}
		out[r] = values
	}
	return out
}

func classifyText(cell string) textKind {
	s := strings.TrimSpace(cell)
	if s == "" {
		return textEmpty
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return textInteger
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil && strings.ContainsAny(s, "0123456789") {
		return textReal
	}
	if strings.EqualFold(s, "true") || strings.EqualFold(s, "false") {
		return textBool
	}
	return textString
}

func widenText(current textKind, cell string) textKind {
	k := classifyText(cell)
	switch {
	case k == textEmpty:
		return current
	case current == textEmpty:
		return k
	case current == k:
		return current
	case (current == textInteger && k == textReal) || (current == textReal && k == textInteger):
		return textReal
	default:
		return textString
	}
}

func convertText(kind textKind, cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	switch kind {
	case textInteger:
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case textReal:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case textBool:
		return strings.EqualFold(s, "true")
	}
	return cell
}
