// Package flatten turns nested JSON records into flat rows that share one
// column set.
package flatten

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Column naming. Nested objects join with ObjectDelimiter (parent__child), a
// list's summary column joins its elements with ListDelimiter (a||b), and each
// element gets its own column parent + ListIndexPrefix + index (parent_0).
const (
	ObjectDelimiter = "__"
	ListDelimiter   = "||"
	ListIndexPrefix = "_"
)

// ListLengths records the longest list seen for each list-valued key.
// A nil ListLengths ignores observations.
type ListLengths map[string]int

func (l ListLengths) observe(key string, n int) {
	if l == nil {
		return
	}
	if cur, ok := l[key]; !ok || n > cur {
		l[key] = n
	}
}

// Record is one flattened record: scalar values keyed by column name, with
// keys in traversal order.
type Record struct {
	Keys   []string
	Values map[string]any
}

func newRecord() *Record {
	return &Record{Values: make(map[string]any)}
}

func (r *Record) set(key string, v any) {
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = v
}

// Get returns the value for key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.Values[key]
	return v, ok
}

// Has reports whether the record has a column named key.
func (r *Record) Has(key string) bool {
	_, ok := r.Values[key]
	return ok
}

// Len returns the number of columns in the record.
func (r *Record) Len() int {
	return len(r.Keys)
}

// Flatten converts value into a single-level record. Objects recurse with
// joined keys. A list under a non-empty key yields a joined summary column and
// one column per element; elements that are themselves objects or arrays are
// kept as-is in their indexed column. A scalar is emitted under parentKey, and
// a scalar or list at the top level (empty parentKey) produces no column.
// List lengths are reported to lengths when it is non-nil.
func Flatten(value any, parentKey string, lengths ListLengths) *Record {
	rec := newRecord()
	flattenInto(rec, value, parentKey, lengths)
	return rec
}

func flattenInto(rec *Record, value any, parentKey string, lengths ListLengths) {
	switch v := value.(type) {
	case *Object:
		for _, k := range v.Keys() {
			child, _ := v.Get(k)
			flattenInto(rec, child, joinKey(parentKey, k), lengths)
		}
	case []any:
		if parentKey == "" {
			return
		}
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = summaryText(item)
		}
		rec.set(parentKey, strings.Join(parts, ListDelimiter))
		for i, item := range v {
			rec.set(parentKey+ListIndexPrefix+strconv.Itoa(i), item)
		}
		lengths.observe(parentKey, len(v))
	default:
		if parentKey != "" {
			rec.set(parentKey, v)
		}
	}
}

func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + ObjectDelimiter + key
}

// summaryText renders one list element for the joined summary column using
// JSON literal forms: strings verbatim, numbers as written in the input, and
// true, false, null or compact JSON for everything else.
func summaryText(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
