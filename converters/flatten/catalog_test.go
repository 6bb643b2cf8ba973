package flatten

import (
	"reflect"
	"testing"
)

func parseAll(t *testing.T, docs ...string) []any {
	t.Helper()
	out := make([]any, len(docs))
	for i, d := range docs {
		out[i] = mustParse(t, d)
	}
	return out
}

func TestDiscoverUnionsFieldsAcrossBatch(t *testing.T) {
	records := parseAll(t,
		`{"id":1,"tags":["a"]}`,
		`{"id":2,"name":"x","tags":["a","b","c"]}`,
		`{"id":3,"meta":{"k":"v"}}`,
	)
	c := Discover(records)

	want := []string{"id", "tags", "tags_0", "name", "tags_1", "tags_2", "meta__k"}
	if !reflect.DeepEqual(c.Fields, want) {
		t.Errorf("Fields = %v, want %v", c.Fields, want)
	}
	if c.MaxListLen["tags"] != 3 {
		t.Errorf("MaxListLen[tags] = %d", c.MaxListLen["tags"])
	}
	if !c.Has("meta__k") || c.Has("meta") {
		t.Error("Has reports wrong membership")
	}
}

func TestCompleteFillsMissingWithNil(t *testing.T) {
	records := parseAll(t, `{"a":1}`, `{"b":2}`)
	c := Discover(records)

	row := Complete(Flatten(records[1], "", nil), c)
	if len(row) != 2 || row[0] != nil || row[1] == nil {
		t.Errorf("row = %#v", row)
	}
}

func TestNormalize(t *testing.T) {
	records := parseAll(t,
		`{"name":"John","items":["book","pen"]}`,
		`{"name":"Jane","items":["laptop"],"vip":true}`,
		`{}`,
	)
	c, rows := Normalize(records)

	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(c.Fields) {
			t.Errorf("row %d has width %d, want %d", i, len(row), len(c.Fields))
		}
	}
	if c.MaxListLen["items"] != 2 {
		t.Errorf("MaxListLen[items] = %d", c.MaxListLen["items"])
	}
	want := []any{"Jane", "laptop", "laptop", nil, true}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("rows[1] = %#v, want %#v (fields %v)", rows[1], want, c.Fields)
	}
	for _, v := range rows[2] {
		if v != nil {
			t.Errorf("empty record should be all nil, got %#v", rows[2])
		}
	}
}
