package common

import (
	"strings"
	"testing"
)

func TestGenCreateTableSQLWithTypes(t *testing.T) {
	got := GenCreateTableSQLWithTypes("users", []string{"id", "name", "order"}, []string{TypeInteger, "", TypeReal})
	want := `CREATE TABLE "users" ("id" INTEGER, "name" TEXT, "order" REAL)`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGenDropTableSQL(t *testing.T) {
	if got := GenDropTableSQL("users"); got != `DROP TABLE IF EXISTS "users"` {
		t.Errorf("unexpected drop statement: %s", got)
	}
}

func TestGenInsertStmt(t *testing.T) {
	got, err := GenInsertStmt("t", []string{"a", "b"}, 3)
	if err != nil {
		t.Fatalf("GenInsertStmt failed: %v", err)
	}
	want := `INSERT INTO "t" ("a","b") VALUES (?,?),(?,?),(?,?)`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	if _, err := GenInsertStmt("t", nil, 1); err == nil {
		t.Error("expected error for empty field list")
	}
	if _, err := GenInsertStmt("t", []string{"a"}, 0); err == nil {
		t.Error("expected error for zero rows")
	}
}

func TestRowsPerStatement(t *testing.T) {
	tests := []struct {
		width, batch, want int
	}{
		{3, 100, 100},
		{1, 0, 1},
		{0, 50, 50},
		{MaxBoundParams, 10, 1},
		{MaxBoundParams * 2, 10, 1},
		{1000, 1000, MaxBoundParams / 1000},
	}
	for _, tt := range tests {
		if got := RowsPerStatement(tt.width, tt.batch); got != tt.want {
			t.Errorf("RowsPerStatement(%d, %d) = %d, want %d", tt.width, tt.batch, got, tt.want)
		}
	}
}

func TestKeywordsAreLowerCase(t *testing.T) {
	for _, k := range KEYWORDS_LOWER {
		if k != strings.ToLower(k) {
			t.Errorf("keyword %q is not lower case", k)
		}
	}
	if !IsKeyword("SELECT") || !IsKeyword("Column") {
		t.Error("IsKeyword should be case-insensitive")
	}
	if IsKeyword("users") {
		t.Error("users is not a keyword")
	}
}
