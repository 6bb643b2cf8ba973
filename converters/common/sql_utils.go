package common

import (
	"fmt"
	"strings"
)

// MaxBoundParams is SQLite's default upper bound on host parameters per statement.
const MaxBoundParams = 32766

// GenCreateTableSQLWithTypes generates a CREATE TABLE statement with declared types.
// Identifiers must already be validated; they are emitted quoted.
func GenCreateTableSQLWithTypes(tableName string, columnNames []string, colTypes []string) string {
	var builder strings.Builder
	builder.Grow(len(tableName) + len(columnNames)*20) // Heuristic pre-allocation

	builder.WriteString("CREATE TABLE ")
	builder.WriteString(QuoteIdentifier(tableName))
	builder.WriteString(" (")
	for i, name := range columnNames {
		builder.WriteString(QuoteIdentifier(name))
		builder.WriteByte(' ')
		if i < len(colTypes) && colTypes[i] != "" {
			builder.WriteString(colTypes[i])
		} else {
			builder.WriteString(TypeText)
		}
		if i < len(columnNames)-1 {
			builder.WriteString(", ")
		}
	}
	builder.WriteByte(')')
	return builder.String()
}

// GenDropTableSQL generates a DROP TABLE IF EXISTS statement.
func GenDropTableSQL(tableName string) string {
	return "DROP TABLE IF EXISTS " + QuoteIdentifier(tableName)
}

// GenInsertStmt generates a multi-row INSERT with rowCount groups of placeholders.
func GenInsertStmt(table string, fields []string, rowCount int) (string, error) {
	if table == "" || len(fields) == 0 {
		return "", fmt.Errorf("table name and fields are required")
	}
	if rowCount < 1 {
		return "", fmt.Errorf("row count must be positive, got %d", rowCount)
	}

	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = QuoteIdentifier(f)
	}
	group := "(" + strings.Repeat("?,", len(fields)-1) + "?)"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(QuoteIdentifier(table))
	b.WriteString(" (")
	b.WriteString(strings.Join(quoted, ","))
	b.WriteString(") VALUES ")
	for i := 0; i < rowCount; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(group)
	}
	return b.String(), nil
}

// RowsPerStatement caps a requested batch so one INSERT never exceeds MaxBoundParams.
func RowsPerStatement(width, batchSize int) int {
	if batchSize < 1 {
		batchSize = 1
	}
	if width < 1 {
		return batchSize
	}
	if limit := MaxBoundParams / width; limit < batchSize {
		if limit < 1 {
			return 1
		}
		return limit
	}
	return batchSize
}

// KEYWORDS_LOWER lists the keywords recognized by SQLite, lower-cased.
// https://sqlite.org/lang_keywords.html
var KEYWORDS_LOWER = []string{
	"abort", "action", "add", "after", "all", "alter", "always", "analyze", "and", "as",
	"asc", "attach", "autoincrement", "before", "begin", "between", "by", "cascade", "case", "cast",
	"check", "collate", "column", "commit", "conflict", "constraint", "create", "cross", "current", "current_date",
	"current_time", "current_timestamp", "database", "default", "deferrable", "deferred", "delete", "desc", "detach", "distinct",
	"do", "drop", "each", "else", "end", "escape", "except", "exclude", "exclusive", "exists",
	"explain", "fail", "filter", "first", "following", "for", "foreign", "from", "full", "generated",
	"glob", "group", "groups", "having", "if", "ignore", "immediate", "in", "index", "indexed",
	"initially", "inner", "insert", "instead", "intersect", "into", "is", "isnull", "join", "key",
	"last", "left", "like", "limit", "match", "materialized", "natural", "no", "not", "nothing",
	"notnull", "null", "nulls", "of", "offset", "on", "or", "order", "others", "outer",
	"over", "partition", "plan", "pragma", "preceding", "primary", "query", "raise", "range", "recursive",
	"references", "regexp", "reindex", "release", "rename", "replace", "restrict", "returning", "right", "rollback",
	"row", "rows", "savepoint", "select", "set", "table", "temp", "temporary", "then", "ties",
	"to", "transaction", "trigger", "unbounded", "union", "unique", "update", "using", "vacuum", "values",
	"view", "virtual", "when", "where", "window", "with", "without",
}
