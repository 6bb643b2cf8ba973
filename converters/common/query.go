package common

import (
	"context"
	"database/sql"
	"regexp"
)

// Fixed introspection templates. {name} placeholders are identifiers and are
// substituted only after validation; values always travel as bound parameters.
const (
	TableInfoQuery = "PRAGMA table_info({table})"
	SampleQuery    = "SELECT * FROM {table} LIMIT ?"
	CountQuery     = "SELECT COUNT(*) FROM {table}"
)

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// BuildSafeQuery validates every identifier and substitutes its quoted form into
// template. Every placeholder in template must have a matching identifier.
func BuildSafeQuery(template string, identifiers map[string]string) (string, error) {
	for _, name := range identifiers {
		if err := ValidateIdentifier(name, KindTable); err != nil {
			return "", err
		}
	}

	var missing string
	out := placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := m[1 : len(m)-1]
		name, ok := identifiers[key]
		if !ok {
			missing = key
			return m
		}
		return QuoteIdentifier(name)
	})
	if missing != "" {
		return "", NewError(KindUnsafeIdentifier, "no identifier supplied for placeholder {%s}", missing)
	}
	return out, nil
}

// ExecuteQuerySafely builds template with BuildSafeQuery and runs it with args bound.
func ExecuteQuerySafely(ctx context.Context, q Querier, template string, identifiers map[string]string, args ...any) (*sql.Rows, error) {
	query, err := BuildSafeQuery(template, identifiers)
	if err != nil {
		return nil, err
	}
	return q.QueryContext(ctx, query, args...)
}
