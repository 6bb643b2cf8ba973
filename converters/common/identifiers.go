package common

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spaolacci/murmur3"
)

// IdentifierKind says which namespace an identifier lives in.
type IdentifierKind string

const (
	KindTable  IdentifierKind = "table"
	KindColumn IdentifierKind = "column"

	// MaxIdentifierLength bounds every generated identifier.
	MaxIdentifierLength = 128

	fallbackTable  = "table"
	fallbackColumn = "column"
	hashedPrefix   = "table_"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var keywordSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(KEYWORDS_LOWER))
	for _, k := range KEYWORDS_LOWER {
		m[k] = struct{}{}
	}
	return m
}()

// IsKeyword reports whether name is a reserved SQLite keyword, ignoring case.
func IsKeyword(name string) bool {
	_, ok := keywordSet[strings.ToLower(name)]
	return ok
}

// ValidateIdentifier checks name against the identifier grammar used for every
// table and column reference built into SQL text. Table names must also avoid
// reserved keywords; column names are always emitted quoted.
func ValidateIdentifier(name string, kind IdentifierKind) error {
	switch {
	case name == "":
		return NewError(KindUnsafeIdentifier, "%s name is empty", kind)
	case len(name) > MaxIdentifierLength:
		return NewError(KindUnsafeIdentifier, "%s name %q exceeds %d bytes", kind, name, MaxIdentifierLength)
	case !identifierPattern.MatchString(name):
		return NewError(KindUnsafeIdentifier, "%s name %q contains invalid characters", kind, name)
	case kind == KindTable && IsKeyword(name):
		return NewError(KindUnsafeIdentifier, "%s name %q is a reserved keyword", kind, name)
	}
	return nil
}

// SanitizeTableName turns an arbitrary string (usually an uploaded file name)
// into a table identifier. It never fails: candidates that still do not
// validate are replaced by a name derived from a hash of the original input.
func SanitizeTableName(name string) string {
	candidate := name
	if idx := strings.LastIndexByte(candidate, '.'); idx >= 0 {
		candidate = candidate[:idx]
	}

	candidate = replaceInvalid(candidate, isTableRune)
	candidate = prefixUnderscore(candidate)
	if candidate == "" {
		candidate = fallbackTable
	}

	if err := ValidateIdentifier(candidate, KindTable); err != nil {
		return HashedTableName(name)
	}
	return candidate
}

// HashedTableName derives a stable table name from the raw input.
func HashedTableName(raw string) string {
	return fmt.Sprintf("%s%016x", hashedPrefix, murmur3.Sum64([]byte(raw)))
}

// CleanColumnName normalizes a column name: lower case, spaces and hyphens to
// underscores, anything else outside [a-z0-9_] to an underscore.
func CleanColumnName(name string) string {
	cleaned := strings.ToLower(name)
	cleaned = strings.NewReplacer(" ", "_", "-", "_").Replace(cleaned)
	cleaned = replaceInvalid(cleaned, isColumnRune)
	cleaned = prefixUnderscore(cleaned)

	if cleaned == "" {
		return fallbackColumn
	}
	if len(cleaned) > MaxIdentifierLength {
		cleaned = cleaned[:MaxIdentifierLength]
	}
	return cleaned
}

// DedupeColumnNames keeps every column addressable after cleaning: a repeated
// name gets _1, _2, ... appended in first-seen order.
func DedupeColumnNames(names []string) []string {
	out := make([]string, len(names))
	taken := make(map[string]bool, len(names))
	counter := make(map[string]int, len(names))

	for idx, name := range names {
		if !taken[name] {
			taken[name] = true
			out[idx] = name
			continue
		}
		for {
			counter[name]++
			suffix := fmt.Sprintf("_%d", counter[name])
			base := name
			if len(base)+len(suffix) > MaxIdentifierLength {
				base = base[:MaxIdentifierLength-len(suffix)]
			}
			candidate := base + suffix
			if !taken[candidate] {
				taken[candidate] = true
				out[idx] = candidate
				break
			}
		}
	}
	return out
}

// CleanColumnNames cleans and de-duplicates a header row.
func CleanColumnNames(raw []string) []string {
	cleaned := make([]string, len(raw))
	for i, name := range raw {
		cleaned[i] = CleanColumnName(name)
	}
	return DedupeColumnNames(cleaned)
}

// QuoteIdentifier wraps an already validated identifier in double quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func isTableRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func isColumnRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

func replaceInvalid(s string, valid func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if valid(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func prefixUnderscore(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
		return s
	}
	return "_" + s
}
