package common

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_SanitizedNamesAlwaysValidate(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("table names validate for any input", prop.ForAll(
		func(s string) bool {
			return ValidateIdentifier(SanitizeTableName(s), KindTable) == nil
		},
		gen.AnyString(),
	))

	properties.Property("table names validate for keyword-shaped input", prop.ForAll(
		func(s string) bool {
			return ValidateIdentifier(SanitizeTableName(s+".csv"), KindTable) == nil
		},
		gen.OneConstOf("select", "table", "Order", "where", "", "1", "group by"),
	))

	properties.Property("column names validate for any input", prop.ForAll(
		func(s string) bool {
			return ValidateIdentifier(CleanColumnName(s), KindColumn) == nil
		},
		gen.AnyString(),
	))

	properties.Property("deduplicated headers are distinct", prop.ForAll(
		func(raw []string) bool {
			seen := make(map[string]bool)
			for _, name := range CleanColumnNames(raw) {
				if seen[name] {
					return false
				}
				seen[name] = true
			}
			return len(seen) == len(raw)
		},
		gen.SliceOf(gen.OneConstOf("a", "A", "a_1", "b", "", "a-1", "1")),
	))

	properties.TestingRun(t)
}
