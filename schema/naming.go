package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// Naming helpers used when a builder has to infer a table or constraint
// name, e.g. a foreign key column user_id referencing table users.

var pluralizeClient = pluralizer.NewClient()

// ReferenceTable infers the table a foreign key column points at:
// user_id -> users, blogPostId -> blog_posts, author -> authors.
func ReferenceTable(column string) string {
	name := ToSnakeCase(column)
	for _, suffix := range []string{"_uuid", "_ulid", "_id"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			name = trimmed
			break
		}
	}
	return Pluralize(name)
}

// ForeignKeyName is the default constraint name for a foreign key.
func ForeignKeyName(table, column string) string {
	return "fk_" + table + "_" + column
}

// UniqueName is the default constraint name for a unique constraint.
func UniqueName(table string, columns ...string) string {
	return "uq_" + table + "_" + strings.Join(columns, "_")
}

// ToSnakeCase converts camelCase, PascalCase and acronyms to snake_case.
func ToSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "ULID":
		return "ulid"
	}

	if !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				if prev != '_' {
					result.WriteByte('_')
				}
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// Pluralize returns the plural of the last word of a snake_case name.
func Pluralize(name string) string {
	if name == "" {
		return ""
	}
	head, last := splitLast(name)
	return head + preserveCase(last, pluralizeClient.Plural(last))
}

func splitLast(name string) (string, string) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 || i == len(name)-1 {
		return "", name
	}
	return name[:i+1], name[i+1:]
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// preserveCase applies the case pattern of original to result.
func preserveCase(original, result string) string {
	if original == "" || result == "" {
		return result
	}
	if strings.ToLower(original) == original {
		return strings.ToLower(result)
	}
	if strings.ToUpper(original) == original {
		return strings.ToUpper(result)
	}
	if unicode.IsUpper(rune(original[0])) {
		return strings.ToUpper(result[:1]) + strings.ToLower(result[1:])
	}
	return strings.ToLower(result)
}
