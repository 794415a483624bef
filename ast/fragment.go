package ast

import (
	"fmt"
	"strings"
)

// Fragment is a piece of SQL placed verbatim or escaped by the dialect.
// The set of implementations is closed: Identifier, Raw and Aliased.
type Fragment interface {
	fragment()
}

// Identifier is a possibly qualified name such as users.id. Each part is
// escaped separately; a part equal to "*" is emitted as is.
type Identifier struct {
	Parts []string
}

// Raw is literal SQL inlined without escaping. Args bind the positional
// placeholders it contains, in order.
type Raw struct {
	SQL  string
	Args []any
}

// Aliased renders Inner followed by AS and the escaped alias.
type Aliased struct {
	Inner Fragment
	Alias string
}

func (Identifier) fragment() {}
func (Raw) fragment()        {}
func (Aliased) fragment()    {}

// Ident splits a dotted name into an Identifier.
func Ident(name string) Identifier {
	return Identifier{Parts: strings.Split(name, ".")}
}

// RawSQL returns a Raw fragment.
func RawSQL(sql string, args ...any) Raw {
	return Raw{SQL: sql, Args: args}
}

// Alias wraps a name or fragment with an alias.
func Alias(inner any, alias string) (Aliased, error) {
	f, err := ParseFragment(inner)
	if err != nil {
		return Aliased{}, err
	}
	return Aliased{Inner: f, Alias: alias}, nil
}

// Name returns the last part of the identifier.
func (i Identifier) Name() string {
	if len(i.Parts) == 0 {
		return ""
	}
	return i.Parts[len(i.Parts)-1]
}

// ParseFragment converts a builder argument into a Fragment. Strings are
// parsed as "table.column [AS alias]"; fragments pass through.
func ParseFragment(v any) (Fragment, error) {
	switch f := v.(type) {
	case string:
		return parseColumnString(f)
	case Identifier:
		return f, nil
	case Raw:
		return f, nil
	case *Raw:
		return *f, nil
	case Aliased:
		return f, nil
	case Fragment:
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported column or table reference %T", v)
	}
}

// parseColumnString parses "table.column AS alias" formats.
func parseColumnString(ref string) (Fragment, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty identifier")
	}

	var alias string
	if asIdx := strings.Index(strings.ToUpper(ref), " AS "); asIdx > 0 {
		alias = strings.TrimSpace(ref[asIdx+4:])
		ref = strings.TrimSpace(ref[:asIdx])
	}

	id := Ident(ref)
	for _, p := range id.Parts {
		if p == "" {
			return nil, fmt.Errorf("malformed identifier %q", ref)
		}
	}
	if alias != "" {
		return Aliased{Inner: id, Alias: alias}, nil
	}
	return id, nil
}

// ReferenceName returns the name a fragment is referred to by in other
// clauses: the alias if present, otherwise the unqualified identifier.
func ReferenceName(f Fragment) string {
	switch t := f.(type) {
	case Aliased:
		return t.Alias
	case Identifier:
		return t.Name()
	default:
		return ""
	}
}
