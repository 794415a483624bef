// Package params holds compiled SQL templates together with their bound
// values, and the quote-aware placeholder rewriting used to execute and
// diagnose them.
package params

import (
	"strings"

	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// Query is a SQL template with positional (?) or named (:name)
// placeholders plus the values bound to them. Exactly one of Args or Named
// is used; a non-nil Named map marks a named template.
type Query struct {
	SQL   string
	Args  []any
	Named map[string]any
}

// Literalizer renders a value as an inline SQL literal. Dialects implement it.
type Literalizer interface {
	CastToQuery(value any) string
}

// New returns a positional query.
func New(sql string, args ...any) *Query {
	return &Query{SQL: sql, Args: args}
}

// NewNamed returns a named-placeholder query.
func NewNamed(sql string, named map[string]any) *Query {
	if named == nil {
		named = map[string]any{}
	}
	return &Query{SQL: sql, Named: named}
}

// IsNamed reports whether the template uses :name placeholders.
func (q *Query) IsNamed() bool {
	return q.Named != nil
}

// Positional returns q itself when it is already positional, otherwise the
// result of NamedToPositional.
func (q *Query) Positional() (*Query, error) {
	return Syntax{}.Positional(q)
}

// Positional is Query.Positional tokenized with s.
func (s Syntax) Positional(q *Query) (*Query, error) {
	if !q.IsNamed() {
		return q, nil
	}
	return s.NamedToPositional(q)
}

// NamedToPositional rewrites every :name placeholder outside of literals,
// quoted identifiers and comments into ?, collecting the bound values in
// encounter order. A name may appear more than once.
func (q *Query) NamedToPositional() (*Query, error) {
	return Syntax{}.NamedToPositional(q)
}

// NamedToPositional is Query.NamedToPositional tokenized with s.
func (s Syntax) NamedToPositional(q *Query) (*Query, error) {
	var sb strings.Builder
	sb.Grow(len(q.SQL))
	args := make([]any, 0, len(q.Named))

	for _, tok := range s.Tokenize(q.SQL) {
		if tok.Kind != TokenCode {
			sb.WriteString(tok.Text)
			continue
		}
		last := 0
		for _, p := range findPlaceholders(tok.Text, true) {
			if p.name == "" {
				continue
			}
			v, ok := q.Named[p.name]
			if !ok {
				return nil, &sqlerr.UnknownParameterError{SQL: q.SQL, Name: p.name}
			}
			sb.WriteString(tok.Text[last:p.start])
			sb.WriteByte('?')
			args = append(args, v)
			last = p.end
		}
		sb.WriteString(tok.Text[last:])
	}

	return &Query{SQL: sb.String(), Args: args}, nil
}

// CountPlaceholders returns the number of positional placeholders in sql
// that lie outside literals, quoted identifiers and comments.
func CountPlaceholders(sql string) int {
	return Syntax{}.CountPlaceholders(sql)
}

// CountPlaceholders is CountPlaceholders tokenized with s.
func (s Syntax) CountPlaceholders(sql string) int {
	n := 0
	for _, tok := range s.Tokenize(sql) {
		if tok.Kind == TokenCode {
			n += len(findPlaceholders(tok.Text, false))
		}
	}
	return n
}

// Validate checks that the positional template and its arguments agree.
func (q *Query) Validate() error {
	return Syntax{}.Validate(q)
}

// Validate is Query.Validate tokenized with s.
func (s Syntax) Validate(q *Query) error {
	pq, err := s.Positional(q)
	if err != nil {
		return err
	}
	if n := s.CountPlaceholders(pq.SQL); n != len(pq.Args) {
		return &sqlerr.ParameterCountMismatchError{SQL: q.SQL, Placeholders: n, Params: len(pq.Args)}
	}
	return nil
}

// Rebind rewrites each positional placeholder into the string returned by
// format for its 1-based index, e.g. $1, $2 for PostgreSQL.
func Rebind(sql string, format func(n int) string) string {
	return Syntax{}.Rebind(sql, format)
}

// Rebind is Rebind tokenized with s.
func (s Syntax) Rebind(sql string, format func(n int) string) string {
	var sb strings.Builder
	sb.Grow(len(sql) + 8)
	n := 0
	for _, tok := range s.Tokenize(sql) {
		if tok.Kind != TokenCode {
			sb.WriteString(tok.Text)
			continue
		}
		last := 0
		for _, p := range findPlaceholders(tok.Text, false) {
			n++
			sb.WriteString(tok.Text[last:p.start])
			sb.WriteString(format(n))
			last = p.end
		}
		sb.WriteString(tok.Text[last:])
	}
	return sb.String()
}

// RawSQL inlines every bound value as a literal rendered by lit. The result
// is for logging and debugging only and must never be executed.
func (q *Query) RawSQL(lit Literalizer) (string, error) {
	return Syntax{}.RawSQL(q, lit)
}

// RawSQL is Query.RawSQL tokenized with s.
func (s Syntax) RawSQL(q *Query, lit Literalizer) (string, error) {
	pq, err := s.Positional(q)
	if err != nil {
		return "", err
	}

	tokens := s.Tokenize(pq.SQL)
	total := 0
	for _, tok := range tokens {
		if tok.Kind == TokenCode {
			total += len(findPlaceholders(tok.Text, false))
		}
	}
	if total != len(pq.Args) {
		return "", &sqlerr.ParameterCountMismatchError{SQL: q.SQL, Placeholders: total, Params: len(pq.Args)}
	}

	var sb strings.Builder
	sb.Grow(len(pq.SQL) + 16*len(pq.Args))
	i := 0
	for _, tok := range tokens {
		if tok.Kind != TokenCode {
			sb.WriteString(tok.Text)
			continue
		}
		last := 0
		for _, p := range findPlaceholders(tok.Text, false) {
			sb.WriteString(tok.Text[last:p.start])
			sb.WriteString(lit.CastToQuery(pq.Args[i]))
			i++
			last = p.end
		}
		sb.WriteString(tok.Text[last:])
	}
	return sb.String(), nil
}

var rowKeywords = map[string]bool{
	"SELECT":   true,
	"WITH":     true,
	"VALUES":   true,
	"SHOW":     true,
	"PRAGMA":   true,
	"EXPLAIN":  true,
	"DESCRIBE": true,
	"DESC":     true,
	"TABLE":    true,
}

// ReturnsRows reports whether sql yields a row set: it starts with a
// row-producing keyword or carries a RETURNING clause outside literals.
func ReturnsRows(sql string) bool {
	return Syntax{}.ReturnsRows(sql)
}

// ReturnsRows is ReturnsRows tokenized with s.
func (s Syntax) ReturnsRows(sql string) bool {
	first := true
	for _, tok := range s.Tokenize(sql) {
		if tok.Kind != TokenCode {
			continue
		}
		for _, word := range strings.FieldsFunc(tok.Text, func(r rune) bool {
			return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
		}) {
			upper := strings.ToUpper(word)
			if first {
				if rowKeywords[upper] {
					return true
				}
				first = false
			}
			if upper == "RETURNING" {
				return true
			}
		}
	}
	return false
}
