package params

// TokenKind classifies a run of SQL text.
type TokenKind int

const (
	TokenCode TokenKind = iota
	TokenString
	TokenIdentifier
	TokenComment
)

func (k TokenKind) String() string {
	switch k {
	case TokenCode:
		return "code"
	case TokenString:
		return "string"
	case TokenIdentifier:
		return "identifier"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Token is a contiguous run of text of one kind. Text includes the quote
// or comment delimiters.
type Token struct {
	Kind TokenKind
	Text string
}

// Syntax adjusts the tokenizer to a dialect. The zero value treats # as a
// line comment and [name] as a quoted identifier.
type Syntax struct {
	// HashOperators makes # part of operators such as #> and #- instead of
	// starting a comment.
	HashOperators bool
	// ArraySubscripts makes [ ] array constructors and subscripts instead
	// of identifier quotes.
	ArraySubscripts bool
}

// Tokenize splits sql into code, string literal, quoted identifier and
// comment runs using the default syntax.
func Tokenize(sql string) []Token {
	return Syntax{}.Tokenize(sql)
}

// Tokenize splits sql into code, string literal, quoted identifier and
// comment runs. Concatenating the Text of all tokens yields sql unchanged.
// An unterminated quote or block comment extends to the end of input.
func (s Syntax) Tokenize(sql string) []Token {
	var tokens []Token
	start := 0
	i := 0

	emitCode := func(end int) {
		if end > start {
			tokens = append(tokens, Token{Kind: TokenCode, Text: sql[start:end]})
		}
	}

	for i < len(sql) {
		c := sql[i]
		var kind TokenKind
		var end int

		switch {
		case c == '\'' || c == '"':
			kind, end = TokenString, scanQuoted(sql, i, c, true)
		case c == '`':
			kind, end = TokenIdentifier, scanQuoted(sql, i, '`', false)
		case c == '[' && !s.ArraySubscripts:
			kind, end = TokenIdentifier, scanUntil(sql, i+1, "]")
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			kind, end = TokenComment, scanLine(sql, i)
		case c == '#' && !s.HashOperators:
			kind, end = TokenComment, scanLine(sql, i)
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			kind, end = TokenComment, scanUntil(sql, i+2, "*/")
		default:
			i++
			continue
		}

		emitCode(i)
		tokens = append(tokens, Token{Kind: kind, Text: sql[i:end]})
		i = end
		start = end
	}
	emitCode(len(sql))
	return tokens
}

// scanQuoted returns the index just past the closing quote of the literal
// opened at sql[open]. A doubled quote is an embedded quote; when backslash
// is true, a backslash escapes the following byte.
func scanQuoted(sql string, open int, quote byte, backslash bool) int {
	i := open + 1
	for i < len(sql) {
		c := sql[i]
		if backslash && c == '\\' {
			i += 2
			continue
		}
		if c == quote {
			if i+1 < len(sql) && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		i++
	}
	return len(sql)
}

func scanUntil(sql string, from int, terminator string) int {
	for i := from; i+len(terminator) <= len(sql); i++ {
		if sql[i:i+len(terminator)] == terminator {
			return i + len(terminator)
		}
	}
	return len(sql)
}

func scanLine(sql string, from int) int {
	for i := from; i < len(sql); i++ {
		if sql[i] == '\n' {
			return i + 1
		}
	}
	return len(sql)
}

// placeholder is a placeholder found in a code token.
type placeholder struct {
	start, end int // byte offsets within the token text
	name       string
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// findPlaceholders returns positional (?) and, if named is set, named
// (:name) placeholders of a code run. "::" casts are skipped.
func findPlaceholders(code string, named bool) []placeholder {
	var out []placeholder
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '?':
			out = append(out, placeholder{start: i, end: i + 1})
		case ':':
			if i+1 < len(code) && code[i+1] == ':' {
				i++
				continue
			}
			if !named || (i > 0 && code[i-1] == ':') {
				continue
			}
			if i+1 >= len(code) || !isIdentStart(code[i+1]) {
				continue
			}
			j := i + 1
			for j < len(code) && isIdentPart(code[j]) {
				j++
			}
			out = append(out, placeholder{start: i, end: j, name: code[i+1 : j]})
			i = j - 1
		}
	}
	return out
}
