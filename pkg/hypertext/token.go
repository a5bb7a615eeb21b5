package hypertext

import "fmt"

// TokenType represents the two kinds of input token
type TokenType int

const (
	// LITERAL is a run of template text, passed through as markup
	LITERAL TokenType = iota
	// VALUE is an interpolated value, escaped according to where it lands
	VALUE
)

// Token is one unit of a template: either a literal chunk of markup or an
// interpolated value. The order of tokens is the order of the template;
// a literal chunk may be empty but is never split further by the core.
type Token struct {
	Type  TokenType
	Text  string // literal text, when Type == LITERAL
	Value any    // interpolated value, when Type == VALUE
}

// Text returns a literal markup token.
func Text(s string) Token {
	return Token{Type: LITERAL, Text: s}
}

// Value returns an interpolated-value token.
func Value(v any) Token {
	return Token{Type: VALUE, Value: v}
}

// Interleave builds a token sequence from literal parts and the values
// that fall between them, the way a tagged template splits its input:
// parts[0], values[0], parts[1], values[1], ... Trailing parts or values
// beyond the shorter of the two are appended in order.
func Interleave(parts []string, values ...any) []Token {
	tokens := make([]Token, 0, len(parts)+len(values))
	for i, p := range parts {
		tokens = append(tokens, Text(p))
		if i < len(values) {
			tokens = append(tokens, Value(values[i]))
		}
	}
	for i := len(parts); i < len(values); i++ {
		tokens = append(tokens, Value(values[i]))
	}
	return tokens
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Type == LITERAL {
		return fmt.Sprintf("{Literal %q}", t.Text)
	}
	return fmt.Sprintf("{Value %v}", t.Value)
}
