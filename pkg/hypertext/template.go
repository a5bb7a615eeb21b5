// Package hypertext renders templates of literal markup and interpolated
// values into HTML, escaping each value by the lexical position it
// occupies: text content, quoted or unquoted attribute values, or whole
// attributes. It tracks position with a restartable HTML tokenizer, so
//
//	hypertext.Render(
//		hypertext.Text(`<a href=`),
//		hypertext.Value(url),
//		hypertext.Text(`>`),
//	)
//
// escapes url for unquoted attribute position, while the same value
// between "..." gets only quote escaping, and in element content only
// '&' and '<' are touched. The result is an HTML value, so rendered
// fragments nest into other templates without double escaping.
//
// All state lives inside one Render call; a Template is immutable after
// construction and safe for concurrent use.
package hypertext

// Template is a parsed, reusable token sequence.
type Template struct {
	tokens []Token
}

// New builds a template from a token sequence.
func New(tokens ...Token) *Template {
	return &Template{tokens: tokens}
}

// Render assembles and renders the template.
func (t *Template) Render() (HTML, error) {
	return Render(t.tokens...)
}

// Render walks a token sequence once and returns the escaped markup.
func Render(tokens ...Token) (HTML, error) {
	asm, err := advance(tokens)
	if err != nil {
		return "", err
	}
	out, err := renderNodes(asm)
	if err != nil {
		return "", err
	}
	return HTML(out), nil
}
