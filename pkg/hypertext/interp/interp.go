// Package interp provides the template surface syntax for hyssop: plain
// markup with @{name} placeholders. Scanning splits the source into the
// core's literal/value token stream; binding resolves each name from a
// data map at render time.
//
//	tpl, err := interp.Parse(`<a href=@{url}>@{title}</a>`)
//	out, err := tpl.Render(map[string]any{"url": u, "title": t})
//
// A literal "@{" is written as "\@{".
package interp

import (
	"strings"

	"github.com/sambeau/hyssop/pkg/hypertext"
	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// segment is either a literal run of markup or a named placeholder.
type segment struct {
	literal string
	name    string
	line    int
	column  int
}

// Template is a parsed placeholder template, reusable across renders.
type Template struct {
	segments []segment
}

// Parse scans template source into literal and placeholder segments.
func Parse(src string) (*Template, *herrors.RenderError) {
	var segs []segment
	var lit strings.Builder

	line, col := 1, 1
	i := 0
	for i < len(src) {
		c := src[i]

		// \@{ escapes a literal @{
		if c == '\\' && strings.HasPrefix(src[i:], `\@{`) {
			lit.WriteString("@{")
			i += 3
			col += 3
			continue
		}

		if c == '@' && strings.HasPrefix(src[i:], "@{") {
			end := strings.IndexByte(src[i+2:], '}')
			if end < 0 {
				return nil, herrors.New("PARSE-0001", nil).
					WithPosition(line, col)
			}
			name := strings.TrimSpace(src[i+2 : i+2+end])
			if name == "" {
				return nil, herrors.New("PARSE-0002", nil).
					WithPosition(line, col)
			}
			if lit.Len() > 0 {
				segs = append(segs, segment{literal: lit.String()})
				lit.Reset()
			}
			segs = append(segs, segment{name: name, line: line, column: col})
			i += 2 + end + 1
			col += 2 + end + 1
			continue
		}

		lit.WriteByte(c)
		if c == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		i++
	}
	if lit.Len() > 0 {
		segs = append(segs, segment{literal: lit.String()})
	}

	return &Template{segments: segs}, nil
}

// Names returns the placeholder names in template order, deduplicated.
func (t *Template) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, s := range t.segments {
		if s.name != "" && !seen[s.name] {
			seen[s.name] = true
			names = append(names, s.name)
		}
	}
	return names
}

// Tokens binds placeholder names from data and returns the core token
// sequence. An unbound name fails with a "did you mean" hint against the
// names that are bound.
func (t *Template) Tokens(data map[string]any) ([]hypertext.Token, *herrors.RenderError) {
	bound := make([]string, 0, len(data))
	for k := range data {
		bound = append(bound, k)
	}

	tokens := make([]hypertext.Token, 0, len(t.segments))
	for _, s := range t.segments {
		if s.name == "" {
			tokens = append(tokens, hypertext.Text(s.literal))
			continue
		}
		v, ok := data[s.name]
		if !ok {
			return nil, herrors.NewUnboundPlaceholder(s.name, bound).
				WithPosition(s.line, s.column)
		}
		tokens = append(tokens, hypertext.Value(v))
	}
	return tokens, nil
}

// Render binds and renders in one step.
func (t *Template) Render(data map[string]any) (hypertext.HTML, error) {
	tokens, err := t.Tokens(data)
	if err != nil {
		return "", err
	}
	return hypertext.Render(tokens...)
}

// Render parses and renders src against data in one call. Callers that
// reuse a template should Parse once instead.
func Render(src string, data map[string]any) (hypertext.HTML, error) {
	tpl, err := Parse(src)
	if err != nil {
		return "", err
	}
	return tpl.Render(data)
}
