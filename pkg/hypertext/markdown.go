package hypertext

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkParser "github.com/yuin/goldmark/parser"
)

// Markdown is markdown source. When rendered it converts to HTML first,
// then passes through as pre-escaped markup, so a Markdown value drops a
// whole formatted block into content position.
type Markdown string

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(goldmarkParser.WithAutoHeadingID()),
)

// SafeHTML implements SafeValuer by converting the markdown source.
// Conversion failures degrade to the escaped source text rather than
// failing the render: markdown has no invalid inputs, only surprising
// ones, and goldmark errors only on writer failures.
func (m Markdown) SafeHTML() string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(m), &buf); err != nil {
		return escapeText(string(m))
	}
	return buf.String()
}
