// Package hyssop provides the high-level API for embedding the template
// renderer: parse-and-render helpers over files and strings, and the
// Logger used by the CLI and dev server.
package hyssop

import (
	"os"

	"github.com/sambeau/hyssop/pkg/hypertext"
	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
	"github.com/sambeau/hyssop/pkg/hypertext/interp"
)

// Render renders template source with @{name} placeholders against data.
func Render(src string, data map[string]any) (string, error) {
	out, err := interp.Render(src, data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// RenderFile renders a template file against data. Errors carry the file
// path.
func RenderFile(path string, data map[string]any) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", herrors.New("IO-0001", map[string]any{
			"Operation": "read",
			"Path":      path,
			"GoError":   err.Error(),
		})
	}
	tpl, perr := interp.Parse(string(src))
	if perr != nil {
		return "", perr.WithFile(path)
	}
	out, rerr := tpl.Render(data)
	if rerr != nil {
		if re, ok := rerr.(*herrors.RenderError); ok {
			return "", re.WithFile(path)
		}
		return "", rerr
	}
	return string(out), nil
}

// Safe marks already-rendered markup so it is re-embedded verbatim.
func Safe(markup string) hypertext.HTML {
	return hypertext.HTML(markup)
}
