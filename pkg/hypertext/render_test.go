package hypertext_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/sambeau/hyssop/pkg/hypertext"
)

// parseAttrs re-lexes rendered markup with a real HTML tokenizer and
// returns the first start tag's attributes.
func parseAttrs(t *testing.T, markup string) map[string]string {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(markup))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			t.Fatalf("no start tag found in %q", markup)
		}
		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			attrs := map[string]string{}
			for {
				key, val, more := z.TagAttr()
				attrs[string(key)] = string(val)
				if !more {
					break
				}
			}
			return attrs
		}
	}
}

// parseText re-lexes rendered markup and returns the concatenated text
// content.
func parseText(t *testing.T, markup string) string {
	t.Helper()
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

func TestContentRoundTrips(t *testing.T) {
	values := []string{
		"a&b",
		"<script>alert(1)</script>",
		"&amp; already escaped",
		"5 < 6 > 4",
		"&#38;",
		"&lt;&gt;",
	}

	for _, v := range values {
		out, err := hypertext.Render(
			hypertext.Text("<p>"), hypertext.Value(v), hypertext.Text("</p>"))
		if err != nil {
			t.Fatalf("render %q failed: %v", v, err)
		}
		if got := parseText(t, string(out)); got != v {
			t.Errorf("value %q did not round-trip: rendered %q, re-lexed %q", v, out, got)
		}
	}
}

func TestDoubleQuotedAttributeRoundTrips(t *testing.T) {
	values := []string{
		`plain`,
		`with "double" quotes`,
		`with 'single' quotes`,
		`amp & ersand`,
		`both "and" & more`,
		`&quot; pre-escaped stays escaped`,
	}

	for _, v := range values {
		out, err := hypertext.Render(
			hypertext.Text(`<a href="`), hypertext.Value(v), hypertext.Text(`">x</a>`))
		if err != nil {
			t.Fatalf("render %q failed: %v", v, err)
		}
		attrs := parseAttrs(t, string(out))
		if diff := cmp.Diff(map[string]string{"href": v}, attrs); diff != "" {
			t.Errorf("value %q did not round-trip (-want +got):\n%s", v, diff)
		}
	}
}

func TestAttrPairRoundTrips(t *testing.T) {
	values := []string{
		"/simple/path",
		"a&b",
		"spaces and > brackets",
		`"quoted"`,
	}

	for _, v := range values {
		out, err := hypertext.Render(
			hypertext.Text("<a href="), hypertext.Value(v), hypertext.Text(">x</a>"))
		if err != nil {
			t.Fatalf("render %q failed: %v", v, err)
		}
		attrs := parseAttrs(t, string(out))
		if attrs["href"] != v {
			t.Errorf("value %q did not round-trip: rendered %q, re-lexed %q", v, out, attrs["href"])
		}
	}
}

func TestLiteralOnlyTemplateIsByteIdentical(t *testing.T) {
	literals := []string{
		"",
		"plain text with > and ' and \" left alone",
		"<a href=/home class='x'>Home</a>",
		`<input type="checkbox" checked>`,
		"<!-- a comment, with -- inside --><p>after</p>",
		"<!doctype html><html><body></body></html>",
		"<br/><hr/>",
		"text < not a tag",
	}

	for _, lit := range literals {
		out, err := hypertext.Render(hypertext.Text(lit))
		if err != nil {
			t.Fatalf("render %q failed: %v", lit, err)
		}
		if string(out) != lit {
			t.Errorf("literal template changed: %q became %q", lit, out)
		}
	}
}

func TestTemplateReuse(t *testing.T) {
	tpl := hypertext.New(
		hypertext.Text("<li>"), hypertext.Value("a&b"), hypertext.Text("</li>"))

	first, err := tpl.Render()
	if err != nil {
		t.Fatalf("first render failed: %v", err)
	}
	second, err := tpl.Render()
	if err != nil {
		t.Fatalf("second render failed: %v", err)
	}
	if first != second {
		t.Errorf("renders differ: %q vs %q", first, second)
	}
	if string(first) != "<li>a&amp;b</li>" {
		t.Errorf("unexpected output %q", first)
	}
}

func TestInterleave(t *testing.T) {
	tokens := hypertext.Interleave([]string{"<p>", "</p>"}, "x&y")
	out, err := hypertext.Render(tokens...)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(out) != "<p>x&amp;y</p>" {
		t.Errorf("unexpected output %q", out)
	}
}
