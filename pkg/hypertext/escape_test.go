package hypertext

import (
	"strings"
	"testing"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

func expectHTML(t *testing.T, got HTML, err error, expected string) {
	t.Helper()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(got) != expected {
		t.Fatalf("expected %q, got %q", expected, got)
	}
}

func TestContentEscaping(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{"a&b", "a&amp;b"},
		{"<script>", "&lt;script>"},
		{"a<b&c", "a&lt;b&amp;c"},
		// '>' passes through untouched in content
		{"a>b", "a>b"},
		{`"quotes" stay`, `"quotes" stay`},
		{42, "42"},
		{-7, "-7"},
		{3.5, "3.5"},
		{uint8(255), "255"},
		{HTML("<b>bold</b>"), "<b>bold</b>"},
	}

	for _, tt := range tests {
		out, err := Render(Text("<p>"), Value(tt.value), Text("</p>"))
		expectHTML(t, out, err, "<p>"+tt.expected+"</p>")
	}
}

func TestUnquotedAttributeEscaping(t *testing.T) {
	out, err := Render(Text("<a href="), Value("a&b"), Text(">"))
	expectHTML(t, out, err, "<a href=a&#38;b>")
}

func TestDoubleQuotedAttributeEscaping(t *testing.T) {
	out, err := Render(Text(`<a href="`), Value(`a&b"c`), Text(`">`))
	expectHTML(t, out, err, `<a href="a&amp;b&quot;c">`)
}

func TestSingleQuotedAttributeEscaping(t *testing.T) {
	out, err := Render(Text("<a href='"), Value("it's&on"), Text("'>"))
	expectHTML(t, out, err, "<a href='it&#39;s&amp;on'>")
}

func TestUnquotedContinuationEscapesWhitespace(t *testing.T) {
	out, err := Render(Text("<a href=/user/"), Value("ann bell>x"), Text(">"))
	expectHTML(t, out, err, "<a href=/user/ann&#32;bell&#62;x>")
}

func TestBooleanAttributes(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"true renders empty value", true, `<input disabled="">`},
		{"false omits attribute", false, `<input >`},
		{"nil omits attribute", nil, `<input >`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(Text("<input disabled="), Value(tt.value), Text(">"))
			expectHTML(t, out, err, tt.expected)
		})
	}
}

func TestAttrPairEscapesQuotesNumerically(t *testing.T) {
	out, err := Render(Text("<a href="), Value(`a"b 'c`), Text(">"))
	expectHTML(t, out, err, "<a href=a&#34;b&#32;&#39;c>")
}

func TestEmptyAttrValueRendersQuotes(t *testing.T) {
	out, err := Render(Text("<a href="), Value(""), Text(">"))
	expectHTML(t, out, err, `<a href="">`)
}

func TestStyleAttribute(t *testing.T) {
	style := Style{
		{Property: "fontSize", Value: 12},
		{Property: "color", Value: "red"},
	}
	out, err := Render(Text("<div style="), Value(style), Text(">"))
	expectHTML(t, out, err, `<div style=font-size:&#32;12px;&#32;color:&#32;red;>`)
}

func TestStyleAttributeFromMapSortsKeys(t *testing.T) {
	style := map[string]any{"zIndex": 4, "color": "red"}
	out, err := Render(Text("<div style="), Value(style), Text(">"))
	expectHTML(t, out, err, `<div style=color:&#32;red;&#32;z-index:&#32;4;>`)
}

func TestScriptValueAttribute(t *testing.T) {
	out, err := Render(Text("<button onclick="), Value(JS(`alert("hi")`)), Text(">"))
	expectHTML(t, out, err, `<button onclick=alert(&#34;hi&#34;)>`)
}

func TestAttributeSet(t *testing.T) {
	attrs := Attributes{
		{Name: "href", Value: "/x y"},
		{Name: "hidden", Value: false},
		{Name: "download", Value: true},
	}
	out, err := Render(Text("<a "), Value(attrs), Text(">"))
	expectHTML(t, out, err, `<a href=/x&#32;y download="">`)
}

func TestAttributeSetFromMapSortsNames(t *testing.T) {
	out, err := Render(Text("<a "), Value(map[string]any{"id": "z", "class": "c"}), Text(">"))
	expectHTML(t, out, err, `<a class=c id=z>`)
}

func TestAttributeSetSinglePair(t *testing.T) {
	out, err := Render(Text("<a "), Value(Attr{Name: "href", Value: "/"}), Text(">"))
	expectHTML(t, out, err, `<a href=/>`)
}

func TestInvalidAttributeName(t *testing.T) {
	bad := []string{"", "a b", "a=b", "a>b", "a/b", "a'b", `a"b`, "a&b", "a%b", "a<b", "a\tb"}
	for _, name := range bad {
		_, err := Render(Text("<a "), Value(Attr{Name: name, Value: "x"}), Text(">"))
		if err == nil {
			t.Errorf("name %q: expected error, got none", name)
			continue
		}
		if !herrors.IsCode(err, herrors.CodeInvalidAttrName) {
			t.Errorf("name %q: expected %s, got %v", name, herrors.CodeInvalidAttrName, err)
		}
	}
}

func TestPreEscapedSequenceConcatenates(t *testing.T) {
	tests := []struct {
		name     string
		frags    []HTML
		expected string
	}{
		{"zero", []HTML{}, "<p></p>"},
		{"one", []HTML{"<b>x</b>"}, "<p><b>x</b></p>"},
		{"many", []HTML{"<b>x</b>", "&amp;", "<i>y</i>"}, "<p><b>x</b>&amp;<i>y</i></p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(Text("<p>"), Value(tt.frags), Text("</p>"))
			expectHTML(t, out, err, tt.expected)
		})
	}
}

func TestRenderedTemplateNestsWithoutDoubleEscaping(t *testing.T) {
	inner, err := Render(Text("<em>"), Value("5 < 6"), Text("</em>"))
	if err != nil {
		t.Fatalf("inner render failed: %v", err)
	}
	outer, err := Render(Text("<p>"), Value(inner), Text("</p>"))
	expectHTML(t, outer, err, "<p><em>5 &lt; 6</em></p>")
}

func TestNoEscapeRuleForType(t *testing.T) {
	type opaque struct{ n int }
	_, err := Render(Text("<p>"), Value(opaque{1}), Text("</p>"))
	if err == nil {
		t.Fatalf("expected error, got none")
	}
	if !herrors.IsCode(err, herrors.CodeNoEscapeRule) {
		t.Fatalf("expected %s, got %v", herrors.CodeNoEscapeRule, err)
	}
	if !strings.Contains(err.Error(), "opaque") {
		t.Errorf("error should name the offending type: %v", err)
	}
}

func TestSliceValueSuggestsElementwise(t *testing.T) {
	_, err := Render(Text("<p>"), Value([]string{"a", "b"}), Text("</p>"))
	if err == nil {
		t.Fatalf("expected error, got none")
	}
	re, ok := err.(*herrors.RenderError)
	if !ok {
		t.Fatalf("expected *RenderError, got %T", err)
	}
	found := false
	for _, h := range re.Hints {
		if strings.Contains(h, "one at a time") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected element-wise hint, got %v", re.Hints)
	}
}

func TestRegisteredValuer(t *testing.T) {
	type money struct{ cents int }
	RegisterValuer(func(v any) (any, bool) {
		if m, ok := v.(money); ok {
			return Localized{Locale: "en", Value: m.cents}, true
		}
		return nil, false
	})
	defer func() { valuers = valuers[:len(valuers)-1] }()

	out, err := Render(Text("<p>"), Value(money{1234567}), Text("</p>"))
	expectHTML(t, out, err, "<p>1,234,567</p>")
}

func TestKebabCase(t *testing.T) {
	tests := []struct{ in, out string }{
		{"fontSize", "font-size"},
		{"color", "color"},
		{"zIndex", "z-index"},
		{"borderTopLeftRadius", "border-top-left-radius"},
	}
	for _, tt := range tests {
		if got := kebabCase(tt.in); got != tt.out {
			t.Errorf("kebabCase(%q): expected %q, got %q", tt.in, tt.out, got)
		}
	}
}
