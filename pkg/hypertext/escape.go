package hypertext

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// The escape dispatcher. Rules are checked in a fixed order: pre-escaped
// markup passes through unchanged, sequences of pre-escaped markup
// concatenate, numbers take their canonical decimal form, and text is
// escaped by the context it landed in. Everything else is a type error.

// escapeContent escapes a value occurring in content context. Only '&'
// and '<' are special in a text node; '>' deliberately passes through.
func escapeContent(v any) (string, *herrors.RenderError) {
	v = resolve(v)
	switch n := v.(type) {
	case SafeValuer:
		return n.SafeHTML(), nil
	case []HTML:
		var b strings.Builder
		for _, h := range n {
			b.WriteString(string(h))
		}
		return b.String(), nil
	}
	if s, ok := textOf(v); ok {
		return escapeText(s), nil
	}
	return "", noEscapeRule(v)
}

// escapeAttrValue escapes a value inside an already-open attribute value.
// The quote character decides the escape set: a double-quoted value only
// needs '"' and '&' neutralized, while unquoted position must also cover
// whitespace and '>'.
func escapeAttrValue(v any, kind NodeKind) (string, *herrors.RenderError) {
	v = resolve(v)
	switch n := v.(type) {
	case SafeValuer:
		return n.SafeHTML(), nil
	case []HTML:
		var b strings.Builder
		for _, h := range n {
			b.WriteString(string(h))
		}
		return b.String(), nil
	}
	if s, ok := textOf(v); ok {
		switch kind {
		case UnquotedValueNode:
			return escapeUnquoted(s), nil
		case SingleQuotedValueNode:
			return escapeSingleQuoted(s), nil
		case DoubleQuotedValueNode:
			return escapeDoubleQuoted(s), nil
		}
	}
	return "", noEscapeRule(v)
}

// renderAttrPair renders a recovered name plus its value. A nil or false
// value omits the whole attribute, true renders name="", and everything
// else becomes an unquoted right-hand side with numeric-reference
// escaping, so the result is safe without surrounding quotes.
func renderAttrPair(name string, v any) (string, *herrors.RenderError) {
	if err := ValidateAttributeName(name); err != nil {
		return "", err
	}
	v = resolve(v)
	switch b := v.(type) {
	case nil:
		return "", nil
	case bool:
		if !b {
			return "", nil
		}
		return name + `=""`, nil
	}

	rhs, err := attrRHS(name, v)
	if err != nil {
		return "", err
	}
	if rhs == "" {
		// name= with nothing after it would swallow the next character.
		return name + `=""`, nil
	}
	return name + "=" + escapeAttrRHS(rhs), nil
}

// attrRHS computes the unescaped right-hand side of an attribute. A
// mapping-valued "style" attribute becomes inline CSS, and script-capable
// values serialize through their script form.
func attrRHS(name string, v any) (string, *herrors.RenderError) {
	switch n := v.(type) {
	case Style:
		if name == "style" {
			return cssText(n), nil
		}
	case map[string]any:
		if name == "style" {
			return cssText(styleFromMap(n)), nil
		}
	case ScriptValuer:
		return n.ScriptValue(), nil
	case SafeValuer:
		return n.SafeHTML(), nil
	}
	if s, ok := textOf(v); ok {
		return s, nil
	}
	return "", noEscapeRule(v)
}

// renderAttrSet renders a value occurring at a before-attribute-name
// boundary: a single attribute, or a whole set of them, joined by spaces.
// Attributes with nil or false values are omitted entirely.
func renderAttrSet(v any) (string, *herrors.RenderError) {
	v = resolve(v)
	switch n := v.(type) {
	case Attr:
		return renderAttrPair(n.Name, n.Value)
	case Attributes:
		return joinAttrs(n)
	case map[string]any:
		names := make([]string, 0, len(n))
		for name := range n {
			names = append(names, name)
		}
		sort.Strings(names)
		attrs := make(Attributes, 0, len(names))
		for _, name := range names {
			attrs = append(attrs, Attr{Name: name, Value: n[name]})
		}
		return joinAttrs(attrs)
	}
	return "", noEscapeRule(v)
}

func joinAttrs(attrs Attributes) (string, *herrors.RenderError) {
	var b strings.Builder
	for _, a := range attrs {
		pair, err := renderAttrPair(a.Name, a.Value)
		if err != nil {
			return "", err
		}
		if pair == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(pair)
	}
	return b.String(), nil
}

// textValuer is implemented by package types that carry their own plain
// text form (localized numbers, locale dates).
type textValuer interface {
	textValue() string
}

// textOf returns the plain-text form of a value: strings as-is, numbers
// in canonical decimal form, times in RFC 3339.
func textOf(v any) (string, bool) {
	if s, ok := numericText(v); ok {
		return s, true
	}
	switch n := v.(type) {
	case string:
		return n, true
	case time.Time:
		return n.Format(time.RFC3339), true
	case textValuer:
		return n.textValue(), true
	}
	return "", false
}

func numericText(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

// noEscapeRule builds the type error for a value no rule covers. A plain
// slice most likely meant "render each element", so that gets a hint.
func noEscapeRule(v any) *herrors.RenderError {
	err := herrors.New(herrors.CodeNoEscapeRule,
		map[string]any{"Type": fmt.Sprintf("%T", v)})
	if v != nil {
		switch reflect.ValueOf(v).Kind() {
		case reflect.Slice, reflect.Array:
			err.Hints = append(err.Hints,
				"interpolate the elements one at a time, or mark already-rendered fragments as []hypertext.HTML")
		}
	}
	return err
}

// ----------------------------------------------------------------------------
// Character escaping
// ----------------------------------------------------------------------------

// escapeText escapes text for content position.
func escapeText(s string) string {
	var result strings.Builder
	for _, c := range s {
		switch c {
		case '&':
			result.WriteString("&amp;")
		case '<':
			result.WriteString("&lt;")
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}

// escapeDoubleQuoted escapes text inside a "..." attribute value.
func escapeDoubleQuoted(s string) string {
	var result strings.Builder
	for _, c := range s {
		switch c {
		case '&':
			result.WriteString("&amp;")
		case '"':
			result.WriteString("&quot;")
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}

// escapeSingleQuoted escapes text inside a '...' attribute value.
func escapeSingleQuoted(s string) string {
	var result strings.Builder
	for _, c := range s {
		switch c {
		case '&':
			result.WriteString("&amp;")
		case '\'':
			result.WriteString("&#39;")
		default:
			result.WriteRune(c)
		}
	}
	return result.String()
}

// escapeUnquoted escapes, as numeric character references, everything
// that can terminate an unquoted attribute value.
func escapeUnquoted(s string) string {
	return escapeNumeric(s, func(c byte) bool {
		return isWhitespace(c) || c == '>' || c == '&'
	})
}

// escapeAttrRHS escapes the computed right-hand side of an attribute
// pair. Quotes are included since the output is emitted unquoted.
func escapeAttrRHS(s string) string {
	return escapeNumeric(s, func(c byte) bool {
		return isWhitespace(c) || c == '>' || c == '&' || c == '"' || c == '\''
	})
}

// escapeNumeric replaces each special byte with its &#N; reference. The
// special set is always ASCII, so byte-wise scanning is safe.
func escapeNumeric(s string, special func(byte) bool) string {
	var result strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if special(c) {
			result.WriteString("&#")
			result.WriteString(strconv.Itoa(int(c)))
			result.WriteByte(';')
		} else {
			result.WriteByte(c)
		}
	}
	return result.String()
}

// ----------------------------------------------------------------------------
// Inline CSS
// ----------------------------------------------------------------------------

// cssText renders declarations as "property: value;" pairs.
func cssText(decls Style) string {
	var b strings.Builder
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(kebabCase(d.Property))
		b.WriteString(": ")
		b.WriteString(cssValue(d.Value))
		b.WriteByte(';')
	}
	return b.String()
}

func styleFromMap(m map[string]any) Style {
	props := make([]string, 0, len(m))
	for p := range m {
		props = append(props, p)
	}
	sort.Strings(props)
	decls := make(Style, 0, len(props))
	for _, p := range props {
		decls = append(decls, Decl{Property: p, Value: m[p]})
	}
	return decls
}

// cssValue renders one declaration value; bare numbers mean pixels.
func cssValue(v any) string {
	if s, ok := numericText(v); ok {
		return s + "px"
	}
	if s, ok := textOf(v); ok {
		return s
	}
	return fmt.Sprint(v)
}

// kebabCase rewrites camelCase property names: fontSize -> font-size.
func kebabCase(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= 'A' && c <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(c - 'A' + 'a')
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}
