package hypertext

// Value types understood by the escape dispatcher, plus the capability
// interfaces hosts can implement to plug their own types in.

// HTML is markup that is already safe to emit verbatim. Rendering output
// is itself HTML, so rendered sub-templates compose without being escaped
// a second time.
type HTML string

// SafeHTML implements SafeValuer.
func (h HTML) SafeHTML() string { return string(h) }

// SafeValuer is the capability interface for pre-escaped markup: any
// value exposing safe markup content is emitted unchanged, in every
// context.
type SafeValuer interface {
	SafeHTML() string
}

// JS is script text. When a JS value is the right-hand side of an
// attribute (an event handler, typically) it is emitted as script rather
// than as plain text, with only the characters that would break out of
// the attribute neutralized.
type JS string

// ScriptValue implements ScriptValuer.
func (j JS) ScriptValue() string { return string(j) }

// ScriptValuer is the capability interface for values that carry an
// alternate script serialization used in attribute right-hand position.
type ScriptValuer interface {
	ScriptValue() string
}

// Attr is a single attribute supplied as a value.
type Attr struct {
	Name  string
	Value any
}

// Attributes is an ordered set of attributes supplied as one value at a
// tag's attribute boundary, e.g. Render(Text("<a "), Value(attrs),
// Text(">")). Order is preserved in the output.
type Attributes []Attr

// Decl is one CSS declaration. Property names written in camelCase are
// rewritten to kebab-case, and bare numeric values get a "px" suffix.
type Decl struct {
	Property string
	Value    any
}

// Style is an ordered inline-style mapping. It is only meaningful as the
// value of a "style" attribute.
type Style []Decl

// ValuerFunc adapts an application value into one the dispatcher already
// understands (a string, number, HTML, Attributes, and so on). It reports
// false when the value is not its to handle.
type ValuerFunc func(v any) (any, bool)

// valuers holds registered adapters. This is configuration, consulted
// read-only during renders; registration is expected at program init.
var valuers []ValuerFunc

// RegisterValuer adds an adapter consulted for values the built-in rules
// do not cover, before rendering fails with a type error.
func RegisterValuer(fn ValuerFunc) {
	valuers = append(valuers, fn)
}

// resolveDepth bounds adapter chains so a misbehaving adapter cannot
// loop forever.
const resolveDepth = 8

// resolve runs registered adapters until a fixed point.
func resolve(v any) any {
	for range [resolveDepth]struct{}{} {
		adapted := false
		for _, fn := range valuers {
			if nv, ok := fn(v); ok {
				v = nv
				adapted = true
				break
			}
		}
		if !adapted {
			return v
		}
	}
	return v
}
