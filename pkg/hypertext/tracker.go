package hypertext

import (
	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// tracker walks a token sequence, advancing the tokenization state machine
// over literal text one byte at a time, and dispatching each interpolated
// value to the assembly as a node typed by the context it landed in.
//
// All state is local to one render call. The transition table only ever
// commits per character; the single look-back it needs is re-examining the
// current character under a new context ("reconsumption"), handled by not
// advancing the cursor.
type tracker struct {
	ctx Context
	asm *assembly

	// Pending attribute name span, half-open [nameStart, nameEnd) into
	// the literal chunk with ordinal nameChunk. nameEnd is -1 until the
	// name is terminated. Valid only while the context is AttributeName,
	// AfterAttributeName, or BeforeAttributeValue.
	nameStart int
	nameEnd   int
	nameChunk int

	chunk int // ordinal of the literal chunk being scanned
}

// advance consumes the whole token sequence and returns the assembled
// output nodes. Literal text never fails: every character has a defined
// transition. Only a value landing in a context with no escaping rule
// produces an error.
func advance(tokens []Token) (*assembly, *herrors.RenderError) {
	t := &tracker{
		ctx:       Content,
		asm:       &assembly{},
		nameEnd:   -1,
		nameChunk: -1,
		chunk:     -1,
	}
	for _, tok := range tokens {
		if tok.Type == LITERAL {
			t.chunk++
			t.scanLiteral(tok.Text)
			t.asm.appendRaw(tok.Text)
			continue
		}
		if err := t.interpolate(tok.Value); err != nil {
			return nil, err
		}
	}
	return t.asm, nil
}

// scanLiteral advances the state machine across one literal chunk. The
// cursor only moves when a transition does not ask to reconsume the
// current character.
func (t *tracker) scanLiteral(text string) {
	i := 0
	for i < len(text) {
		i += t.step(text, i)
	}
}

// step examines text[i] under the current context and returns how many
// bytes were consumed: 0 to reconsume the same character under the new
// context, 1 normally. MarkupDeclarationOpen is the one state that looks
// ahead: it needs both dashes of "<!--" before committing to a comment,
// and gives up to BogusComment otherwise.
func (t *tracker) step(text string, i int) int {
	c := text[i]

	switch t.ctx {

	case Content:
		if c == '<' {
			t.ctx = TagOpen
		}

	case TagOpen:
		switch {
		case c == '!':
			t.ctx = MarkupDeclarationOpen
		case c == '/':
			t.ctx = EndTagOpen
		case isLetter(c):
			t.ctx = TagName
			return 0
		case c == '?':
			t.ctx = BogusComment
			return 0
		default:
			t.ctx = Content
			return 0
		}

	case EndTagOpen:
		switch {
		case isLetter(c):
			t.ctx = TagName
			return 0
		case c == '>':
			t.ctx = Content
		default:
			t.ctx = BogusComment
			return 0
		}

	case TagName:
		switch {
		case isWhitespace(c):
			t.ctx = BeforeAttributeName
		case c == '/':
			t.ctx = SelfClosingStartTag
		case c == '>':
			t.ctx = Content
		}

	case BeforeAttributeName:
		switch {
		case isWhitespace(c):
			// ignore
		case c == '/' || c == '>':
			t.ctx = AfterAttributeName
			return 0
		case c == '=':
			// Unexpected equals sign: the name starts just past it.
			t.ctx = AttributeName
			t.nameStart = i + 1
			t.nameEnd = -1
			t.nameChunk = t.chunk
		default:
			t.ctx = AttributeName
			t.nameStart = i
			t.nameEnd = -1
			t.nameChunk = t.chunk
			return 0
		}

	case AttributeName:
		switch {
		case isWhitespace(c) || c == '/' || c == '>':
			t.ctx = AfterAttributeName
			t.nameEnd = i
			return 0
		case c == '=':
			t.ctx = BeforeAttributeValue
			t.nameEnd = i
		}

	case AfterAttributeName:
		switch {
		case isWhitespace(c):
			// ignore
		case c == '/':
			t.ctx = SelfClosingStartTag
		case c == '=':
			t.ctx = BeforeAttributeValue
		case c == '>':
			t.ctx = Content
		default:
			t.ctx = AttributeName
			t.nameStart = i
			t.nameEnd = -1
			t.nameChunk = t.chunk
			return 0
		}

	case BeforeAttributeValue:
		switch {
		case isWhitespace(c):
			// ignore
		case c == '"':
			t.ctx = AttributeValueDoubleQuoted
		case c == '\'':
			t.ctx = AttributeValueSingleQuoted
		case c == '>':
			t.ctx = Content
		default:
			t.ctx = AttributeValueUnquoted
			return 0
		}

	case AttributeValueDoubleQuoted:
		if c == '"' {
			t.ctx = AfterAttributeValueQuoted
		}

	case AttributeValueSingleQuoted:
		if c == '\'' {
			t.ctx = AfterAttributeValueQuoted
		}

	case AttributeValueUnquoted:
		switch {
		case isWhitespace(c):
			t.ctx = BeforeAttributeName
		case c == '>':
			t.ctx = Content
		}

	case AfterAttributeValueQuoted:
		switch {
		case isWhitespace(c):
			t.ctx = BeforeAttributeName
		case c == '/':
			t.ctx = SelfClosingStartTag
		case c == '>':
			t.ctx = Content
		default:
			t.ctx = BeforeAttributeName
			return 0
		}

	case SelfClosingStartTag:
		if c == '>' {
			t.ctx = Content
		} else {
			t.ctx = BeforeAttributeName
			return 0
		}

	case MarkupDeclarationOpen:
		// CDATA and DOCTYPE are intentionally not recognized.
		if c == '-' && i+1 < len(text) && text[i+1] == '-' {
			t.ctx = CommentStart
			return 2
		}
		t.ctx = BogusComment
		return 0

	case BogusComment:
		if c == '>' {
			t.ctx = Content
		}

	case CommentStart:
		switch c {
		case '-':
			t.ctx = CommentStartDash
		case '>':
			t.ctx = Content
		default:
			t.ctx = Comment
			return 0
		}

	case CommentStartDash:
		switch c {
		case '-':
			t.ctx = CommentEnd
		case '>':
			t.ctx = Content
		default:
			t.ctx = Comment
			return 0
		}

	case Comment:
		switch c {
		case '<':
			t.ctx = CommentLessThan
		case '-':
			t.ctx = CommentEndDash
		}

	case CommentLessThan:
		switch c {
		case '!':
			t.ctx = CommentLessThanBang
		case '<':
			// stay
		default:
			t.ctx = Comment
			return 0
		}

	case CommentLessThanBang:
		if c == '-' {
			t.ctx = CommentLessThanBangDash
		} else {
			t.ctx = Comment
			return 0
		}

	case CommentLessThanBangDash:
		if c == '-' {
			t.ctx = CommentLessThanBangDashDash
		} else {
			t.ctx = CommentEndDash
			return 0
		}

	case CommentLessThanBangDashDash:
		t.ctx = CommentEnd
		return 0

	case CommentEndDash:
		if c == '-' {
			t.ctx = CommentEnd
		} else {
			t.ctx = Comment
			return 0
		}

	case CommentEnd:
		switch c {
		case '>':
			t.ctx = Content
		case '!':
			t.ctx = CommentEndBang
		case '-':
			// stay
		default:
			t.ctx = Comment
			return 0
		}

	case CommentEndBang:
		switch c {
		case '-':
			t.ctx = CommentEndDash
		case '>':
			t.ctx = Content
		default:
			t.ctx = Comment
			return 0
		}
	}

	return 1
}

// interpolate dispatches an interpolated value according to the current
// context. Content values are escaped eagerly; attribute values are held
// until render time since a pair may still need its name recombined.
func (t *tracker) interpolate(v any) *herrors.RenderError {
	if t.ctx.inComment() {
		return herrors.New(herrors.CodeUnsupportedContext,
			map[string]any{"Context": t.ctx.String()})
	}

	switch t.ctx {

	case Content:
		escaped, err := escapeContent(v)
		if err != nil {
			return err
		}
		t.asm.append(Node{Kind: ContentNode, Text: escaped})

	case BeforeAttributeValue:
		if t.nameChunk != t.chunk || t.nameEnd < 0 {
			return herrors.New(herrors.CodeMalformedAttrName, nil)
		}
		name, err := t.asm.recoverAttributeName(t.nameStart, t.nameEnd)
		if err != nil {
			return err
		}
		t.asm.append(Node{Kind: AttrPairNode, Name: name, Value: v})
		t.ctx = AttributeValueUnquoted

	case AttributeValueUnquoted:
		t.asm.append(Node{Kind: UnquotedValueNode, Value: v})

	case AttributeValueSingleQuoted:
		t.asm.append(Node{Kind: SingleQuotedValueNode, Value: v})

	case AttributeValueDoubleQuoted:
		t.asm.append(Node{Kind: DoubleQuotedValueNode, Value: v})

	case BeforeAttributeName:
		t.asm.append(Node{Kind: AttrSetNode, Value: v})

	default:
		return herrors.New(herrors.CodeInvalidPosition,
			map[string]any{"Context": t.ctx.String()})
	}
	return nil
}
