package hypertext

// Context represents the lexical position within markup that the tracker
// is currently inside of. It follows the HTML tokenization states closely,
// but only as far as is needed to pick the right escaping rule; CDATA and
// DOCTYPE are deliberately not recognized and fall back to BogusComment.
type Context int

const (
	Content Context = iota
	TagOpen
	EndTagOpen
	TagName
	BeforeAttributeName
	AttributeName
	AfterAttributeName
	BeforeAttributeValue
	AttributeValueUnquoted
	AttributeValueSingleQuoted
	AttributeValueDoubleQuoted
	AfterAttributeValueQuoted
	SelfClosingStartTag
	MarkupDeclarationOpen
	BogusComment
	CommentStart
	CommentStartDash
	Comment
	CommentLessThan
	CommentLessThanBang
	CommentLessThanBangDash
	CommentLessThanBangDashDash
	CommentEndDash
	CommentEnd
	CommentEndBang
)

// String returns a readable name for the context, used in error messages.
func (c Context) String() string {
	switch c {
	case Content:
		return "content"
	case TagOpen:
		return "tag open"
	case EndTagOpen:
		return "end tag open"
	case TagName:
		return "tag name"
	case BeforeAttributeName:
		return "before attribute name"
	case AttributeName:
		return "attribute name"
	case AfterAttributeName:
		return "after attribute name"
	case BeforeAttributeValue:
		return "before attribute value"
	case AttributeValueUnquoted:
		return "unquoted attribute value"
	case AttributeValueSingleQuoted:
		return "single-quoted attribute value"
	case AttributeValueDoubleQuoted:
		return "double-quoted attribute value"
	case AfterAttributeValueQuoted:
		return "after quoted attribute value"
	case SelfClosingStartTag:
		return "self-closing tag"
	case MarkupDeclarationOpen:
		return "markup declaration"
	case BogusComment:
		return "bogus comment"
	case CommentStart, CommentStartDash, Comment, CommentLessThan,
		CommentLessThanBang, CommentLessThanBangDash,
		CommentLessThanBangDashDash, CommentEndDash, CommentEnd,
		CommentEndBang:
		return "comment"
	}
	return "unknown"
}

// inComment reports whether the context is anywhere inside a comment,
// bogus comment, or markup declaration. No escaping rule is defined for
// values interpolated there, so the tracker rejects them.
func (c Context) inComment() bool {
	return c >= MarkupDeclarationOpen
}

// isWhitespace matches the HTML tokenizer's whitespace set: tab, line
// feed, form feed, space, and carriage return.
func isWhitespace(c byte) bool {
	return c == '\t' || c == '\n' || c == '\f' || c == ' ' || c == '\r'
}

// isLetter returns true if the byte is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
