package hypertext

import (
	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// NodeKind identifies what a node in the assembled output holds and,
// for value nodes, which escaping rule applies at render time.
type NodeKind int

const (
	// RawNode is literal markup, emitted verbatim.
	RawNode NodeKind = iota
	// ContentNode is text that was already escaped for content context.
	ContentNode
	// AttrPairNode is a recovered attribute name plus its value,
	// rendered as name=value (or omitted for false/nil values).
	AttrPairNode
	// UnquotedValueNode is a value inside an unquoted attribute value.
	UnquotedValueNode
	// SingleQuotedValueNode is a value inside a '...' attribute value.
	SingleQuotedValueNode
	// DoubleQuotedValueNode is a value inside a "..." attribute value.
	DoubleQuotedValueNode
	// AttrSetNode is a value supplying whole attributes at a
	// before-attribute-name boundary.
	AttrSetNode
)

// Node is one unit of assembled output. Text is set for RawNode and
// ContentNode; Name and Value for AttrPairNode; Value for the rest.
type Node struct {
	Kind  NodeKind
	Text  string
	Name  string
	Value any
}

// assembly accumulates output nodes in template order. It is append-only
// except for one mutation: the tail of the most recent raw node can be
// truncated to recover an attribute name that was written as literal text
// before its value arrived as a separate token.
type assembly struct {
	nodes []Node
}

func (a *assembly) appendRaw(text string) {
	a.nodes = append(a.nodes, Node{Kind: RawNode, Text: text})
}

func (a *assembly) append(n Node) {
	a.nodes = append(a.nodes, n)
}

// recoverAttributeName truncates the trailing raw node at start and
// returns its [start, end) substring as the attribute name. The span must
// be non-empty and must lie within the trailing raw node: a name split
// across literal chunks cannot be recovered.
func (a *assembly) recoverAttributeName(start, end int) (string, *herrors.RenderError) {
	if len(a.nodes) == 0 {
		return "", herrors.New(herrors.CodeMalformedAttrName, nil)
	}
	last := &a.nodes[len(a.nodes)-1]
	if last.Kind != RawNode || start < 0 || end > len(last.Text) || start >= end {
		return "", herrors.New(herrors.CodeMalformedAttrName, nil)
	}
	name := last.Text[start:end]
	last.Text = last.Text[:start]
	return name, nil
}
