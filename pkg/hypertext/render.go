package hypertext

import (
	"strings"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// renderNodes concatenates the assembled sequence in a single pass: raw
// and content text verbatim, everything else through the dispatcher.
func renderNodes(asm *assembly) (string, *herrors.RenderError) {
	var b strings.Builder
	for _, n := range asm.nodes {
		switch n.Kind {
		case RawNode, ContentNode:
			b.WriteString(n.Text)
		case UnquotedValueNode, SingleQuotedValueNode, DoubleQuotedValueNode:
			s, err := escapeAttrValue(n.Value, n.Kind)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case AttrPairNode:
			s, err := renderAttrPair(n.Name, n.Value)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case AttrSetNode:
			s, err := renderAttrSet(n.Value)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
	}
	return b.String(), nil
}
