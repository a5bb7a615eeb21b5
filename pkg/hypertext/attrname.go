package hypertext

import (
	"strings"

	herrors "github.com/sambeau/hyssop/pkg/hypertext/errors"
)

// Characters that may never appear in an attribute name, whatever the
// surrounding syntax. NUL is included.
const badNameChars = "/>='<&%\"\t\n\f\r \x00"

// ValidateAttributeName checks a name before it is paired with a value:
// it must be non-empty and contain no markup-significant characters.
func ValidateAttributeName(name string) *herrors.RenderError {
	if name == "" {
		return herrors.New(herrors.CodeInvalidAttrName,
			map[string]any{"Name": `""`})
	}
	if strings.ContainsAny(name, badNameChars) {
		return herrors.New(herrors.CodeInvalidAttrName,
			map[string]any{"Name": "'" + name + "'"})
	}
	return nil
}
