// Package errors provides structured error types for hyssop rendering.
//
// This package defines RenderError, a unified error type covering template
// scanning and rendering failures with rich metadata for display and
// programmatic handling.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassInterp    ErrorClass = "interp"    // Bad interpolation position/context
	ClassAttribute ErrorClass = "attribute" // Attribute name problems
	ClassType      ErrorClass = "type"      // No escaping rule for a value type
	ClassParse     ErrorClass = "parse"     // Template surface syntax errors
	ClassUndefined ErrorClass = "undefined" // Placeholder name not found
	ClassFormat    ErrorClass = "format"    // Invalid data format
	ClassIO        ErrorClass = "io"        // File operations
	ClassDatabase  ErrorClass = "database"  // DB data sources
)

// Error codes referenced throughout the module. Hosts should match on
// these rather than on message text.
const (
	CodeUnsupportedContext = "INTERP-0001"
	CodeInvalidPosition    = "INTERP-0002"
	CodeMalformedAttrName  = "ATTR-0001"
	CodeInvalidAttrName    = "ATTR-0002"
	CodeNoEscapeRule       = "TYPE-0001"
)

// RenderError represents any error from scanning or rendering a template.
type RenderError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "INTERP-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *RenderError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *RenderError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *RenderError) WithFile(file string) *RenderError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *RenderError) WithPosition(line, column int) *RenderError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsCode reports whether err is a RenderError carrying the given code.
func IsCode(err error, code string) bool {
	re, ok := err.(*RenderError)
	return ok && re.Code == code
}

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// ========================================
	// Interpolation errors (INTERP-0xxx)
	// ========================================
	"INTERP-0001": {
		Class:    ClassInterp,
		Template: "cannot interpolate a value inside a {{.Context}}",
		Hints:    []string{"values inside <!-- --> have no defined escaping; move the value outside the comment"},
	},
	"INTERP-0002": {
		Class:    ClassInterp,
		Template: "a value cannot be interpolated at {{.Context}} position",
	},

	// ========================================
	// Attribute errors (ATTR-0xxx)
	// ========================================
	"ATTR-0001": {
		Class:    ClassAttribute,
		Template: "could not recover an attribute name before the interpolated value",
		Hints:    []string{"write the full attribute name in one literal chunk, e.g. href=@{url}"},
	},
	"ATTR-0002": {
		Class:    ClassAttribute,
		Template: "invalid character in attribute name {{.Name}}",
	},

	// ========================================
	// Type errors (TYPE-0xxx)
	// ========================================
	"TYPE-0001": {
		Class:    ClassType,
		Template: "no escaping rule for value of type {{.Type}}",
	},

	// ========================================
	// Parse errors (PARSE-0xxx)
	// ========================================
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "unterminated placeholder (missing closing brace)",
		Hints:    []string{"@{name}"},
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "empty placeholder",
	},

	// ========================================
	// Undefined errors (UNDEF-0xxx)
	// ========================================
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "placeholder not bound: {{.Name}}",
		// Hint "Did you mean `X`?" added dynamically by fuzzy matching
	},

	// ========================================
	// Format errors (FMT-0xxx)
	// ========================================
	"FMT-0001": {
		Class:    ClassFormat,
		Template: "invalid {{.Format}}: {{.GoError}}",
	},

	// ========================================
	// I/O errors (IO-0xxx)
	// ========================================
	"IO-0001": {
		Class:    ClassIO,
		Template: "failed to {{.Operation}} '{{.Path}}': {{.GoError}}",
	},

	// ========================================
	// Database errors (DB-0xxx)
	// ========================================
	"DB-0001": {
		Class:    ClassDatabase,
		Template: "failed to open {{.Driver}} database: {{.GoError}}",
	},
	"DB-0002": {
		Class:    ClassDatabase,
		Template: "query failed: {{.GoError}}",
	},
	"DB-0003": {
		Class:    ClassDatabase,
		Template: "failed to scan row: {{.GoError}}",
	},
}

// New creates a RenderError from the catalog.
// If the code is not found, creates a generic error with the message.
func New(code string, data map[string]any) *RenderError {
	def, ok := ErrorCatalog[code]
	if !ok {
		msg := code
		if data != nil {
			if m, ok := data["message"].(string); ok {
				msg = m
			}
		}
		return &RenderError{
			Class:   ClassType,
			Code:    code,
			Message: msg,
			Data:    data,
		}
	}

	msg := renderTemplate(def.Template, data)

	var hints []string
	for _, hintTmpl := range def.Hints {
		rendered := renderTemplate(hintTmpl, data)
		if rendered != "" {
			hints = append(hints, rendered)
		}
	}

	return &RenderError{
		Class:   def.Class,
		Code:    code,
		Message: msg,
		Hints:   hints,
		Data:    data,
	}
}

// NewSimple creates a simple error without using the catalog.
func NewSimple(class ErrorClass, message string) *RenderError {
	return &RenderError{
		Class:   class,
		Message: message,
	}
}

// NewSimpleWithHints creates a simple error with hints.
func NewSimpleWithHints(class ErrorClass, message string, hints ...string) *RenderError {
	return &RenderError{
		Class:   class,
		Message: message,
		Hints:   hints,
	}
}

// renderTemplate renders a Go template with the given data.
func renderTemplate(tmplStr string, data map[string]any) string {
	if data == nil {
		return tmplStr
	}

	tmpl, err := template.New("").Parse(tmplStr)
	if err != nil {
		return tmplStr
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return tmplStr
	}

	return buf.String()
}

// ============================================================================
// Fuzzy Matching - "Did you mean?" suggestions
// ============================================================================

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// FindClosestMatch finds the closest match to the given string from candidates.
// Returns the best match if the distance is within the threshold, otherwise
// empty string. The threshold scales with the length of the input.
func FindClosestMatch(input string, candidates []string) string {
	if len(input) == 0 || len(candidates) == 0 {
		return ""
	}

	inputLower := strings.ToLower(input)

	var bestMatch string
	bestDistance := -1

	for _, candidate := range candidates {
		candidateLower := strings.ToLower(candidate)

		dist := levenshteinDistance(inputLower, candidateLower)

		if bestDistance == -1 || dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate // Return original case
		}
	}

	// Short words (1-3): max 1 edit
	// Medium words (4-6): max 2 edits
	// Longer words (7+): max 3 edits
	threshold := 1
	if len(input) >= 4 && len(input) <= 6 {
		threshold = 2
	} else if len(input) >= 7 {
		threshold = 3
	}

	if bestDistance <= 0 || bestDistance > threshold {
		return ""
	}

	return bestMatch
}

// NewUnboundPlaceholder creates an unbound placeholder error with optional
// fuzzy matching against the names that are bound.
func NewUnboundPlaceholder(name string, available []string) *RenderError {
	data := map[string]any{"Name": name}
	err := New("UNDEF-0001", data)

	if suggestion := FindClosestMatch(name, available); suggestion != "" {
		err.Hints = append(err.Hints, "Did you mean `"+suggestion+"`?")
	}

	return err
}
