package bookmark

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal error kinds. These abort a conversion and propagate unchanged to the
// caller; the engine never invents data to work around them.
var (
	// ErrInvalidEncoding means the input bytes are not valid UTF-8.
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")

	// ErrMalformedDocument means the HTML input has no recognizable
	// bookmark list structure at all.
	ErrMalformedDocument = errors.New("no bookmark list structure found")

	// ErrDepthLimit means folder nesting exceeds the configured maximum.
	ErrDepthLimit = errors.New("bookmark nesting exceeds depth limit")
)

// SchemaError reports a JSON node that violates the required shape. Path is
// the sequence of child indices from the root to the offending node.
type SchemaError struct {
	Path   []int
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema violation at %s: %s", PathLocator(e.Path), e.Reason)
}

// PathLocator renders a child-index path as "/0/2"; the empty path is the
// root, rendered as "/".
func PathLocator(path []int) string {
	if len(path) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, i := range path {
		fmt.Fprintf(&b, "/%d", i)
	}
	return b.String()
}

// Warning records a non-fatal problem with a single entry. Warnings
// accumulate during parsing and are returned alongside successful output;
// they never abort a conversion.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return w.Path + ": " + w.Message
}

// Error kind identifiers shared by the CLI exit path and the REST error body.
const (
	KindDecodingError      = "decoding_error"
	KindMalformedDocument  = "malformed_document"
	KindSchemaViolation    = "schema_violation"
	KindDepthLimitExceeded = "depth_limit_exceeded"
	KindInternalError      = "internal_error"
)

// ErrorKind maps an engine error to its stable identifier.
func ErrorKind(err error) string {
	var schema *SchemaError
	switch {
	case errors.Is(err, ErrInvalidEncoding):
		return KindDecodingError
	case errors.Is(err, ErrMalformedDocument):
		return KindMalformedDocument
	case errors.Is(err, ErrDepthLimit):
		return KindDepthLimitExceeded
	case errors.As(err, &schema):
		return KindSchemaViolation
	default:
		return KindInternalError
	}
}
