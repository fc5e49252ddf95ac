// Package convert is the single entry point of the conversion engine: it
// pairs a parser with a serializer, enforces the UTF-8 precondition and
// carries per-entry warnings through to the caller.
package convert

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookjson"
	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
	"github.com/DiasPedroQA/bookmark-converter/internal/netscape"
)

// Format identifies a wire representation.
type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// ContentType returns the MIME type served for a format.
func (f Format) ContentType() string {
	if f == FormatHTML {
		return "text/html; charset=utf-8"
	}
	return "application/json; charset=utf-8"
}

// Converter performs stateless conversions. One Convert call builds one tree
// and discards it; the zero shared state makes a single Converter safe for
// concurrent use across requests.
type Converter struct {
	maxDepth int
}

// New builds a Converter. A non-positive maxDepth selects
// bookmark.DefaultMaxDepth.
func New(maxDepth int) *Converter {
	if maxDepth <= 0 {
		maxDepth = bookmark.DefaultMaxDepth
	}
	return &Converter{maxDepth: maxDepth}
}

// Convert parses data in the source format and renders it in the target
// format. Fatal errors (bad encoding, no recognizable structure, schema
// violations, depth limit) abort and propagate unchanged; per-entry problems
// accumulate as warnings and never abort. An empty warning slice is the
// success case, not absence of output.
func (c *Converter) Convert(data []byte, from, to Format) ([]byte, []bookmark.Warning, error) {
	if !utf8.Valid(data) {
		return nil, nil, bookmark.ErrInvalidEncoding
	}

	root, warnings, err := c.Parse(data, from)
	if err != nil {
		return nil, nil, err
	}

	out, err := c.Serialize(root, to)
	if err != nil {
		return nil, nil, err
	}
	if warnings == nil {
		warnings = []bookmark.Warning{}
	}
	return out, warnings, nil
}

// Parse dispatches to the parser matching the source format.
func (c *Converter) Parse(data []byte, from Format) (*bookmark.Node, []bookmark.Warning, error) {
	switch from {
	case FormatHTML:
		p := netscape.NewParser()
		p.MaxDepth = c.maxDepth
		return p.Parse(string(data))
	case FormatJSON:
		p := bookjson.NewParser()
		p.MaxDepth = c.maxDepth
		return p.Parse(data)
	}
	return nil, nil, fmt.Errorf("unsupported source format %q", from)
}

// Serialize dispatches to the serializer matching the target format.
func (c *Converter) Serialize(root *bookmark.Node, to Format) ([]byte, error) {
	switch to {
	case FormatHTML:
		return netscape.Serialize(root), nil
	case FormatJSON:
		return bookjson.Serialize(root), nil
	}
	return nil, fmt.Errorf("unsupported target format %q", to)
}
