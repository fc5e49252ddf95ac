package bookjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

// Parser reads the JSON bookmark representation into a tree.
//
// It walks the decoder token stream instead of unmarshaling into maps: the
// opaque attribute mapping keeps document order, and map-based unmarshaling
// would scramble it.
type Parser struct {
	// MaxDepth bounds folder nesting. Zero means bookmark.DefaultMaxDepth.
	MaxDepth int
}

func NewParser() *Parser {
	return &Parser{MaxDepth: bookmark.DefaultMaxDepth}
}

// Parse builds a tree from the JSON representation. Shape violations (a node
// that is not an object, a missing or unrecognized type, a link without url,
// a folder without children, a non-folder root) are fatal and carry a
// child-index path to the offending node. A link whose url is present but
// empty is dropped with a warning, mirroring the HTML parser's treatment of
// anchors without an HREF. Unknown scalar fields on a link are preserved
// into the opaque mapping in document order.
func (p *Parser) Parse(data []byte) (*bookmark.Node, []bookmark.Warning, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = bookmark.DefaultMaxDepth
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var warnings []bookmark.Warning
	root, err := decodeNode(dec, nil, maxDepth, &warnings)
	if err != nil {
		return nil, nil, err
	}
	if !root.IsFolder() {
		return nil, nil, schemaErr(nil, "root node must be a folder")
	}
	return root, warnings, nil
}

func schemaErr(path []int, format string, args ...any) *bookmark.SchemaError {
	return &bookmark.SchemaError{Path: slices.Clone(path), Reason: fmt.Sprintf(format, args...)}
}

func decodeNode(dec *json.Decoder, path []int, depthLeft int, warnings *[]bookmark.Warning) (*bookmark.Node, error) {
	if depthLeft <= 0 {
		return nil, bookmark.ErrDepthLimit
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, schemaErr(path, "invalid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, schemaErr(path, "node must be a JSON object")
	}

	var (
		n           = &bookmark.Node{}
		typ         string
		sawType     bool
		sawURL      bool
		sawChildren bool
	)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, schemaErr(path, "invalid JSON: %v", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, schemaErr(path, "invalid JSON object key")
		}

		switch key {
		case "type":
			typ, err = decodeString(dec, path, key)
			if err != nil {
				return nil, err
			}
			sawType = true
		case "title":
			n.Title, err = decodeNullableString(dec, path, key)
			if err != nil {
				return nil, err
			}
		case "url":
			n.URL, err = decodeString(dec, path, key)
			if err != nil {
				return nil, err
			}
			sawURL = true
		case "addDate":
			n.AddDate, err = decodeEpoch(dec, path, key, warnings)
			if err != nil {
				return nil, err
			}
		case "lastModified":
			n.LastModified, err = decodeEpoch(dec, path, key, warnings)
			if err != nil {
				return nil, err
			}
		case "icon":
			n.Icon, err = decodeNullableString(dec, path, key)
			if err != nil {
				return nil, err
			}
		case "personalToolbarFolder":
			tok, err := dec.Token()
			if err != nil {
				return nil, schemaErr(path, "invalid JSON: %v", err)
			}
			v, ok := tok.(bool)
			if !ok && tok != nil {
				warn(warnings, path, "personalToolbarFolder must be a boolean, ignored")
			}
			n.Toolbar = ok && v
		case "children":
			sawChildren = true
			n.Children, err = decodeChildren(dec, path, depthLeft, warnings)
			if err != nil {
				return nil, err
			}
		default:
			if err := decodeExtra(dec, n, key, path, warnings); err != nil {
				return nil, err
			}
		}
	}

	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, schemaErr(path, "invalid JSON: %v", err)
	}

	if !sawType {
		return nil, schemaErr(path, "node missing type")
	}
	switch typ {
	case "folder":
		n.Kind = bookmark.KindFolder
		if !sawChildren {
			return nil, schemaErr(path, "folder node missing children")
		}
		// The opaque mapping belongs to links only.
		n.Extra = nil
	case "link":
		n.Kind = bookmark.KindLink
		if !sawURL {
			return nil, schemaErr(path, "link node missing url")
		}
	default:
		return nil, schemaErr(path, "unrecognized node type %q", typ)
	}
	return n, nil
}

func decodeChildren(dec *json.Decoder, path []int, depthLeft int, warnings *[]bookmark.Warning) ([]*bookmark.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, schemaErr(path, "invalid JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, schemaErr(path, "children must be an array")
	}

	children := []*bookmark.Node{}
	idx := 0
	for dec.More() {
		child, err := decodeNode(dec, append(path, idx), depthLeft-1, warnings)
		if err != nil {
			return nil, err
		}
		// Same policy as the HTML side: a link with no usable URL cannot
		// round-trip and is dropped, never silently kept.
		if !child.IsFolder() && child.URL == "" {
			warn(warnings, append(path, idx), fmt.Sprintf("link %q has an empty url, dropped", child.Title))
		} else {
			children = append(children, child)
		}
		idx++
	}
	if _, err := dec.Token(); err != nil { // closing ']'
		return nil, schemaErr(path, "invalid JSON: %v", err)
	}
	return children, nil
}

func decodeString(dec *json.Decoder, path []int, key string) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", schemaErr(path, "invalid JSON: %v", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", schemaErr(path, "%s must be a string", key)
	}
	return s, nil
}

func decodeNullableString(dec *json.Decoder, path []int, key string) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", schemaErr(path, "invalid JSON: %v", err)
	}
	switch s := tok.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", schemaErr(path, "%s must be a string or null", key)
	}
}

// decodeEpoch reads a Unix timestamp field. Null means absent; unparseable
// or negative values degrade to a warning, never a fatal error.
func decodeEpoch(dec *json.Decoder, path []int, key string, warnings *[]bookmark.Warning) (*int64, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, schemaErr(path, "invalid JSON: %v", err)
	}
	switch v := tok.(type) {
	case nil:
		return nil, nil
	case json.Number:
		n, err := strconv.ParseInt(v.String(), 10, 64)
		if err != nil || n < 0 {
			warn(warnings, path, fmt.Sprintf("unparseable %s %q, ignored", key, v.String()))
			return nil, nil
		}
		return &n, nil
	default:
		warn(warnings, path, fmt.Sprintf("%s must be a number, ignored", key))
		return nil, nil
	}
}

// decodeExtra preserves an unknown field into the opaque mapping. Scalar
// values are stringified; composite values cannot live in a string-to-string
// mapping and degrade to a warning. Keys that alias a typed field under the
// case-insensitive attribute rules of the HTML format are refused with a
// warning so they cannot reappear as duplicate attributes downstream.
func decodeExtra(dec *json.Decoder, n *bookmark.Node, key string, path []int, warnings *[]bookmark.Warning) error {
	tok, err := dec.Token()
	if err != nil {
		return schemaErr(path, "invalid JSON: %v", err)
	}
	store := func(v string) {
		if !n.SetExtra(key, v) {
			warn(warnings, path, fmt.Sprintf("field %q collides with a typed field, dropped", key))
		}
	}
	switch v := tok.(type) {
	case string:
		store(v)
	case json.Number:
		store(v.String())
	case bool:
		store(strconv.FormatBool(v))
	case nil:
		// Null is the absent value, nothing to preserve.
	case json.Delim:
		if err := skipValue(dec); err != nil {
			return schemaErr(path, "invalid JSON: %v", err)
		}
		warn(warnings, path, fmt.Sprintf("field %q has a non-scalar value, dropped", key))
	}
	return nil
}

// skipValue consumes the remainder of a composite value whose opening delim
// was already read.
func skipValue(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

func warn(warnings *[]bookmark.Warning, path []int, msg string) {
	*warnings = append(*warnings, bookmark.Warning{
		Path:    bookmark.PathLocator(path),
		Message: msg,
	})
}
