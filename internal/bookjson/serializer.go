package bookjson

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

// Serialize renders a bookmark tree as pretty-printed JSON with two-space
// indentation and a stable field order (type, title, url, addDate,
// lastModified, personalToolbarFolder, icon, opaque fields in insertion
// order, children last), so repeated serialization of the same tree is
// byte-identical. Absent optional fields are omitted. Output ends with a
// newline.
func Serialize(root *bookmark.Node) []byte {
	var b bytes.Buffer
	writeNode(&b, root, 0)
	b.WriteByte('\n')
	return b.Bytes()
}

func writeNode(b *bytes.Buffer, n *bookmark.Node, depth int) {
	ind := strings.Repeat("  ", depth)
	inner := ind + "  "

	b.WriteString("{\n")
	first := true
	field := func(key, rendered string) {
		if !first {
			b.WriteString(",\n")
		}
		first = false
		b.WriteString(inner)
		b.WriteString(quote(key))
		b.WriteString(": ")
		b.WriteString(rendered)
	}

	if n.IsFolder() {
		field("type", `"folder"`)
		field("title", quote(n.Title))
		if n.AddDate != nil {
			field("addDate", strconv.FormatInt(*n.AddDate, 10))
		}
		if n.LastModified != nil {
			field("lastModified", strconv.FormatInt(*n.LastModified, 10))
		}
		if n.Toolbar {
			field("personalToolbarFolder", "true")
		}
		if len(n.Children) == 0 {
			field("children", "[]")
		} else {
			if !first {
				b.WriteString(",\n")
			}
			first = false
			b.WriteString(inner)
			b.WriteString("\"children\": [\n")
			for i, child := range n.Children {
				b.WriteString(inner + "  ")
				writeNode(b, child, depth+2)
				if i < len(n.Children)-1 {
					b.WriteString(",")
				}
				b.WriteString("\n")
			}
			b.WriteString(inner)
			b.WriteString("]")
		}
	} else {
		field("type", `"link"`)
		field("title", quote(n.Title))
		field("url", quote(n.URL))
		if n.AddDate != nil {
			field("addDate", strconv.FormatInt(*n.AddDate, 10))
		}
		if n.LastModified != nil {
			field("lastModified", strconv.FormatInt(*n.LastModified, 10))
		}
		if n.Icon != "" {
			field("icon", quote(n.Icon))
		}
		for _, attr := range n.Extra {
			field(attr.Key, quote(attr.Value))
		}
	}

	b.WriteString("\n")
	b.WriteString(ind)
	b.WriteString("}")
}

// quote JSON-encodes a string without the default HTML escaping, keeping
// titles and URLs readable in the output.
func quote(s string) string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimRight(b.String(), "\n")
}
