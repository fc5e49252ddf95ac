package netscape

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

const fileHeader = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
`

// Serialize renders a bookmark tree as a Netscape bookmark file. Output is
// deterministic: attributes follow a fixed order (folders: ADD_DATE,
// LAST_MODIFIED, PERSONAL_TOOLBAR_FOLDER; links: HREF, ADD_DATE,
// LAST_MODIFIED, ICON, then opaque attributes in insertion order), so
// serializing the same tree twice
// yields identical bytes. Titles and URLs are escaped for the five
// markup-unsafe characters.
func Serialize(root *bookmark.Node) []byte {
	var b strings.Builder
	heading := root.Title
	if heading == "" {
		heading = "Bookmarks"
	}
	b.WriteString(fileHeader)
	fmt.Fprintf(&b, "<H1>%s</H1>\n", html.EscapeString(heading))
	b.WriteString("<DL><p>\n")
	for _, child := range root.Children {
		writeNode(&b, child, 1)
	}
	b.WriteString("</DL><p>\n")
	return []byte(b.String())
}

func writeNode(b *strings.Builder, n *bookmark.Node, depth int) {
	indent := strings.Repeat("    ", depth)

	if n.IsFolder() {
		b.WriteString(indent)
		b.WriteString("<DT><H3")
		writeEpochAttr(b, "ADD_DATE", n.AddDate)
		writeEpochAttr(b, "LAST_MODIFIED", n.LastModified)
		if n.Toolbar {
			b.WriteString(` PERSONAL_TOOLBAR_FOLDER="true"`)
		}
		fmt.Fprintf(b, ">%s</H3>\n", html.EscapeString(n.Title))
		b.WriteString(indent)
		b.WriteString("<DL><p>\n")
		for _, child := range n.Children {
			writeNode(b, child, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("</DL><p>\n")
		return
	}

	// An empty URL is serialized as an empty HREF: fidelity, not
	// validation, at this layer.
	b.WriteString(indent)
	fmt.Fprintf(b, `<DT><A HREF="%s"`, html.EscapeString(n.URL))
	writeEpochAttr(b, "ADD_DATE", n.AddDate)
	writeEpochAttr(b, "LAST_MODIFIED", n.LastModified)
	if n.Icon != "" {
		fmt.Fprintf(b, ` ICON="%s"`, html.EscapeString(n.Icon))
	}
	for _, attr := range n.Extra {
		fmt.Fprintf(b, ` %s="%s"`, strings.ToUpper(attr.Key), html.EscapeString(attr.Value))
	}
	fmt.Fprintf(b, ">%s</A>\n", html.EscapeString(n.Title))
}

func writeEpochAttr(b *strings.Builder, name string, v *int64) {
	if v == nil {
		return
	}
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(strconv.FormatInt(*v, 10))
	b.WriteString(`"`)
}
