package netscape

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

// Parser reads Netscape bookmark HTML into a bookmark tree.
//
// The format is tag soup: <DT> is never closed, folder nesting is implied by
// <DL> nesting and browsers disagree on the details. The parser therefore
// walks the token stream with a folder stack instead of building a DOM; only
// H1, H3, A and DL carry meaning, everything else is skipped.
type Parser struct {
	// MaxDepth bounds folder nesting. Zero means bookmark.DefaultMaxDepth.
	MaxDepth int
}

func NewParser() *Parser {
	return &Parser{MaxDepth: bookmark.DefaultMaxDepth}
}

// textTarget identifies which element the text buffer belongs to.
type textTarget int

const (
	textNone    textTarget = iota
	textHeading            // <h1>, the root folder title
	textFolder             // <h3>
	textLink               // <a>
)

type parseState struct {
	root       *bookmark.Node
	stack      []*bookmark.Node // one entry per open <dl>
	pending    *bookmark.Node   // folder whose <dl> has not opened yet
	link       *bookmark.Node   // anchor whose text is being collected
	linkHref   bool             // anchor carried an HREF attribute
	text       strings.Builder
	target     textTarget
	sawList    bool
	sawHeading bool
	rootList   bool
	warnings   []bookmark.Warning
}

func (st *parseState) current() *bookmark.Node {
	if len(st.stack) == 0 {
		return st.root
	}
	return st.stack[len(st.stack)-1]
}

// path renders the current folder position for warning messages.
func (st *parseState) path() string {
	if len(st.stack) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, n := range st.stack {
		b.WriteString("/")
		b.WriteString(n.Title)
	}
	return b.String()
}

func (st *parseState) warnf(format string, args ...any) {
	st.warnings = append(st.warnings, bookmark.Warning{
		Path:    st.path(),
		Message: fmt.Sprintf(format, args...),
	})
}

// commitText closes whichever element was collecting text. Anchors are
// finalized here: a link without an HREF degrades to a warning and is
// dropped, it never aborts the document.
func (st *parseState) commitText() {
	text := strings.TrimSpace(st.text.String())
	switch st.target {
	case textHeading:
		st.root.Title = text
	case textFolder:
		if st.pending != nil {
			st.pending.Title = text
		}
	case textLink:
		link := st.link
		st.link = nil
		if link != nil {
			link.Title = text
			if !st.linkHref || link.URL == "" {
				st.warnf("link %q has no HREF, dropped", text)
			} else {
				cur := st.current()
				cur.Children = append(cur.Children, link)
			}
		}
	}
	st.text.Reset()
	st.target = textNone
}

// flushPending attaches a folder whose child list never opened. Some
// exporters omit the <DL> for empty folders.
func (st *parseState) flushPending() {
	if st.pending == nil {
		return
	}
	cur := st.current()
	cur.Children = append(cur.Children, st.pending)
	st.pending = nil
}

// Parse builds a tree from raw bookmark HTML. Input must already be UTF-8.
// It fails only when no list structure exists at all, when nesting exceeds
// MaxDepth, or when the underlying reader errors; irregular but recognizable
// structure is parsed best-effort with warnings.
func (p *Parser) Parse(input string) (*bookmark.Node, []bookmark.Warning, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = bookmark.DefaultMaxDepth
	}

	st := &parseState{root: &bookmark.Node{Kind: bookmark.KindFolder}}
	z := html.NewTokenizer(strings.NewReader(input))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() == io.EOF {
				break
			}
			return nil, nil, fmt.Errorf("tokenize bookmark HTML: %w", z.Err())
		}

		switch tt {
		case html.TextToken:
			if st.target != textNone {
				st.text.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "h1":
				st.commitText()
				st.flushPending()
				st.target = textHeading
				st.sawHeading = true
			case "h3":
				st.commitText()
				st.flushPending()
				st.pending = parseFolderAttrs(z, hasAttr, st)
				st.target = textFolder
			case "a":
				st.commitText()
				st.flushPending()
				st.link, st.linkHref = parseLinkAttrs(z, hasAttr, st)
				st.target = textLink
			case "dl":
				st.commitText()
				switch {
				case st.pending != nil:
					cur := st.current()
					cur.Children = append(cur.Children, st.pending)
					st.stack = append(st.stack, st.pending)
					st.pending = nil
				case !st.rootList:
					// The outermost list holds the root's children.
					st.rootList = true
				default:
					// Stray list without a heading: keep filing into
					// the current folder.
					st.stack = append(st.stack, st.current())
				}
				st.sawList = true
				if len(st.stack) > maxDepth {
					return nil, nil, bookmark.ErrDepthLimit
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "h1", "h3", "a":
				st.commitText()
			case "dl":
				st.commitText()
				st.flushPending()
				if len(st.stack) > 0 {
					st.stack = st.stack[:len(st.stack)-1]
				}
			}
		}
	}

	st.commitText()
	st.flushPending()

	if !st.sawList {
		return nil, nil, bookmark.ErrMalformedDocument
	}

	// A headingless document whose outer list holds a single folder is that
	// folder: browsers always emit an H1 for the root, so its absence means
	// the outer list was only a wrapper.
	if !st.sawHeading && st.root.Title == "" &&
		len(st.root.Children) == 1 && st.root.Children[0].IsFolder() {
		st.root = st.root.Children[0]
	}
	return st.root, st.warnings, nil
}

func parseFolderAttrs(z *html.Tokenizer, hasAttr bool, st *parseState) *bookmark.Node {
	f := &bookmark.Node{Kind: bookmark.KindFolder}
	for hasAttr {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "add_date":
			f.AddDate = parseEpoch(string(val), "ADD_DATE", st)
		case "last_modified":
			f.LastModified = parseEpoch(string(val), "LAST_MODIFIED", st)
		case "personal_toolbar_folder":
			f.Toolbar = strings.EqualFold(string(val), "true")
		}
		hasAttr = more
	}
	return f
}

func parseLinkAttrs(z *html.Tokenizer, hasAttr bool, st *parseState) (*bookmark.Node, bool) {
	link := &bookmark.Node{Kind: bookmark.KindLink}
	hasHref := false
	for hasAttr {
		key, val, more := z.TagAttr()
		k, v := string(key), string(val)
		switch k {
		case "href":
			link.URL = v
			hasHref = true
		case "add_date":
			link.AddDate = parseEpoch(v, "ADD_DATE", st)
		case "last_modified":
			link.LastModified = parseEpoch(v, "LAST_MODIFIED", st)
		case "icon":
			link.Icon = v
		default:
			if !link.SetExtra(k, v) {
				st.warnf("attribute %q collides with a typed field, dropped", k)
			}
		}
		hasAttr = more
	}
	return link, hasHref
}

// parseEpoch reads a Unix timestamp attribute. Bad values degrade to a
// warning and the field stays absent.
func parseEpoch(raw, attr string, st *parseState) *int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		st.warnf("unparseable %s %q, ignored", attr, raw)
		return nil
	}
	return &n
}
