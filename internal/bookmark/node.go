package bookmark

import (
	"iter"
	"strings"
)

// Kind distinguishes the two node variants of a bookmark tree.
type Kind uint8

const (
	KindFolder Kind = iota
	KindLink
)

// DefaultMaxDepth bounds folder nesting during parsing. Real browser exports
// rarely nest more than a dozen levels; anything past this is corrupt or
// adversarial input.
const DefaultMaxDepth = 128

// Attr is one opaque attribute carried by a link. Attributes keep their
// insertion order so unknown vendor data survives a round trip byte-stably.
type Attr struct {
	Key   string
	Value string
}

// Node is the universal tree entity. A folder carries Children (order is
// display order); a link carries URL, Icon and Extra. Timestamps are Unix
// epoch seconds; nil means the source carried no value, which is distinct
// from zero and must round-trip as absence.
type Node struct {
	Kind         Kind
	Title        string
	URL          string
	AddDate      *int64
	LastModified *int64
	Icon         string
	Toolbar      bool // PERSONAL_TOOLBAR_FOLDER / bookmarks bar marker
	Extra        []Attr
	Children     []*Node
}

// NewFolder builds a folder node.
func NewFolder(title string, children ...*Node) *Node {
	return &Node{Kind: KindFolder, Title: title, Children: children}
}

// NewLink builds a link node.
func NewLink(title, url string) *Node {
	return &Node{Kind: KindLink, Title: title, URL: url}
}

func (n *Node) IsFolder() bool { return n.Kind == KindFolder }

// ExtraValue looks up an opaque attribute by key.
func (n *Node) ExtraValue(key string) (string, bool) {
	for _, a := range n.Extra {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetExtra records an opaque attribute. An existing key keeps its original
// insertion position; reserved keys (those modeled as typed fields in either
// wire format) are refused so the typed invariants stay enforceable.
func (n *Node) SetExtra(key, value string) bool {
	if ReservedExtraKey(key) {
		return false
	}
	for i := range n.Extra {
		if n.Extra[i].Key == key {
			n.Extra[i].Value = value
			return true
		}
	}
	n.Extra = append(n.Extra, Attr{Key: key, Value: value})
	return true
}

// ReservedExtraKey reports whether key would collide with a typed field in
// the HTML or JSON wire format. Parsers route such attributes into the typed
// fields (or drop them with a warning) instead of the opaque mapping. The
// check is case-insensitive: HTML attribute names are, and the serializer
// upper-cases opaque keys, so "HREF" and "href" are the same attribute on
// the wire.
func ReservedExtraKey(key string) bool {
	switch strings.ToLower(key) {
	case "type", "title", "url", "icon", "children",
		"adddate", "lastmodified", "personaltoolbarfolder",
		"href", "add_date", "last_modified", "personal_toolbar_folder":
		return true
	}
	return false
}

// Walk returns a lazy pre-order traversal: a folder is yielded before its
// children. The sequence is restartable.
func (n *Node) Walk() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.walk(yield)
	}
}

func (n *Node) walk(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, child := range n.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Find returns the first node in pre-order for which pred is true.
func (n *Node) Find(pred func(*Node) bool) (*Node, bool) {
	for node := range n.Walk() {
		if pred(node) {
			return node, true
		}
	}
	return nil, false
}

// Equal reports structural equality: kind, titles, URLs, timestamps (absence
// distinct from zero), flags, opaque attributes and child order all match.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || a.Title != b.Title || a.URL != b.URL ||
		a.Icon != b.Icon || a.Toolbar != b.Toolbar {
		return false
	}
	if !epochEqual(a.AddDate, b.AddDate) || !epochEqual(a.LastModified, b.LastModified) {
		return false
	}
	if len(a.Extra) != len(b.Extra) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Extra {
		if a.Extra[i] != b.Extra[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

func epochEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Epoch is a convenience for building trees with literal timestamps.
func Epoch(v int64) *int64 { return &v }
