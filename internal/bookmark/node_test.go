package bookmark

import (
	"testing"
)

func sampleTree() *Node {
	return NewFolder("",
		NewLink("Go", "https://go.dev"),
		NewFolder("Work",
			NewLink("CI", "https://ci.example.com"),
			NewFolder("Docs",
				NewLink("Wiki", "https://wiki.example.com"),
			),
		),
		NewLink("News", "https://news.example.com"),
	)
}

func TestWalkPreOrder(t *testing.T) {
	root := sampleTree()

	var titles []string
	for n := range root.Walk() {
		titles = append(titles, n.Title)
	}

	want := []string{"", "Go", "Work", "CI", "Docs", "Wiki", "News"}
	if len(titles) != len(want) {
		t.Fatalf("walked %d nodes, want %d (%v)", len(titles), len(want), titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, titles[i], want[i])
		}
	}
}

func TestWalkEarlyStop(t *testing.T) {
	root := sampleTree()

	count := 0
	for range root.Walk() {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("visited %d nodes after break, want 3", count)
	}
}

func TestFind(t *testing.T) {
	root := sampleTree()

	n, ok := root.Find(func(n *Node) bool { return n.Title == "Wiki" })
	if !ok {
		t.Fatal("Find did not locate existing node")
	}
	if n.URL != "https://wiki.example.com" {
		t.Errorf("URL = %q, want wiki URL", n.URL)
	}

	if _, ok := root.Find(func(n *Node) bool { return n.Title == "missing" }); ok {
		t.Error("Find located a node that does not exist")
	}
}

func TestSetExtra(t *testing.T) {
	n := NewLink("x", "https://x.test")

	if !n.SetExtra("shortcuturl", "x") {
		t.Fatal("SetExtra refused a regular key")
	}
	if !n.SetExtra("tags", "dev") {
		t.Fatal("SetExtra refused a regular key")
	}
	// Updating an existing key keeps its position.
	if !n.SetExtra("shortcuturl", "y") {
		t.Fatal("SetExtra refused an update")
	}

	if len(n.Extra) != 2 {
		t.Fatalf("Extra has %d entries, want 2", len(n.Extra))
	}
	if n.Extra[0].Key != "shortcuturl" || n.Extra[0].Value != "y" {
		t.Errorf("Extra[0] = %+v, want updated shortcuturl first", n.Extra[0])
	}

	for _, reserved := range []string{"href", "type", "children", "addDate", "add_date"} {
		if n.SetExtra(reserved, "v") {
			t.Errorf("SetExtra accepted reserved key %q", reserved)
		}
	}

	// HTML attribute names are case-insensitive and the HTML serializer
	// upper-cases opaque keys, so case variants of reserved keys must be
	// refused too or they would resurface as duplicate attributes.
	for _, reserved := range []string{
		"HREF", "Href", "Url", "URL", "TYPE", "ADD_DATE",
		"LastModified", "LAST_MODIFIED", "Icon", "PERSONAL_TOOLBAR_FOLDER",
	} {
		if n.SetExtra(reserved, "v") {
			t.Errorf("SetExtra accepted reserved key spelling %q", reserved)
		}
	}
	if len(n.Extra) != 2 {
		t.Errorf("Extra grew to %d entries after refused keys", len(n.Extra))
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Node
		want bool
	}{
		{
			name: "identical trees",
			a:    sampleTree(),
			b:    sampleTree(),
			want: true,
		},
		{
			name: "different child order",
			a:    NewFolder("", NewLink("a", "u1"), NewLink("b", "u2")),
			b:    NewFolder("", NewLink("b", "u2"), NewLink("a", "u1")),
			want: false,
		},
		{
			name: "absent timestamp vs zero",
			a:    &Node{Kind: KindLink, URL: "u"},
			b:    &Node{Kind: KindLink, URL: "u", AddDate: Epoch(0)},
			want: false,
		},
		{
			name: "same timestamps",
			a:    &Node{Kind: KindLink, URL: "u", AddDate: Epoch(1700000000)},
			b:    &Node{Kind: KindLink, URL: "u", AddDate: Epoch(1700000000)},
			want: true,
		},
		{
			name: "toolbar flag differs",
			a:    &Node{Kind: KindFolder, Toolbar: true, Children: []*Node{}},
			b:    &Node{Kind: KindFolder, Children: []*Node{}},
			want: false,
		},
		{
			name: "extra order matters",
			a: &Node{Kind: KindLink, URL: "u", Extra: []Attr{
				{Key: "a", Value: "1"}, {Key: "b", Value: "2"},
			}},
			b: &Node{Kind: KindLink, URL: "u", Extra: []Attr{
				{Key: "b", Value: "2"}, {Key: "a", Value: "1"},
			}},
			want: false,
		},
		{
			name: "nil vs nil",
			a:    nil,
			b:    nil,
			want: true,
		},
		{
			name: "nil vs node",
			a:    nil,
			b:    NewFolder(""),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid encoding", ErrInvalidEncoding, KindDecodingError},
		{"malformed document", ErrMalformedDocument, KindMalformedDocument},
		{"depth limit", ErrDepthLimit, KindDepthLimitExceeded},
		{"schema violation", &SchemaError{Path: []int{0, 2}, Reason: "x"}, KindSchemaViolation},
		{"anything else", errEmpty{}, KindInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind = %q, want %q", got, tt.want)
			}
		})
	}
}

type errEmpty struct{}

func (errEmpty) Error() string { return "boom" }

func TestPathLocator(t *testing.T) {
	if got := PathLocator(nil); got != "/" {
		t.Errorf("PathLocator(nil) = %q, want /", got)
	}
	if got := PathLocator([]int{0, 2, 5}); got != "/0/2/5" {
		t.Errorf("PathLocator = %q, want /0/2/5", got)
	}
}
