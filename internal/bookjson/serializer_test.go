package bookjson

import (
	"bytes"
	"strings"
	"testing"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

func testTree() *bookmark.Node {
	link := &bookmark.Node{
		Kind:    bookmark.KindLink,
		Title:   "Go",
		URL:     "https://go.dev/?a=1&b=2",
		AddDate: bookmark.Epoch(1700000200),
	}
	link.SetExtra("shortcuturl", "go")

	bar := bookmark.NewFolder("Bookmarks bar", link)
	bar.Toolbar = true
	bar.AddDate = bookmark.Epoch(1700000000)

	return bookmark.NewFolder("Bookmarks", bar, bookmark.NewFolder("Empty"))
}

func TestSerializeGolden(t *testing.T) {
	want := `{
  "type": "folder",
  "title": "Bookmarks",
  "children": [
    {
      "type": "folder",
      "title": "Bookmarks bar",
      "addDate": 1700000000,
      "personalToolbarFolder": true,
      "children": [
        {
          "type": "link",
          "title": "Go",
          "url": "https://go.dev/?a=1&b=2",
          "addDate": 1700000200,
          "shortcuturl": "go"
        }
      ]
    },
    {
      "type": "folder",
      "title": "Empty",
      "children": []
    }
  ]
}
`

	got := string(Serialize(testTree()))
	if got != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSerializeDeterministic(t *testing.T) {
	tree := testTree()
	if !bytes.Equal(Serialize(tree), Serialize(tree)) {
		t.Error("repeated serialization of the same tree differs")
	}
}

func TestSerializeOmitsAbsentFields(t *testing.T) {
	root := bookmark.NewFolder("", bookmark.NewLink("A", "https://a.test"))

	out := string(Serialize(root))
	for _, field := range []string{"addDate", "lastModified", "icon", "personalToolbarFolder", "null"} {
		if strings.Contains(out, field) {
			t.Errorf("absent field %q should be omitted:\n%s", field, out)
		}
	}
}

func TestSerializeNoHTMLEscaping(t *testing.T) {
	root := bookmark.NewFolder("", bookmark.NewLink("a < b", "https://a.test/?x=1&y=2"))

	out := string(Serialize(root))
	if strings.Contains(out, "\\u0026") || strings.Contains(out, "\\u003c") {
		t.Errorf("output uses HTML-safe escaping:\n%s", out)
	}
	if !strings.Contains(out, "https://a.test/?x=1&y=2") {
		t.Errorf("URL not rendered verbatim:\n%s", out)
	}
	if !strings.Contains(out, "a < b") {
		t.Errorf("title not rendered verbatim:\n%s", out)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	tree := testTree()

	first := Serialize(tree)
	parsed, warnings, err := NewParser().Parse(first)
	if err != nil {
		t.Fatalf("round trip parse failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("round trip produced warnings: %v", warnings)
	}
	if !bookmark.Equal(tree, parsed) {
		t.Error("round trip did not preserve the tree")
	}

	// Parse then serialize again: byte-stable.
	second := Serialize(parsed)
	if !bytes.Equal(first, second) {
		t.Errorf("second pass differs\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}
