package bookjson

import (
	"errors"
	"strings"
	"testing"

	"github.com/DiasPedroQA/bookmark-converter/internal/bookmark"
)

func TestParseDocument(t *testing.T) {
	input := `{
  "type": "folder",
  "title": "Bookmarks",
  "children": [
    {
      "type": "folder",
      "title": "Bookmarks bar",
      "addDate": 1700000000,
      "lastModified": 1700000100,
      "personalToolbarFolder": true,
      "children": [
        {"type": "link", "title": "Go", "url": "https://go.dev/", "addDate": 1700000200, "icon": "data:image/png;base64,AAAA"}
      ]
    },
    {"type": "link", "title": "News", "url": "https://news.example.com/"}
  ]
}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if root.Title != "Bookmarks" || len(root.Children) != 2 {
		t.Fatalf("root = %+v", root)
	}

	bar := root.Children[0]
	if !bar.IsFolder() || !bar.Toolbar {
		t.Errorf("toolbar folder = %+v", bar)
	}
	if bar.AddDate == nil || *bar.AddDate != 1700000000 {
		t.Errorf("AddDate = %v", bar.AddDate)
	}
	if bar.LastModified == nil || *bar.LastModified != 1700000100 {
		t.Errorf("LastModified = %v", bar.LastModified)
	}

	goLink := bar.Children[0]
	if goLink.URL != "https://go.dev/" || goLink.Icon != "data:image/png;base64,AAAA" {
		t.Errorf("link = %+v", goLink)
	}
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
	}{
		{
			name:     "root is not an object",
			input:    `[1, 2]`,
			wantPath: "/",
		},
		{
			name:     "root is not a folder",
			input:    `{"type": "link", "title": "x", "url": "https://x.test"}`,
			wantPath: "/",
		},
		{
			name:     "missing type",
			input:    `{"title": "x", "children": []}`,
			wantPath: "/",
		},
		{
			name:     "unrecognized type",
			input:    `{"type": "separator", "children": []}`,
			wantPath: "/",
		},
		{
			name:     "folder missing children",
			input:    `{"type": "folder", "title": "x"}`,
			wantPath: "/",
		},
		{
			name:     "link missing url",
			input:    `{"type": "folder", "children": [{"type": "link", "title": "x"}]}`,
			wantPath: "/0",
		},
		{
			name:     "root link missing url",
			input:    `{"type": "link", "title": "X"}`,
			wantPath: "/",
		},
		{
			name: "violation in a nested child",
			input: `{"type": "folder", "children": [
				{"type": "link", "title": "ok", "url": "https://ok.test"},
				{"type": "folder", "children": [
					{"type": "link", "title": "a", "url": "https://a.test"},
					{"type": "nope"}
				]}
			]}`,
			wantPath: "/1/1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewParser().Parse([]byte(tt.input))

			var schema *bookmark.SchemaError
			if !errors.As(err, &schema) {
				t.Fatalf("err = %v, want SchemaError", err)
			}
			if got := bookmark.PathLocator(schema.Path); got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}
		})
	}
}

func TestParseOpaqueFieldOrder(t *testing.T) {
	input := `{"type": "folder", "children": [
		{"type": "link", "url": "https://a.test", "zeta": "1", "alpha": "2", "mid": "3"}
	]}`

	root, _, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	want := []bookmark.Attr{
		{Key: "zeta", Value: "1"},
		{Key: "alpha", Value: "2"},
		{Key: "mid", Value: "3"},
	}
	got := root.Children[0].Extra
	if len(got) != len(want) {
		t.Fatalf("Extra = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extra[%d] = %+v, want %+v (document order lost)", i, got[i], want[i])
		}
	}
}

func TestParseOpaqueScalarCoercion(t *testing.T) {
	input := `{"type": "folder", "children": [
		{"type": "link", "url": "https://a.test", "count": 42, "flag": true, "gone": null}
	]}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	link := root.Children[0]
	if v, ok := link.ExtraValue("count"); !ok || v != "42" {
		t.Errorf("count = %q, %v", v, ok)
	}
	if v, ok := link.ExtraValue("flag"); !ok || v != "true" {
		t.Errorf("flag = %q, %v", v, ok)
	}
	if _, ok := link.ExtraValue("gone"); ok {
		t.Error("null field should not be preserved")
	}
}

func TestParseCompositeUnknownField(t *testing.T) {
	input := `{"type": "folder", "children": [
		{"type": "link", "url": "https://a.test", "meta": {"nested": [1, 2]}, "after": "kept"}
	]}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	link := root.Children[0]
	if _, ok := link.ExtraValue("meta"); ok {
		t.Error("composite value should be dropped")
	}
	if v, ok := link.ExtraValue("after"); !ok || v != "kept" {
		t.Error("fields after a skipped composite were lost")
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0].Message, "meta") {
		t.Errorf("warnings = %v, want one naming the dropped field", warnings)
	}
}

func TestParseNullAndBadTimestamps(t *testing.T) {
	input := `{"type": "folder", "addDate": null, "children": [
		{"type": "link", "url": "https://a.test", "addDate": -5},
		{"type": "link", "url": "https://b.test", "addDate": "soon"}
	]}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if root.AddDate != nil {
		t.Errorf("null addDate = %v, want nil", root.AddDate)
	}
	if root.Children[0].AddDate != nil || root.Children[1].AddDate != nil {
		t.Error("bad timestamps should stay absent")
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want 2", warnings)
	}
	// Null is a legitimate absent value, not a warning; only the two bad
	// children warn, each at its own path.
	if warnings[0].Path != "/0" || warnings[1].Path != "/1" {
		t.Errorf("warning paths = %q, %q", warnings[0].Path, warnings[1].Path)
	}
}

func TestParseDepthLimit(t *testing.T) {
	var b strings.Builder
	depth := 6
	for i := 0; i < depth; i++ {
		b.WriteString(`{"type": "folder", "children": [`)
	}
	b.WriteString(`{"type": "link", "url": "https://deep.test"}`)
	for i := 0; i < depth; i++ {
		b.WriteString(`]}`)
	}

	p := NewParser()
	p.MaxDepth = 4
	_, _, err := p.Parse([]byte(b.String()))
	if !errors.Is(err, bookmark.ErrDepthLimit) {
		t.Fatalf("err = %v, want ErrDepthLimit", err)
	}

	p.MaxDepth = 10
	if _, _, err := p.Parse([]byte(b.String())); err != nil {
		t.Errorf("err = %v with MaxDepth 10, want nil", err)
	}
}

func TestParseRefusesTypedFieldSpellings(t *testing.T) {
	// HTML attribute names are case-insensitive, so a field like "HREF"
	// would come back as a second href attribute after an HTML hop and
	// overwrite the real URL on re-parse. Such fields never reach the
	// opaque mapping.
	input := `{"type": "folder", "children": [
		{"type": "link", "title": "X", "url": "https://good.test", "HREF": "https://evil.test", "Url": "https://also.test"}
	]}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	link := root.Children[0]
	if link.URL != "https://good.test" {
		t.Errorf("url = %q, want the typed value", link.URL)
	}
	if len(link.Extra) != 0 {
		t.Errorf("Extra = %+v, want empty", link.Extra)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	for i, key := range []string{"HREF", "Url"} {
		if !strings.Contains(warnings[i].Message, key) {
			t.Errorf("warnings[%d] = %v, want one naming %q", i, warnings[i], key)
		}
		if warnings[i].Path != "/0" {
			t.Errorf("warnings[%d].Path = %q, want /0", i, warnings[i].Path)
		}
	}
}

func TestParseDropsEmptyURLLink(t *testing.T) {
	input := `{"type": "folder", "children": [
		{"type": "link", "title": "Hollow", "url": ""},
		{"type": "link", "title": "Solid", "url": "https://solid.test"}
	]}`

	root, warnings, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(root.Children) != 1 || root.Children[0].Title != "Solid" {
		t.Fatalf("children = %+v, want only the solid link", root.Children)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", warnings)
	}
	if warnings[0].Path != "/0" || !strings.Contains(warnings[0].Message, "Hollow") {
		t.Errorf("warning = %v, want it at /0 naming the dropped entry", warnings[0])
	}
}

func TestParseFolderDropsOpaqueFields(t *testing.T) {
	input := `{"type": "folder", "vendor": "custom", "children": []}`

	root, _, err := NewParser().Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(root.Extra) != 0 {
		t.Errorf("folder Extra = %+v, want empty", root.Extra)
	}
}
