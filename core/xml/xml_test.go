package xml

import (
	"testing"
)

const sampleBook = `<?xml version="1.0" encoding="utf-8"?>
<book title="ARMS">
  <characters>
    <character id="00000003" name="Ryo"/>
  </characters>
  <pages>
    <page index="0" width="1654" height="1170">
      <face id="00000010" xmin="10" ymin="10" xmax="50" ymax="50" character="00000003"/>
      <text id="00000011" xmin="60" ymin="60" xmax="90" ymax="90">Hello</text>
    </page>
  </pages>
</book>`

// TestParseValidXML verifies parsing of well-formed XML.
func TestParseValidXML(t *testing.T) {
	doc, err := Parse([]byte(sampleBook))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	root := doc.Root()
	if root == nil {
		t.Fatal("Root returned nil")
	}
	if root.Name() != "book" {
		t.Errorf("Root name = %q, want book", root.Name())
	}
	if root.Attr("title") != "ARMS" {
		t.Errorf("title = %q, want ARMS", root.Attr("title"))
	}
}

// TestParseInvalidXML verifies error handling for malformed XML.
func TestParseInvalidXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"unclosed tag", "<root><element></root>"},
		{"mismatched tags", "<root></other>"},
		{"invalid chars", "<root>\x00</root>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.xml)); err == nil {
				t.Error("Parse should fail for invalid XML")
			}
		})
	}
}

// TestValidate verifies well-formedness validation.
func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		xml   string
		valid bool
	}{
		{"well formed", sampleBook, true},
		{"unclosed", "<book><pages></book>", false},
		{"empty", "", false},
		{"declaration only", `<?xml version="1.0"?>`, false},
		{"undeclared entity", "<book>&foo;</book>", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.xml))
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.valid, result.Errors)
			}
			if !tt.valid && len(result.Errors) == 0 {
				t.Error("invalid result should carry errors")
			}
		})
	}
}

func TestValidateReportsLine(t *testing.T) {
	result := Validate([]byte("<book>\n<pages>\n</book>"))
	if result.Valid {
		t.Fatal("expected invalid result")
	}
	if result.Errors[0].Line != 3 {
		t.Errorf("Line = %d, want 3", result.Errors[0].Line)
	}
}

// TestChildren verifies element-only child listing.
func TestChildren(t *testing.T) {
	doc, err := Parse([]byte(sampleBook))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	children := doc.Root().Children()
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}
	if children[0].Name() != "characters" || children[1].Name() != "pages" {
		t.Errorf("children = %s, %s", children[0].Name(), children[1].Name())
	}
}

// TestXPathQuery verifies XPath query execution.
func TestXPathQuery(t *testing.T) {
	doc, err := Parse([]byte(sampleBook))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	pages, err := doc.XPath("/book/pages/page")
	if err != nil {
		t.Fatalf("XPath failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].Attr("width") != "1654" {
		t.Errorf("width = %q", pages[0].Attr("width"))
	}
}

// TestXPathInvalidExpression verifies error handling for invalid XPath.
func TestXPathInvalidExpression(t *testing.T) {
	doc, err := Parse([]byte(`<root/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := doc.XPath("[invalid"); err == nil {
		t.Error("Invalid XPath should return error")
	}
}

// TestAttributes verifies attribute access.
func TestAttributes(t *testing.T) {
	doc, err := Parse([]byte(`<face id="00000010" xmin="" character="00000003"/>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	face := doc.Root()

	attrs := face.Attributes()
	if len(attrs) != 3 {
		t.Errorf("got %d attributes, want 3", len(attrs))
	}

	if v, ok := face.LookupAttr("xmin"); !ok || v != "" {
		t.Errorf("LookupAttr(xmin) = %q, %v; want empty, true", v, ok)
	}
	if _, ok := face.LookupAttr("ymin"); ok {
		t.Error("LookupAttr(ymin) should report missing attribute")
	}
	if face.Attr("missing") != "" {
		t.Error("Attr should return empty string for missing attribute")
	}
}

// TestNilNode verifies nil-safe accessors.
func TestNilNode(t *testing.T) {
	n := &Node{}
	if n.Name() != "" || n.Text() != "" || n.Attr("x") != "" {
		t.Error("nil node accessors should return empty strings")
	}
	if n.Children() != nil || n.Attributes() != nil {
		t.Error("nil node collections should be nil")
	}
	if _, ok := n.LookupAttr("x"); ok {
		t.Error("nil node has no attributes")
	}
}
