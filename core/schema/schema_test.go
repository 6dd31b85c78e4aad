package schema

import (
	"strings"
	"testing"
)

const validBook = `<?xml version="1.0" encoding="utf-8"?>
<book title="ARMS">
  <characters>
    <character id="00000003" name="Ryo"/>
  </characters>
  <pages>
    <page index="0" width="1654" height="1170">
      <frame id="00000010" xmin="0" ymin="0" xmax="800" ymax="600"/>
      <body id="00000011" xmin="100" ymin="100" xmax="400" ymax="500" character="00000003"/>
      <face id="00000012" xmin="150" ymin="110" xmax="250" ymax="200" character="00000003"/>
      <text id="00000013" xmin="500" ymin="50" xmax="550" ymax="300">やった！</text>
    </page>
  </pages>
</book>
`

func messages(r *Result) string {
	var parts []string
	for _, v := range r.Violations {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "\n")
}

func TestCheckFileValid(t *testing.T) {
	res := CheckFile("ARMS.xml", []byte(validBook))
	if !res.Pass() {
		t.Fatalf("valid book should pass, got:\n%s", messages(res))
	}
	if res.Document == nil {
		t.Error("Document should be set for a well-formed file")
	}
}

func TestCheckFileStructure(t *testing.T) {
	tests := []struct {
		name    string
		xml     string
		wantMsg string
	}{
		{
			name:    "missing title",
			xml:     `<book><characters/><pages/></book>`,
			wantMsg: `book: missing attribute "title"`,
		},
		{
			name:    "wrong root",
			xml:     `<manga title="x"><characters/><pages/></manga>`,
			wantMsg: "root element is <manga>",
		},
		{
			name:    "groups out of order",
			xml:     `<book title="x"><pages/><characters/></book>`,
			wantMsg: "children are [pages characters]",
		},
		{
			name:    "missing group",
			xml:     `<book title="x"><pages/></book>`,
			wantMsg: "children are [pages]",
		},
		{
			name:    "extra group",
			xml:     `<book title="x"><characters/><pages/><extras/></book>`,
			wantMsg: "children are [characters pages extras]",
		},
		{
			name:    "character without name",
			xml:     `<book title="x"><characters><character id="00000001"/></characters><pages/></book>`,
			wantMsg: `book/characters/character[0]: missing attribute "name"`,
		},
		{
			name:    "unexpected character tag",
			xml:     `<book title="x"><characters><person id="1" name="a"/></characters><pages/></book>`,
			wantMsg: "unexpected <person>",
		},
		{
			name:    "page without width",
			xml:     `<book title="x"><characters/><pages><page index="0" height="10"/></pages></book>`,
			wantMsg: `book/pages/page[0]: missing attribute "width"`,
		},
		{
			name:    "non-integer page index",
			xml:     `<book title="x"><characters/><pages><page index="one" width="10" height="10"/></pages></book>`,
			wantMsg: `attribute "index" is not an integer`,
		},
		{
			name:    "unknown element kind",
			xml:     `<book title="x"><characters/><pages><page index="0" width="10" height="10"><balloon/></page></pages></book>`,
			wantMsg: "book/pages/page[0]/balloon[0]: unexpected <balloon>",
		},
		{
			name:    "non-integer bbox",
			xml:     `<book title="x"><characters/><pages><page index="0" width="10" height="10"><frame id="1" xmin="0" ymin="0" xmax="1.5" ymax="2"/></page></pages></book>`,
			wantMsg: `attribute "xmax" is not an integer: "1.5"`,
		},
		{
			name:    "missing bbox attribute",
			xml:     `<book title="x"><characters/><pages><page index="0" width="10" height="10"><frame id="1" xmin="0" ymin="0" xmax="1"/></page></pages></book>`,
			wantMsg: `missing attribute "ymax"`,
		},
		{
			name:    "face without character",
			xml:     `<book title="x"><characters/><pages><page index="0" width="10" height="10"><face id="1" xmin="0" ymin="0" xmax="1" ymax="2"/></page></pages></book>`,
			wantMsg: `face[0]: missing attribute "character"`,
		},
		{
			name:    "blank text",
			xml:     `<book title="x"><characters/><pages><page index="0" width="10" height="10"><text id="1" xmin="0" ymin="0" xmax="1" ymax="2">   </text></page></pages></book>`,
			wantMsg: "text element has no text content",
		},
		{
			name:    "not well-formed",
			xml:     `<book title="x"><characters></book>`,
			wantMsg: "not well-formed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckFile("x.xml", []byte(tt.xml))
			if res.Pass() {
				t.Fatal("check should fail")
			}
			if got := messages(res); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("violations do not mention %q:\n%s", tt.wantMsg, got)
			}
		})
	}
}

func TestCheckFileCollectsAll(t *testing.T) {
	doc := `<book><characters><character/></characters><pages><page index="x"/></pages></book>`
	res := CheckFile("x.xml", []byte(doc))
	// title, character id+name, page index (non-int), width, height
	if len(res.Violations) != 6 {
		t.Errorf("got %d violations, want 6:\n%s", len(res.Violations), messages(res))
	}
}

func TestCheckFileMalformedHasNoDocument(t *testing.T) {
	res := CheckFile("x.xml", []byte("<book>"))
	if res.Document != nil {
		t.Error("Document should be nil for malformed input")
	}
}
