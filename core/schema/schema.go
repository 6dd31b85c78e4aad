// Package schema checks annotation files against the markup layout, working
// on the raw markup tree rather than the decoded model.
//
// Every violation in a file is collected; a malformed file never stops other
// files from being checked.
package schema

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/manga109tools/core/annotation"
	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
	"github.com/FocuswithJustin/manga109tools/core/xml"
)

// Result is the outcome of checking one annotation file.
type Result struct {
	File       string
	Violations []*cerrors.SchemaViolation

	// Document is the parsed markup, nil when the file is not well-formed.
	Document *xml.Document
}

// Pass reports whether the file has no violations.
func (r *Result) Pass() bool {
	return len(r.Violations) == 0
}

// CheckFile runs the encoding, well-formedness and structure checks on one
// annotation file. The parsed document is returned for reuse by the decode
// step.
func CheckFile(file string, data []byte) *Result {
	res := &Result{File: file}
	res.Violations = append(res.Violations, CheckEncoding(file, data)...)

	if v := xml.Validate(data); !v.Valid {
		for _, e := range v.Errors {
			res.Violations = append(res.Violations, cerrors.NewSchema(file, "", "not well-formed: "+e.String()))
		}
		return res
	}

	doc, err := xml.Parse(data)
	if err != nil {
		res.Violations = append(res.Violations, cerrors.NewSchema(file, "", err.Error()))
		return res
	}
	res.Document = doc
	res.Violations = append(res.Violations, CheckDocument(file, doc)...)
	return res
}

// CheckDocument checks the tags and attributes of a parsed annotation file.
func CheckDocument(file string, doc *xml.Document) []*cerrors.SchemaViolation {
	c := &checker{file: file}

	root := doc.Root()
	if root == nil {
		c.fail("", "document has no root element")
		return c.out
	}
	if root.Name() != "book" {
		c.fail(root.Name(), "root element is <%s>, want <book>", root.Name())
	}
	// <book> has "title" attr
	c.require(root, "book", "title")

	// <book> has <characters> and <pages> elements, in that order
	groups := root.Children()
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name()
	}
	if len(groups) != 2 || names[0] != "characters" || names[1] != "pages" {
		c.fail("book", "children are [%s], want [characters pages]", strings.Join(names, " "))
	}

	characters, err := doc.XPath("/book/characters/*")
	if err != nil {
		c.fail("book/characters", "%v", err)
	}
	for i, ch := range characters {
		path := fmt.Sprintf("book/characters/%s[%d]", ch.Name(), i)
		if ch.Name() != "character" {
			c.fail(path, "unexpected <%s>, want <character>", ch.Name())
			continue
		}
		c.require(ch, path, "id", "name")
	}

	pages, err := doc.XPath("/book/pages/*")
	if err != nil {
		c.fail("book/pages", "%v", err)
	}
	for i, page := range pages {
		c.checkPage(page, fmt.Sprintf("book/pages/%s[%d]", page.Name(), i))
	}

	return c.out
}

type checker struct {
	file string
	out  []*cerrors.SchemaViolation
}

func (c *checker) fail(path, format string, args ...any) {
	c.out = append(c.out, cerrors.NewSchema(c.file, path, fmt.Sprintf(format, args...)))
}

// require records a violation for every missing attribute.
func (c *checker) require(n *xml.Node, path string, attrs ...string) {
	for _, attr := range attrs {
		if _, ok := n.LookupAttr(attr); !ok {
			c.fail(path, "missing attribute %q", attr)
		}
	}
}

// requireInt records a violation for every missing or non-integer attribute.
func (c *checker) requireInt(n *xml.Node, path string, attrs ...string) {
	for _, attr := range attrs {
		v, ok := n.LookupAttr(attr)
		if !ok {
			c.fail(path, "missing attribute %q", attr)
			continue
		}
		if !annotation.IsInt(v) {
			c.fail(path, "attribute %q is not an integer: %q", attr, v)
		}
	}
}

func (c *checker) checkPage(page *xml.Node, path string) {
	if page.Name() != "page" {
		c.fail(path, "unexpected <%s>, want <page>", page.Name())
		return
	}
	// <page> has index, height, and width
	c.requireInt(page, path, annotation.PageAttrs...)

	// <page> has <body>, <face>, <frame>, and <text> elements
	for j, elem := range page.Children() {
		elemPath := fmt.Sprintf("%s/%s[%d]", path, elem.Name(), j)
		kind := annotation.ElementKind(elem.Name())
		if !kind.IsValid() {
			c.fail(elemPath, "unexpected <%s>, want one of body, face, frame, text", elem.Name())
			continue
		}
		c.requireInt(elem, elemPath, annotation.BBoxAttrs...)

		switch {
		case kind.HasCharacter():
			c.require(elem, elemPath, "character")
		case kind == annotation.KindText:
			if strings.TrimSpace(elem.Text()) == "" {
				c.fail(elemPath, "text element has no text content")
			}
		}
	}
}
