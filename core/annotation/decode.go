package annotation

import (
	"fmt"
	"strconv"
	"strings"

	cerrors "github.com/FocuswithJustin/manga109tools/core/errors"
	"github.com/FocuswithJustin/manga109tools/core/geometry"
	"github.com/FocuswithJustin/manga109tools/core/xml"
)

// BBoxAttrs are the attributes carrying an element's bounding box.
var BBoxAttrs = []string{"xmin", "ymin", "xmax", "ymax"}

// PageAttrs are the integer attributes every page carries.
var PageAttrs = []string{"index", "height", "width"}

// ParseInt parses an integer attribute value. Surrounding whitespace is
// ignored.
func ParseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// IsInt reports whether s holds an integer attribute value.
func IsInt(s string) bool {
	_, err := ParseInt(s)
	return err == nil
}

// Decode builds a Book from a parsed annotation document. name is the
// book's manifest name and file the annotation file name used in errors.
func Decode(doc *xml.Document, name, file string) (*Book, error) {
	root := doc.Root()
	if root == nil || root.Name() != "book" {
		return nil, cerrors.NewParse("annotation", file, "root element is not <book>", nil)
	}

	book := &Book{Name: name, Title: root.Attr("title"), File: file}

	for _, group := range root.Children() {
		switch group.Name() {
		case "characters":
			for _, c := range group.Children() {
				book.Characters = append(book.Characters, Character{
					ID:   c.Attr("id"),
					Name: c.Attr("name"),
				})
			}
		case "pages":
			for i, p := range group.Children() {
				page, err := decodePage(p)
				if err != nil {
					return nil, cerrors.NewParse("annotation", file, fmt.Sprintf("page[%d]: %v", i, err), err)
				}
				book.Pages = append(book.Pages, page)
			}
		default:
			return nil, cerrors.NewParse("annotation", file, fmt.Sprintf("unexpected <%s>", group.Name()), nil)
		}
	}

	return book, nil
}

func decodePage(n *xml.Node) (Page, error) {
	var vals [3]int
	for i, attr := range PageAttrs {
		v, err := ParseInt(n.Attr(attr))
		if err != nil {
			return Page{}, fmt.Errorf("attribute %q: %w", attr, err)
		}
		vals[i] = v
	}
	page := Page{Index: vals[0], Height: vals[1], Width: vals[2]}

	for j, child := range n.Children() {
		elem, err := decodeElement(child)
		if err != nil {
			return Page{}, fmt.Errorf("%s[%d]: %w", child.Name(), j, err)
		}
		page.Elements = append(page.Elements, elem)
	}
	return page, nil
}

func decodeElement(n *xml.Node) (Element, error) {
	kind := ElementKind(n.Name())
	if !kind.IsValid() {
		return Element{}, fmt.Errorf("unknown element kind %q", n.Name())
	}

	var coords [4]int
	for i, attr := range BBoxAttrs {
		v, err := ParseInt(n.Attr(attr))
		if err != nil {
			return Element{}, fmt.Errorf("attribute %q: %w", attr, err)
		}
		coords[i] = v
	}

	elem := Element{
		Kind: kind,
		ID:   n.Attr("id"),
		BBox: geometry.New(coords[0], coords[1], coords[2], coords[3]),
	}
	if kind.HasCharacter() {
		elem.Character = n.Attr("character")
	}
	if kind == KindText {
		elem.Text = n.Text()
	}
	return elem, nil
}
