package annotation

import (
	"github.com/FocuswithJustin/manga109tools/core/geometry"
)

// ElementKind is the tag of a page element.
type ElementKind string

// Element kinds.
const (
	KindBody  ElementKind = "body"
	KindFace  ElementKind = "face"
	KindFrame ElementKind = "frame"
	KindText  ElementKind = "text"
)

// Kinds lists every element kind in canonical order.
var Kinds = []ElementKind{KindBody, KindFace, KindFrame, KindText}

// IsValid reports whether k is one of the known element kinds.
func (k ElementKind) IsValid() bool {
	switch k {
	case KindBody, KindFace, KindFrame, KindText:
		return true
	}
	return false
}

// HasCharacter reports whether elements of this kind reference a character.
func (k ElementKind) HasCharacter() bool {
	return k == KindBody || k == KindFace
}

// Corpus is the ordered set of books under validation.
type Corpus struct {
	Books []*Book
}

// Book is the parsed content of one annotation file.
type Book struct {
	// Name is the book's name in the manifest, which is also the stem of
	// its annotation file.
	Name string

	// Title is the title attribute of the root element.
	Title string

	// File is the annotation file name the book was decoded from.
	File string

	// Digest is the BLAKE3 digest of the annotation file.
	Digest string

	Characters []Character
	Pages      []Page
}

// Character is a character declared by a book.
type Character struct {
	ID   string
	Name string
}

// Page is one annotated page.
type Page struct {
	Index    int
	Width    int
	Height   int
	Elements []Element
}

// Element is a bounding box annotation on a page.
type Element struct {
	Kind ElementKind
	ID   string
	BBox geometry.BBox

	// Character is the referenced character id (body and face only).
	Character string

	// Text is the text content (text only).
	Text string
}

// Of returns the page's elements of the given kind in document order.
func (p *Page) Of(kind ElementKind) []Element {
	var out []Element
	for _, e := range p.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// CharacterIDs returns the set of character ids declared by the book.
func (b *Book) CharacterIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(b.Characters))
	for _, c := range b.Characters {
		ids[c.ID] = struct{}{}
	}
	return ids
}
