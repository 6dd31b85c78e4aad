package content

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/manga109tools/core/annotation"
)

// IDLength is the number of hexadecimal digits in an id.
const IDLength = 8

// IsHexID reports whether id is exactly IDLength hexadecimal digits.
func IsHexID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case '0' <= c && c <= '9', 'a' <= c && c <= 'f', 'A' <= c && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func checkBookTitle(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		out.Examined++
		if book.Title != book.Name {
			out.add(CheckBookTitle, book.Name, -1,
				fmt.Sprintf("title attribute is %q, manifest lists %q", book.Title, book.Name))
		}
	}
	return out, nil
}

func checkPageIndex(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for i, page := range book.Pages {
			out.Examined++
			if page.Index != i {
				out.add(CheckPageIndex, book.Name, -1,
					fmt.Sprintf("page at position %d has index %d", i, page.Index))
			}
		}
	}
	return out, nil
}

type idUse struct {
	count int
	books []string
}

// checkDuplicateID counts every character and element id of the corpus in one
// pass, then flags the ids seen more than once.
func checkDuplicateID(env *Env) (*Outcome, error) {
	out := &Outcome{}
	uses := make(map[string]*idUse)
	var order []string

	record := func(id, book string) {
		out.Examined++
		u, ok := uses[id]
		if !ok {
			u = &idUse{}
			uses[id] = u
			order = append(order, id)
		}
		u.count++
		if len(u.books) == 0 || u.books[len(u.books)-1] != book {
			u.books = append(u.books, book)
		}
	}

	for _, book := range env.Corpus.Books {
		for _, c := range book.Characters {
			record(c.ID, book.Name)
		}
		for _, page := range book.Pages {
			for _, kind := range annotation.Kinds {
				for _, e := range page.Of(kind) {
					record(e.ID, book.Name)
				}
			}
		}
	}

	for _, id := range order {
		u := uses[id]
		if u.count > 1 {
			out.add(CheckDuplicateID, "", -1,
				fmt.Sprintf("id used %d times (in %s)", u.count, strings.Join(u.books, ", ")), id)
		}
	}
	return out, nil
}

func checkCharaID(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		declared := book.CharacterIDs()
		for _, page := range book.Pages {
			for _, e := range page.Elements {
				if !e.Kind.HasCharacter() {
					continue
				}
				out.Examined++
				if _, ok := declared[e.Character]; !ok {
					out.add(CheckCharaID, book.Name, page.Index,
						fmt.Sprintf("%s references undeclared character %q", elementRef(e), e.Character), e.ID)
				}
			}
		}
	}
	return out, nil
}

func checkIDType(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, c := range book.Characters {
			out.Examined++
			if !IsHexID(c.ID) {
				out.add(CheckIDType, book.Name, -1,
					fmt.Sprintf("character %q has id %q, want %d hexadecimal digits", c.Name, c.ID, IDLength), c.ID)
			}
		}
		for _, page := range book.Pages {
			for _, e := range page.Elements {
				out.Examined++
				if !IsHexID(e.ID) {
					out.add(CheckIDType, book.Name, page.Index,
						fmt.Sprintf("%s has id %q, want %d hexadecimal digits", e.Kind, e.ID, IDLength), e.ID)
				}
			}
		}
	}
	return out, nil
}

func checkDuplicateCharacterName(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		byName := make(map[string][]string)
		var names []string
		for _, c := range book.Characters {
			out.Examined++
			if _, ok := byName[c.Name]; !ok {
				names = append(names, c.Name)
			}
			byName[c.Name] = append(byName[c.Name], c.ID)
		}
		for _, name := range names {
			if ids := byName[name]; len(ids) > 1 {
				out.add(CheckDuplicateCharacterName, book.Name, -1,
					fmt.Sprintf("%d characters are named %q", len(ids), name), ids...)
			}
		}
	}
	return out, nil
}

func checkTextContent(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, page := range book.Pages {
			for _, e := range page.Of(annotation.KindText) {
				out.Examined++
				if strings.TrimSpace(e.Text) == "" {
					out.add(CheckTextContent, book.Name, page.Index, "text element is empty", e.ID)
				}
			}
		}
	}
	return out, nil
}

func checkBBoxCoordinate(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, page := range book.Pages {
			for _, e := range page.Elements {
				out.Examined++
				if !e.BBox.Within(page.Width, page.Height) {
					out.add(CheckBBoxCoordinate, book.Name, page.Index,
						fmt.Sprintf("%s box %v does not fit a %dx%d page", elementRef(e), e.BBox, page.Width, page.Height), e.ID)
				}
			}
		}
	}
	return out, nil
}
