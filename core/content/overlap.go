package content

import (
	"fmt"

	"github.com/FocuswithJustin/manga109tools/core/annotation"
	"github.com/FocuswithJustin/manga109tools/core/exceptions"
	"github.com/FocuswithJustin/manga109tools/core/geometry"
)

// DuplicateIoUThreshold is the IoU at or above which two same-kind boxes on a
// page count as duplicates.
const DuplicateIoUThreshold = 0.98

// measurable keeps the elements whose boxes have positive area. Degenerate
// boxes are reported by bbox_coordinate and have no defined IoU.
func measurable(elems []annotation.Element) []annotation.Element {
	var out []annotation.Element
	for _, e := range elems {
		if e.BBox.Valid() {
			out = append(out, e)
		}
	}
	return out
}

func boxes(elems []annotation.Element) []geometry.BBox {
	out := make([]geometry.BBox, len(elems))
	for i, e := range elems {
		out[i] = e.BBox
	}
	return out
}

// checkDuplicateBBox compares every unordered pair of same-kind elements on a
// page. Each pair is reported at most once.
func checkDuplicateBBox(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, page := range book.Pages {
			for _, kind := range annotation.Kinds {
				elems := measurable(page.Of(kind))
				if len(elems) < 2 {
					continue
				}
				bb := boxes(elems)
				iou := geometry.PairwiseIoU(bb, bb)
				for i := range elems {
					for j := i + 1; j < len(elems); j++ {
						out.Examined++
						if !(iou[i][j] >= DuplicateIoUThreshold) {
							continue
						}
						a, b := elems[i], elems[j]
						excepted, err := env.Exceptions.IsExcepted(RuleDuplicateBBox, exceptions.UnorderedPair(a.ID, b.ID))
						if err != nil {
							return nil, err
						}
						if excepted {
							out.Suppressed++
							continue
						}
						out.add(CheckDuplicateBBox, book.Name, page.Index,
							fmt.Sprintf("%s boxes %v and %v overlap with IoU %.3f", kind, a.BBox, b.BBox, iou[i][j]),
							a.ID, b.ID)
					}
				}
			}
		}
	}
	return out, nil
}

// checkFaceInBody requires every face to lie in at least one body of the same
// character on its page.
func checkFaceInBody(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, page := range book.Pages {
			bodies := page.Of(annotation.KindBody)
			for _, face := range page.Of(annotation.KindFace) {
				out.Examined++
				inside := false
				for _, body := range bodies {
					if body.Character == face.Character && geometry.Contains(body.BBox, face.BBox) {
						inside = true
						break
					}
				}
				if !inside {
					out.add(CheckFaceInBody, book.Name, page.Index,
						fmt.Sprintf("face %v of character %s lies in no body of that character", face.BBox, face.Character),
						face.ID)
				}
			}
		}
	}
	return out, nil
}

// checkFaceNotInFace looks at every ordered pair of distinct faces of the same
// character on a page. The exception for (A, B) does not cover (B, A).
func checkFaceNotInFace(env *Env) (*Outcome, error) {
	out := &Outcome{}
	for _, book := range env.Corpus.Books {
		for _, page := range book.Pages {
			faces := page.Of(annotation.KindFace)
			for i, outer := range faces {
				for j, inner := range faces {
					if i == j || outer.Character != inner.Character {
						continue
					}
					out.Examined++
					if !geometry.Contains(outer.BBox, inner.BBox) {
						continue
					}
					excepted, err := env.Exceptions.IsExcepted(RuleFaceNotInFace, exceptions.OrderedPair(outer.ID, inner.ID))
					if err != nil {
						return nil, err
					}
					if excepted {
						out.Suppressed++
						continue
					}
					out.add(CheckFaceNotInFace, book.Name, page.Index,
						fmt.Sprintf("face %v contains face %v of the same character", outer.BBox, inner.BBox),
						outer.ID, inner.ID)
				}
			}
		}
	}
	return out, nil
}
