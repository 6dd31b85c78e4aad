// Package geometry provides bounding-box containment and Intersection-over-Union
// over axis-aligned page rectangles.
//
// Boxes are given as (XMin, YMin, XMax, YMax) in page pixel coordinates. All
// functions are pure and assume XMin < XMax and YMin < YMax; callers that
// cannot guarantee this should check Valid first.
package geometry

import "fmt"

// BBox is an axis-aligned rectangle delimiting an element on a page.
type BBox struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// New creates a bounding box from its corner coordinates.
func New(xmin, ymin, xmax, ymax int) BBox {
	return BBox{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}
}

// Valid reports whether the box has a positive extent on both axes.
func (b BBox) Valid() bool {
	return b.XMin < b.XMax && b.YMin < b.YMax
}

// Within reports whether the box lies on a page of the given size:
// 0 <= XMin < XMax < width and 0 <= YMin < YMax < height.
func (b BBox) Within(width, height int) bool {
	return 0 <= b.XMin && b.XMin < b.XMax && b.XMax < width &&
		0 <= b.YMin && b.YMin < b.YMax && b.YMax < height
}

// Area returns the box area.
func (b BBox) Area() float64 {
	return float64(b.XMax-b.XMin) * float64(b.YMax-b.YMin)
}

func (b BBox) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.XMin, b.YMin, b.XMax, b.YMax)
}

// Contains reports whether inner lies entirely within outer on both axes.
// A box contains itself.
func Contains(outer, inner BBox) bool {
	if !(outer.YMin <= inner.YMin && inner.YMax <= outer.YMax) {
		return false
	}
	return outer.XMin <= inner.XMin && inner.XMax <= outer.XMax
}

// intersection returns the overlapping area of a and b, zero when they are
// disjoint or only touch along an edge.
func intersection(a, b BBox) float64 {
	// top left
	left := max(a.XMin, b.XMin)
	top := max(a.YMin, b.YMin)
	// bottom right
	right := min(a.XMax, b.XMax)
	bottom := min(a.YMax, b.YMax)

	if left >= right || top >= bottom {
		return 0
	}
	return float64(right-left) * float64(bottom-top)
}

// IoU returns the Intersection-over-Union of two boxes.
func IoU(a, b BBox) float64 {
	inter := intersection(a, b)
	return inter / (a.Area() + b.Area() - inter)
}

// PairwiseIoU returns an N×K matrix whose entry (n, k) is the IoU of a[n]
// and b[k].
func PairwiseIoU(a, b []BBox) [][]float64 {
	matrix := make([][]float64, len(a))
	for n := range a {
		row := make([]float64, len(b))
		for k := range b {
			row[k] = IoU(a[n], b[k])
		}
		matrix[n] = row
	}
	return matrix
}
