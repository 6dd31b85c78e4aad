package geometry

import (
	"math"
	"testing"
)

func TestContains(t *testing.T) {
	tests := []struct {
		name  string
		outer BBox
		inner BBox
		want  bool
	}{
		{"identical", New(10, 10, 50, 50), New(10, 10, 50, 50), true},
		{"strictly inside", New(0, 0, 100, 100), New(10, 20, 30, 40), true},
		{"shared left edge", New(0, 0, 100, 100), New(0, 20, 30, 40), true},
		{"overflows right", New(0, 0, 100, 100), New(50, 50, 101, 60), false},
		{"overflows top", New(10, 10, 100, 100), New(20, 5, 30, 40), false},
		{"overflows bottom", New(10, 10, 100, 100), New(20, 20, 30, 120), false},
		{"overflows left", New(10, 10, 100, 100), New(5, 20, 30, 40), false},
		{"disjoint", New(0, 0, 10, 10), New(20, 20, 30, 30), false},
		{"outer inside inner", New(10, 20, 30, 40), New(0, 0, 100, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.outer, tt.inner); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestContainsAntisymmetric(t *testing.T) {
	boxes := []BBox{
		New(0, 0, 100, 100),
		New(10, 10, 50, 50),
		New(10, 10, 50, 60),
		New(20, 30, 25, 35),
	}
	for _, a := range boxes {
		if !Contains(a, a) {
			t.Errorf("Contains(%v, %v) should be true", a, a)
		}
		for _, b := range boxes {
			if a == b {
				continue
			}
			if Contains(a, b) && Contains(b, a) {
				t.Errorf("%v and %v contain each other", a, b)
			}
		}
	}
}

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want float64
	}{
		{"identical", New(10, 10, 50, 50), New(10, 10, 50, 50), 1.0},
		{"disjoint", New(0, 0, 10, 10), New(20, 20, 30, 30), 0.0},
		{"touching edge", New(0, 0, 10, 10), New(10, 0, 20, 10), 0.0},
		{"touching corner", New(0, 0, 10, 10), New(10, 10, 20, 20), 0.0},
		{"half overlap", New(0, 0, 10, 10), New(5, 0, 15, 10), 50.0 / 150.0},
		{"nested quarter", New(0, 0, 20, 20), New(0, 0, 10, 10), 100.0 / 400.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IoU(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("IoU(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if rev := IoU(tt.b, tt.a); rev != got {
				t.Errorf("IoU is not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestPairwiseIoU(t *testing.T) {
	a := []BBox{New(0, 0, 10, 10), New(100, 100, 110, 110)}
	b := []BBox{New(0, 0, 10, 10), New(5, 0, 15, 10), New(50, 50, 60, 60)}

	m := PairwiseIoU(a, b)
	if len(m) != 2 {
		t.Fatalf("rows = %d, want 2", len(m))
	}
	for i, row := range m {
		if len(row) != 3 {
			t.Fatalf("row %d has %d columns, want 3", i, len(row))
		}
	}
	if m[0][0] != 1.0 {
		t.Errorf("m[0][0] = %v, want 1", m[0][0])
	}
	if math.Abs(m[0][1]-1.0/3.0) > 1e-12 {
		t.Errorf("m[0][1] = %v, want 1/3", m[0][1])
	}
	for k := range b {
		if m[1][k] != 0 {
			t.Errorf("m[1][%d] = %v, want 0", k, m[1][k])
		}
	}
}

func TestPairwiseIoUSelfDiagonal(t *testing.T) {
	boxes := []BBox{New(10, 10, 50, 50), New(1, 2, 3, 4), New(0, 0, 999, 999)}
	m := PairwiseIoU(boxes, boxes)
	for i := range boxes {
		if m[i][i] != 1.0 {
			t.Errorf("m[%d][%d] = %v, want 1", i, i, m[i][i])
		}
	}
}

func TestPairwiseIoUEmpty(t *testing.T) {
	if m := PairwiseIoU(nil, []BBox{New(0, 0, 1, 1)}); len(m) != 0 {
		t.Errorf("expected empty matrix, got %v", m)
	}
	m := PairwiseIoU([]BBox{New(0, 0, 1, 1)}, nil)
	if len(m) != 1 || len(m[0]) != 0 {
		t.Errorf("expected 1x0 matrix, got %v", m)
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name string
		box  BBox
		want bool
	}{
		{"inside", New(0, 0, 99, 99), true},
		{"xmax equals width", New(0, 0, 100, 50), false},
		{"ymax equals height", New(0, 0, 50, 100), false},
		{"negative xmin", New(-1, 0, 50, 50), false},
		{"zero width", New(10, 10, 10, 50), false},
		{"inverted", New(50, 50, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Within(100, 100); got != tt.want {
				t.Errorf("%v.Within(100, 100) = %v, want %v", tt.box, got, tt.want)
			}
		})
	}
}

func TestAreaAndValid(t *testing.T) {
	b := New(10, 10, 50, 30)
	if b.Area() != 800 {
		t.Errorf("Area() = %v, want 800", b.Area())
	}
	if !b.Valid() {
		t.Error("box should be valid")
	}
	if New(5, 5, 5, 10).Valid() {
		t.Error("zero-width box should be invalid")
	}
	if got := b.String(); got != "(10,10,50,30)" {
		t.Errorf("String() = %q", got)
	}
}
