package geom

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/spaceforge/pkg/errors"
)

func mustShape(t *testing.T) func(Shape, error) Shape {
	t.Helper()
	return func(s Shape, err error) Shape {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected construction error: %v", err)
		}
		return s
	}
}

func TestConstructorsValidate(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (Shape, error)
		wantField string
	}{
		{"negative radius", func() (Shape, error) { return NewCircle(0, 0, -1, Style{}) }, "radius"},
		{"nan radius", func() (Shape, error) { return NewCircle(0, 0, math.NaN(), Style{}) }, "radius"},
		{"two point polygon", func() (Shape, error) { return NewPolygon([]Point{{0, 0}, {1, 1}}, Style{}) }, "points"},
		{"inf polygon vertex", func() (Shape, error) {
			return NewPolygon([]Point{{0, 0}, {1, 0}, {math.Inf(1), 1}}, Style{})
		}, "points"},
		{"inf rect x", func() (Shape, error) { return NewRect(math.Inf(-1), 0, 1, 1, Style{}) }, "x"},
		{"nan line y2", func() (Shape, error) { return NewLine(0, 0, 1, math.NaN(), Style{}) }, "y2"},
		{"negative stroke", func() (Shape, error) { return NewRect(0, 0, 1, 1, Style{StrokeWidth: -2}) }, "stroke_width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build()
			if err == nil {
				t.Fatal("expected ValidationError, got nil")
			}
			v, ok := err.(*errors.ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *errors.ValidationError", err)
			}
			if v.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", v.Field, tt.wantField)
			}
			if v.Index != -1 {
				t.Errorf("Index = %d, want -1 for standalone shape", v.Index)
			}
			if !errors.Is(err, errors.ErrCodeInvalidShape) {
				t.Error("error should carry ErrCodeInvalidShape")
			}
		})
	}
}

func TestConstructorsAccept(t *testing.T) {
	tests := []struct {
		name  string
		build func() (Shape, error)
		kind  Kind
	}{
		{"zero radius circle", func() (Shape, error) { return NewCircle(5, 5, 0, Style{}) }, KindCircle},
		{"negative extent rect", func() (Shape, error) { return NewRect(10, 10, -5, -5, Style{}) }, KindRect},
		{"zero length line", func() (Shape, error) { return NewLine(1, 1, 1, 1, Style{}) }, KindLine},
		{"triangle", func() (Shape, error) { return NewPolygon([]Point{{0, 0}, {4, 0}, {0, 3}}, Style{}) }, KindPolygon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := tt.build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Kind() != tt.kind {
				t.Errorf("Kind() = %q, want %q", s.Kind(), tt.kind)
			}
		})
	}
}

func TestPolygonPayloadIsCopied(t *testing.T) {
	pts := []Point{{0, 0}, {4, 0}, {0, 3}}
	s := mustShape(t)(NewPolygon(pts, Style{}))

	pts[0] = Point{100, 100}
	g := s.Geometry().(Polygon)
	if g.Points[0] != (Point{0, 0}) {
		t.Error("constructor should copy the input points")
	}

	g.Points[1] = Point{-1, -1}
	if s.Geometry().(Polygon).Points[1] != (Point{4, 0}) {
		t.Error("Geometry() should return a copy of the points")
	}
}

func TestFromGeometry(t *testing.T) {
	for _, g := range []Geometry{
		Line{0, 0, 3, 4},
		Rect{1, 2, 3, 4},
		Circle{1, 1, 2},
		Polygon{Points: []Point{{0, 0}, {1, 0}, {1, 1}}},
	} {
		s, err := FromGeometry(g, Style{StrokeColor: "#000"})
		if err != nil {
			t.Fatalf("FromGeometry(%v) error: %v", g, err)
		}
		if !reflect.DeepEqual(s.Geometry(), g) {
			t.Errorf("Geometry() = %v, want %v", s.Geometry(), g)
		}
	}

	if _, err := FromGeometry(Circle{0, 0, -3}, Style{}); err == nil {
		t.Error("FromGeometry should validate like the constructors")
	}
	if _, err := FromGeometry(nil, Style{}); err == nil {
		t.Error("FromGeometry(nil) should fail")
	}
}
