package geom

import (
	"math"
	"slices"

	"github.com/matzehuels/spaceforge/pkg/errors"
)

// Kind identifies the geometry variant of a Shape.
type Kind string

const (
	KindLine    Kind = "line"
	KindRect    Kind = "rect"
	KindCircle  Kind = "circle"
	KindPolygon Kind = "polygon"
)

// Kinds lists every shape kind in a stable order.
var Kinds = []Kind{KindLine, KindRect, KindCircle, KindPolygon}

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Geometry is the immutable geometric payload of a Shape. It is implemented
// only by Line, Rect, Circle and Polygon.
type Geometry interface {
	Kind() Kind
	sealed()
}

// Line is a segment from (X1, Y1) to (X2, Y2). Direction is kept for display.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Rect is an axis-aligned rectangle anchored at (X, Y). Width and Height may
// be negative when the rectangle was dragged up or left; see Normalize.
type Rect struct {
	X, Y, Width, Height float64
}

// Circle is a disc centred at (CX, CY).
type Circle struct {
	CX, CY, Radius float64
}

// Polygon is a closed ring of at least three vertices.
type Polygon struct {
	Points []Point
}

func (Line) Kind() Kind    { return KindLine }
func (Rect) Kind() Kind    { return KindRect }
func (Circle) Kind() Kind  { return KindCircle }
func (Polygon) Kind() Kind { return KindPolygon }

func (Line) sealed()    {}
func (Rect) sealed()    {}
func (Circle) sealed()  {}
func (Polygon) sealed() {}

// Style holds the display attributes of a shape. They can change without
// touching the geometry.
type Style struct {
	StrokeColor string
	FillColor   string
	StrokeWidth float64
}

// Shape is a placed layout object: geometry plus display attributes.
// The zero Shape has no geometry and is rejected by Layout.
type Shape struct {
	ID    string
	Style Style
	geom  Geometry
}

// Kind returns the geometry variant, or "" for the zero Shape.
func (s Shape) Kind() Kind {
	if s.geom == nil {
		return ""
	}
	return s.geom.Kind()
}

// Geometry returns a copy of the geometric payload. Callers switch on the
// concrete type:
//
//	switch g := s.Geometry().(type) {
//	case geom.Rect:
//	    ...
//	}
func (s Shape) Geometry() Geometry {
	if p, ok := s.geom.(Polygon); ok {
		return Polygon{Points: slices.Clone(p.Points)}
	}
	return s.geom
}

// IsZero reports whether s carries no geometry.
func (s Shape) IsZero() bool { return s.geom == nil }

// WithID returns a copy of s with the given identifier.
func (s Shape) WithID(id string) Shape {
	s.ID = id
	return s
}

// NewLine builds a line shape.
func NewLine(x1, y1, x2, y2 float64, st Style) (Shape, error) {
	if err := checkFinite(KindLine, "x1", x1, "y1", y1, "x2", x2, "y2", y2); err != nil {
		return Shape{}, err
	}
	if err := st.validate(KindLine); err != nil {
		return Shape{}, err
	}
	return Shape{Style: st, geom: Line{X1: x1, Y1: y1, X2: x2, Y2: y2}}, nil
}

// NewRect builds a rectangle shape. Negative width or height are accepted
// as a corner-to-corner drag in that direction.
func NewRect(x, y, width, height float64, st Style) (Shape, error) {
	if err := checkFinite(KindRect, "x", x, "y", y, "width", width, "height", height); err != nil {
		return Shape{}, err
	}
	if err := st.validate(KindRect); err != nil {
		return Shape{}, err
	}
	return Shape{Style: st, geom: Rect{X: x, Y: y, Width: width, Height: height}}, nil
}

// NewCircle builds a circle shape. The radius must be non-negative.
func NewCircle(cx, cy, radius float64, st Style) (Shape, error) {
	if err := checkFinite(KindCircle, "cx", cx, "cy", cy, "radius", radius); err != nil {
		return Shape{}, err
	}
	if radius < 0 {
		return Shape{}, errors.Invalid(string(KindCircle), "radius", radius, "must be non-negative")
	}
	if err := st.validate(KindCircle); err != nil {
		return Shape{}, err
	}
	return Shape{Style: st, geom: Circle{CX: cx, CY: cy, Radius: radius}}, nil
}

// NewPolygon builds a polygon from at least three vertices. The points are
// copied.
func NewPolygon(points []Point, st Style) (Shape, error) {
	if len(points) < 3 {
		return Shape{}, errors.Invalid(string(KindPolygon), "points", len(points), "need at least 3 vertices")
	}
	for _, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return Shape{}, errors.Invalid(string(KindPolygon), "points", p, "coordinates must be finite")
		}
	}
	if err := st.validate(KindPolygon); err != nil {
		return Shape{}, err
	}
	return Shape{Style: st, geom: Polygon{Points: slices.Clone(points)}}, nil
}

// FromGeometry builds a shape from an existing payload, applying the same
// validation as the typed constructors.
func FromGeometry(g Geometry, st Style) (Shape, error) {
	switch g := g.(type) {
	case Line:
		return NewLine(g.X1, g.Y1, g.X2, g.Y2, st)
	case Rect:
		return NewRect(g.X, g.Y, g.Width, g.Height, st)
	case Circle:
		return NewCircle(g.CX, g.CY, g.Radius, st)
	case Polygon:
		return NewPolygon(g.Points, st)
	}
	return Shape{}, errors.Invalid("", "type", nil, "missing geometry")
}

func (st Style) validate(k Kind) error {
	if !finite(st.StrokeWidth) || st.StrokeWidth < 0 {
		return errors.Invalid(string(k), "stroke_width", st.StrokeWidth, "must be a non-negative number")
	}
	return nil
}

// checkFinite takes alternating field names and values.
func checkFinite(k Kind, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		v := pairs[i+1].(float64)
		if !finite(v) {
			return errors.Invalid(string(k), pairs[i].(string), v, "must be finite")
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
