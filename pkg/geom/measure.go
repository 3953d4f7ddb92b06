package geom

import "math"

// BBox is an axis-aligned bounding box. Min values never exceed Max values.
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Contains reports whether p lies inside b, edges included.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Within reports whether b lies entirely inside o, edges included.
func (b BBox) Within(o BBox) bool {
	return b.MinX >= o.MinX && b.MaxX <= o.MaxX && b.MinY >= o.MinY && b.MaxY <= o.MaxY
}

// Intersects reports whether b and o share a region of positive area.
// Boxes that only touch along an edge or corner do not intersect.
func (b BBox) Intersects(o BBox) bool {
	return math.Min(b.MaxX, o.MaxX) > math.Max(b.MinX, o.MinX) &&
		math.Min(b.MaxY, o.MaxY) > math.Max(b.MinY, o.MinY)
}

// Meets reports whether the closed box b reaches into the open interior of
// o, or the reverse. Unlike Intersects it holds for a zero-width or
// zero-height box lying across the other, so an axis-aligned line through
// a rectangle meets it. Boxes touching only along an edge do not meet.
func (b BBox) Meets(o BBox) bool {
	return b.MinX < o.MaxX && b.MaxX > o.MinX && b.MinY < o.MaxY && b.MaxY > o.MinY
}

// Normalize returns the canonical form of s. Rectangles with a negative
// width or height are re-anchored at their top-left corner with
// non-negative extents. Every other kind is already canonical. Normalize is
// idempotent.
func Normalize(s Shape) Shape {
	r, ok := s.geom.(Rect)
	if !ok {
		return s
	}
	s.geom = normalizeRect(r)
	return s
}

func normalizeRect(r Rect) Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// BoundingBox returns the smallest axis-aligned box containing s.
// Degenerate shapes yield a zero-area box. The zero Shape yields BBox{}.
func BoundingBox(s Shape) BBox {
	switch g := s.geom.(type) {
	case Rect:
		r := normalizeRect(g)
		return BBox{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
	case Circle:
		return BBox{MinX: g.CX - g.Radius, MinY: g.CY - g.Radius, MaxX: g.CX + g.Radius, MaxY: g.CY + g.Radius}
	case Line:
		return BBox{
			MinX: math.Min(g.X1, g.X2), MinY: math.Min(g.Y1, g.Y2),
			MaxX: math.Max(g.X1, g.X2), MaxY: math.Max(g.Y1, g.Y2),
		}
	case Polygon:
		b := BBox{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
		for _, p := range g.Points {
			b.MinX = math.Min(b.MinX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MaxY = math.Max(b.MaxY, p.Y)
		}
		if len(g.Points) == 0 {
			return BBox{}
		}
		return b
	}
	return BBox{}
}

// Area returns the enclosed area of s. Lines have no area.
func Area(s Shape) float64 {
	switch g := s.geom.(type) {
	case Rect:
		return math.Abs(g.Width * g.Height)
	case Circle:
		return math.Pi * g.Radius * g.Radius
	case Polygon:
		return math.Abs(shoelace(g.Points)) / 2
	}
	return 0
}

// shoelace returns twice the signed area of the ring.
func shoelace(pts []Point) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum
}

// Length returns the outline length of s: segment length for a Line,
// perimeter (closing edge included) for a Polygon, 2(w+h) for a Rect and
// the circumference for a Circle.
func Length(s Shape) float64 {
	switch g := s.geom.(type) {
	case Line:
		return math.Hypot(g.X2-g.X1, g.Y2-g.Y1)
	case Rect:
		return 2 * (math.Abs(g.Width) + math.Abs(g.Height))
	case Circle:
		return 2 * math.Pi * g.Radius
	case Polygon:
		var sum float64
		for i, p := range g.Points {
			q := g.Points[(i+1)%len(g.Points)]
			sum += math.Hypot(q.X-p.X, q.Y-p.Y)
		}
		return sum
	}
	return 0
}
