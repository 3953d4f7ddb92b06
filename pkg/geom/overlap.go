package geom

import "math"

// Pair is an unordered pair of shape indices, stored with I < J.
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Overlaps reports whether a and b share a region of positive area.
//
// Rectangle and circle pairs are tested exactly. Touching along an edge or
// at a tangent point is not an overlap, and a degenerate rectangle or circle
// (zero width, height or radius) never overlaps anything. Whenever a Line or
// Polygon is involved the test falls back to comparing bounding boxes, which
// can report false positives. A line clashes when its box reaches into the
// interior of the other shape's box, so a horizontal wall crossing a rack
// counts while one running along the rack's edge does not.
//
// Overlaps is symmetric.
func Overlaps(a, b Shape) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	switch ga := a.geom.(type) {
	case Rect:
		switch gb := b.geom.(type) {
		case Rect:
			return BoundingBox(a).Intersects(BoundingBox(b))
		case Circle:
			return rectCircle(normalizeRect(ga), gb)
		}
	case Circle:
		switch gb := b.geom.(type) {
		case Rect:
			return rectCircle(normalizeRect(gb), ga)
		case Circle:
			return circleCircle(ga, gb)
		}
	}
	if a.Kind() == KindLine || b.Kind() == KindLine {
		if collapsed(a) || collapsed(b) {
			return false
		}
		return BoundingBox(a).Meets(BoundingBox(b))
	}
	return BoundingBox(a).Intersects(BoundingBox(b))
}

// collapsed reports a rectangle or circle without area.
func collapsed(s Shape) bool {
	switch g := s.geom.(type) {
	case Rect:
		return g.Width == 0 || g.Height == 0
	case Circle:
		return g.Radius == 0
	}
	return false
}

func rectCircle(r Rect, c Circle) bool {
	if r.Width == 0 || r.Height == 0 || c.Radius == 0 {
		return false
	}
	px := clamp(c.CX, r.X, r.X+r.Width)
	py := clamp(c.CY, r.Y, r.Y+r.Height)
	dx, dy := c.CX-px, c.CY-py
	return dx*dx+dy*dy < c.Radius*c.Radius
}

func circleCircle(a, b Circle) bool {
	if a.Radius == 0 || b.Radius == 0 {
		return false
	}
	dx, dy := a.CX-b.CX, a.CY-b.CY
	sum := a.Radius + b.Radius
	return dx*dx+dy*dy < sum*sum
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// PairwiseClashes returns every pair (i, j), i < j, whose shapes overlap,
// sorted by I then J. The result is never nil.
//
// The scan is O(n²); layouts are interactive-scale.
func PairwiseClashes(l *Layout) []Pair {
	pairs := []Pair{}
	boxes := make([]BBox, len(l.shapes))
	for i, s := range l.shapes {
		boxes[i] = BoundingBox(s)
	}
	for i := range l.shapes {
		for j := i + 1; j < len(l.shapes); j++ {
			// Every overlap implies the boxes meet.
			if !boxes[i].Meets(boxes[j]) {
				continue
			}
			if Overlaps(l.shapes[i], l.shapes[j]) {
				pairs = append(pairs, Pair{I: i, J: j})
			}
		}
	}
	return pairs
}

// ClashCounts returns, for each shape index, how many other shapes it
// clashes with.
func ClashCounts(n int, pairs []Pair) []int {
	counts := make([]int, n)
	for _, p := range pairs {
		if p.I < n && p.J < n {
			counts[p.I]++
			counts[p.J]++
		}
	}
	return counts
}
