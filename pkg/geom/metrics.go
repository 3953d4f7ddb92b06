package geom

import "math"

// UsedArea sums the area of every normalized shape. Overlapping shapes are
// counted once each, so this is a coverage estimate, not a union area.
func UsedArea(l *Layout) float64 {
	var used float64
	for _, s := range l.shapes {
		used += Area(Normalize(s))
	}
	return used
}

// Utilization returns the summed shape area as a percentage of the canvas
// area, capped at 100. A canvas with no area yields 0.
func Utilization(l *Layout) float64 {
	total := l.Canvas.Area()
	if !(total > 0) {
		return 0
	}
	return math.Min(100, 100*UsedArea(l)/total)
}

// TotalLength sums the length of Line shapes only. Closed shapes are
// measured by TotalPerimeter.
func TotalLength(l *Layout) float64 {
	var sum float64
	for _, s := range l.shapes {
		if s.Kind() == KindLine {
			sum += Length(s)
		}
	}
	return sum
}

// TotalPerimeter sums the outline length of rectangles, circles and
// polygons.
func TotalPerimeter(l *Layout) float64 {
	var sum float64
	for _, s := range l.shapes {
		if k := s.Kind(); k != KindLine && k != "" {
			sum += Length(s)
		}
	}
	return sum
}

// CountByKind tallies shapes per kind. Every kind is present in the result,
// with zero when absent.
func CountByKind(l *Layout) map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		counts[k] = 0
	}
	for _, s := range l.shapes {
		counts[s.Kind()]++
	}
	return counts
}

// OutOfBounds returns the indices of shapes whose bounding box extends past
// the canvas. Such shapes are legal; this only reports them.
func OutOfBounds(l *Layout) []int {
	bounds := l.Canvas.Bounds()
	out := []int{}
	for i, s := range l.shapes {
		if !BoundingBox(s).Within(bounds) {
			out = append(out, i)
		}
	}
	return out
}

// Metrics is the full set of derived measurements for one layout.
type Metrics struct {
	ShapeCount     int          `json:"shape_count"`
	CountByKind    map[Kind]int `json:"count_by_kind"`
	CanvasArea     float64      `json:"canvas_area"`
	UsedArea       float64      `json:"used_area"`
	Utilization    float64      `json:"utilization"`
	TotalLength    float64      `json:"total_length"`
	TotalPerimeter float64      `json:"total_perimeter"`
	Clashes        []Pair       `json:"clashes"`
	OutOfBounds    []int        `json:"out_of_bounds"`
}

// Analyze computes every metric for l. It does not modify l.
func Analyze(l *Layout) Metrics {
	return Metrics{
		ShapeCount:     l.Len(),
		CountByKind:    CountByKind(l),
		CanvasArea:     l.Canvas.Area(),
		UsedArea:       UsedArea(l),
		Utilization:    Utilization(l),
		TotalLength:    TotalLength(l),
		TotalPerimeter: TotalPerimeter(l),
		Clashes:        PairwiseClashes(l),
		OutOfBounds:    OutOfBounds(l),
	}
}
