package geom

import (
	"iter"
	"slices"

	"github.com/matzehuels/spaceforge/pkg/errors"
)

// Canvas is the bounded drawing surface, in canvas units.
//
// NewCanvas enforces positive dimensions. The zero Canvas is still
// representable, e.g. for stored data missing its dimensions, and engine
// functions handle a zero-area canvas without failing.
type Canvas struct {
	Width  float64
	Height float64
}

// NewCanvas returns a canvas with both dimensions validated.
func NewCanvas(width, height float64) (Canvas, error) {
	if !finite(width) || width <= 0 {
		return Canvas{}, errors.Invalid("canvas", "width", width, "must be positive")
	}
	if !finite(height) || height <= 0 {
		return Canvas{}, errors.Invalid("canvas", "height", height, "must be positive")
	}
	return Canvas{Width: width, Height: height}, nil
}

// Area returns Width*Height.
func (c Canvas) Area() float64 { return c.Width * c.Height }

// Bounds returns the canvas as a box anchored at the origin.
func (c Canvas) Bounds() BBox {
	return BBox{MaxX: c.Width, MaxY: c.Height}
}

// Layout is an ordered collection of shapes on a canvas. Index order is
// z-order.
//
// Layout is not safe for concurrent mutation. Readers on other goroutines
// should receive a Snapshot.
type Layout struct {
	Canvas Canvas
	shapes []Shape
}

// NewLayout returns an empty layout on the given canvas.
func NewLayout(c Canvas) *Layout {
	return &Layout{Canvas: c}
}

// Len returns the number of shapes.
func (l *Layout) Len() int { return len(l.shapes) }

// Shape returns the shape at index i. It panics if i is out of range, like
// slice indexing.
func (l *Layout) Shape(i int) Shape { return l.shapes[i] }

// Shapes returns a copy of the shape list.
func (l *Layout) Shapes() []Shape { return slices.Clone(l.shapes) }

// All iterates over shapes in z-order.
func (l *Layout) All() iter.Seq2[int, Shape] {
	return func(yield func(int, Shape) bool) {
		for i, s := range l.shapes {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Append adds a shape on top and returns its index.
func (l *Layout) Append(s Shape) (int, error) {
	if s.IsZero() {
		return -1, errors.Invalid("", "type", nil, "shape has no geometry").AtIndex(len(l.shapes))
	}
	l.shapes = append(l.shapes, s)
	return len(l.shapes) - 1, nil
}

// Replace swaps the shape at index i, keeping its z-position. Moving or
// transforming a shape goes through Replace.
func (l *Layout) Replace(i int, s Shape) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	if s.IsZero() {
		return errors.Invalid("", "type", nil, "shape has no geometry").AtIndex(i)
	}
	l.shapes[i] = s
	return nil
}

// Restyle updates the display attributes of the shape at index i.
func (l *Layout) Restyle(i int, st Style) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	if err := st.validate(l.shapes[i].Kind()); err != nil {
		return err.(*errors.ValidationError).AtIndex(i)
	}
	l.shapes[i].Style = st
	return nil
}

// Remove deletes the shape at index i. Later shapes shift down by one.
func (l *Layout) Remove(i int) error {
	if err := l.checkIndex(i); err != nil {
		return err
	}
	l.shapes = slices.Delete(l.shapes, i, i+1)
	return nil
}

// Clear removes every shape. The canvas is kept.
func (l *Layout) Clear() {
	l.shapes = nil
}

// Resize changes both canvas dimensions at once. On error the canvas is
// left untouched.
func (l *Layout) Resize(width, height float64) error {
	c, err := NewCanvas(width, height)
	if err != nil {
		return err
	}
	l.Canvas = c
	return nil
}

// Snapshot returns a structural copy that shares no mutable state with l.
func (l *Layout) Snapshot() *Layout {
	return &Layout{Canvas: l.Canvas, shapes: slices.Clone(l.shapes)}
}

func (l *Layout) checkIndex(i int) error {
	if i < 0 || i >= len(l.shapes) {
		return errors.New(errors.ErrCodeInvalidIndex, "shape index %d out of range [0, %d)", i, len(l.shapes))
	}
	return nil
}
