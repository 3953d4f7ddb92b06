package io

import (
	"math"

	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
)

// Document is a named layout.
type Document struct {
	Name   string
	Layout *geom.Layout

	// Skipped counts source objects that have no shape equivalent, such as
	// fabric.js freehand paths. Native formats always leave it at zero.
	Skipped int
}

// NewDocument wraps a layout with a name.
func NewDocument(name string, l *geom.Layout) *Document {
	return &Document{Name: name, Layout: l}
}

type document struct {
	Name   string   `json:"name" toml:"name"`
	Canvas canvas   `json:"canvas" toml:"canvas"`
	Shapes []record `json:"shapes" toml:"shapes"`
}

type canvas struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

type point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// record is one shape on the wire. Geometry fields are pointers so a
// missing field can be told apart from an explicit zero. Nil pointers are
// never encoded.
type record struct {
	Type string `json:"type" toml:"type"`
	ID   string `json:"id,omitempty" toml:"id,omitempty"`

	X1 *float64 `json:"x1,omitempty" toml:"x1"`
	Y1 *float64 `json:"y1,omitempty" toml:"y1"`
	X2 *float64 `json:"x2,omitempty" toml:"x2"`
	Y2 *float64 `json:"y2,omitempty" toml:"y2"`

	X      *float64 `json:"x,omitempty" toml:"x"`
	Y      *float64 `json:"y,omitempty" toml:"y"`
	Width  *float64 `json:"width,omitempty" toml:"width"`
	Height *float64 `json:"height,omitempty" toml:"height"`

	CX     *float64 `json:"cx,omitempty" toml:"cx"`
	CY     *float64 `json:"cy,omitempty" toml:"cy"`
	Radius *float64 `json:"radius,omitempty" toml:"radius"`

	Points []point `json:"points,omitempty" toml:"points,omitempty"`

	StrokeColor string  `json:"stroke_color,omitempty" toml:"stroke_color,omitempty"`
	FillColor   string  `json:"fill_color,omitempty" toml:"fill_color,omitempty"`
	StrokeWidth float64 `json:"stroke_width,omitempty" toml:"stroke_width,omitempty"`
}

func f(v float64) *float64 { return &v }

func encode(d *Document) document {
	out := document{Name: d.Name, Shapes: []record{}}
	if d.Layout == nil {
		return out
	}
	out.Canvas = canvas{Width: d.Layout.Canvas.Width, Height: d.Layout.Canvas.Height}
	for _, s := range d.Layout.All() {
		out.Shapes = append(out.Shapes, encodeShape(s))
	}
	return out
}

func encodeShape(s geom.Shape) record {
	r := record{
		Type:        string(s.Kind()),
		ID:          s.ID,
		StrokeColor: s.Style.StrokeColor,
		FillColor:   s.Style.FillColor,
		StrokeWidth: s.Style.StrokeWidth,
	}
	switch g := s.Geometry().(type) {
	case geom.Line:
		r.X1, r.Y1, r.X2, r.Y2 = f(g.X1), f(g.Y1), f(g.X2), f(g.Y2)
	case geom.Rect:
		r.X, r.Y, r.Width, r.Height = f(g.X), f(g.Y), f(g.Width), f(g.Height)
	case geom.Circle:
		r.CX, r.CY, r.Radius = f(g.CX), f(g.CY), f(g.Radius)
	case geom.Polygon:
		r.Points = make([]point, len(g.Points))
		for i, p := range g.Points {
			r.Points[i] = point{X: p.X, Y: p.Y}
		}
	}
	return r
}

func decode(in document) (*Document, error) {
	c := geom.Canvas{Width: in.Canvas.Width, Height: in.Canvas.Height}
	if err := checkCanvas(c); err != nil {
		return nil, err
	}
	l := geom.NewLayout(c)
	for i, r := range in.Shapes {
		s, err := decodeShape(r)
		if err != nil {
			return nil, indexed(err, i)
		}
		if _, err := l.Append(s); err != nil {
			return nil, err
		}
	}
	return &Document{Name: in.Name, Layout: l}, nil
}

// checkCanvas accepts a zero canvas, which stored documents may carry, but
// rejects negative or non-finite dimensions.
func checkCanvas(c geom.Canvas) error {
	for _, d := range []struct {
		field string
		v     float64
	}{{"width", c.Width}, {"height", c.Height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) || d.v < 0 {
			return errors.Invalid("canvas", d.field, d.v, "must be a non-negative number")
		}
	}
	return nil
}

func decodeShape(r record) (geom.Shape, error) {
	st := geom.Style{StrokeColor: r.StrokeColor, FillColor: r.FillColor, StrokeWidth: r.StrokeWidth}
	var (
		s   geom.Shape
		err error
	)
	switch geom.Kind(r.Type) {
	case geom.KindLine:
		if err := require(r.Type, "x1", r.X1, "y1", r.Y1, "x2", r.X2, "y2", r.Y2); err != nil {
			return geom.Shape{}, err
		}
		s, err = geom.NewLine(*r.X1, *r.Y1, *r.X2, *r.Y2, st)
	case geom.KindRect:
		if err := require(r.Type, "x", r.X, "y", r.Y, "width", r.Width, "height", r.Height); err != nil {
			return geom.Shape{}, err
		}
		s, err = geom.NewRect(*r.X, *r.Y, *r.Width, *r.Height, st)
	case geom.KindCircle:
		if err := require(r.Type, "cx", r.CX, "cy", r.CY, "radius", r.Radius); err != nil {
			return geom.Shape{}, err
		}
		s, err = geom.NewCircle(*r.CX, *r.CY, *r.Radius, st)
	case geom.KindPolygon:
		pts := make([]geom.Point, len(r.Points))
		for i, p := range r.Points {
			pts[i] = geom.Point{X: p.X, Y: p.Y}
		}
		s, err = geom.NewPolygon(pts, st)
	default:
		return geom.Shape{}, errors.Invalid(r.Type, "type", r.Type, "unknown shape type")
	}
	if err != nil {
		return geom.Shape{}, err
	}
	return s.WithID(r.ID), nil
}

// require takes alternating field names and values.
func require(kind string, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1].(*float64) == nil {
			return errors.Invalid(kind, pairs[i].(string), nil, "missing")
		}
	}
	return nil
}

func indexed(err error, i int) error {
	if v, ok := err.(*errors.ValidationError); ok {
		return v.AtIndex(i)
	}
	return err
}
