package io

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
)

// fabricCanvas is the subset of a fabric.js canvas export that maps onto
// layout shapes.
type fabricCanvas struct {
	Objects []fabricObject `json:"objects"`
}

type fabricObject struct {
	Type        string   `json:"type"`
	OriginX     string   `json:"originX"`
	OriginY     string   `json:"originY"`
	Left        float64  `json:"left"`
	Top         float64  `json:"top"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	ScaleX      *float64 `json:"scaleX"`
	ScaleY      *float64 `json:"scaleY"`
	Radius      float64  `json:"radius"`
	X1          float64  `json:"x1"`
	Y1          float64  `json:"y1"`
	X2          float64  `json:"x2"`
	Y2          float64  `json:"y2"`
	Points      []point  `json:"points"`
	PathOffset  *point   `json:"pathOffset"`
	Stroke      *string  `json:"stroke"`
	Fill        *string  `json:"fill"`
	StrokeWidth float64  `json:"strokeWidth"`
}

func (o fabricObject) scale() (sx, sy float64) {
	sx, sy = 1, 1
	if o.ScaleX != nil {
		sx = *o.ScaleX
	}
	if o.ScaleY != nil {
		sy = *o.ScaleY
	}
	return sx, sy
}

// center returns the object's centre in canvas coordinates, honouring the
// origin the object was positioned by.
func (o fabricObject) center() (cx, cy float64) {
	sx, sy := o.scale()
	w, h := o.Width*sx, o.Height*sy
	if o.Type == "circle" {
		// Circles are positioned by their radius; width may be omitted.
		w, h = 2*o.Radius*sx, 2*o.Radius*sy
	}
	cx, cy = o.Left+w/2, o.Top+h/2
	switch o.OriginX {
	case "center":
		cx = o.Left
	case "right":
		cx = o.Left - w/2
	}
	switch o.OriginY {
	case "center":
		cy = o.Top
	case "bottom":
		cy = o.Top - h/2
	}
	return cx, cy
}

func (o fabricObject) style() geom.Style {
	st := geom.Style{StrokeWidth: o.StrokeWidth}
	if o.Stroke != nil {
		st.StrokeColor = *o.Stroke
	}
	if o.Fill != nil {
		st.FillColor = *o.Fill
	}
	return st
}

// ReadFabric converts a fabric.js canvas export into a document on canvas c.
//
// Rectangles, circles, lines and polygons are converted with their scale
// applied. Rotation is not representable and is ignored. Freehand paths and
// other object types are skipped and counted in Document.Skipped.
func ReadFabric(r io.Reader, c geom.Canvas) (*Document, error) {
	var data fabricCanvas
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}

	doc := &Document{Layout: geom.NewLayout(c)}
	for i, o := range data.Objects {
		s, ok, err := fabricShape(o)
		if err != nil {
			return nil, indexed(err, i)
		}
		if !ok {
			doc.Skipped++
			continue
		}
		if _, err := doc.Layout.Append(s); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func fabricShape(o fabricObject) (geom.Shape, bool, error) {
	sx, sy := o.scale()
	cx, cy := o.center()
	st := o.style()

	var (
		s   geom.Shape
		err error
	)
	switch o.Type {
	case "rect":
		w, h := o.Width*sx, o.Height*sy
		s, err = geom.NewRect(cx-w/2, cy-h/2, w, h, st)
	case "circle":
		s, err = geom.NewCircle(cx, cy, o.Radius*sx, st)
	case "line":
		// Line endpoints are stored relative to the object's centre.
		s, err = geom.NewLine(cx+o.X1*sx, cy+o.Y1*sy, cx+o.X2*sx, cy+o.Y2*sy, st)
	case "polygon":
		pts := make([]geom.Point, len(o.Points))
		for i, p := range o.Points {
			if o.PathOffset != nil {
				pts[i] = geom.Point{X: cx + (p.X-o.PathOffset.X)*sx, Y: cy + (p.Y-o.PathOffset.Y)*sy}
			} else {
				pts[i] = geom.Point{X: p.X, Y: p.Y}
			}
		}
		s, err = geom.NewPolygon(pts, st)
	default:
		return geom.Shape{}, false, nil
	}
	if err != nil {
		return geom.Shape{}, false, err
	}
	return s, true, nil
}
