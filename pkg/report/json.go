package report

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/spaceforge/pkg/geom"
)

type jsonOutput struct {
	Title   string       `json:"title"`
	Canvas  jsonCanvas   `json:"canvas"`
	Metrics geom.Metrics `json:"metrics"`
	Shapes  []Row        `json:"shapes"`
}

type jsonCanvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderJSON encodes the metrics and per-shape rows as indented JSON.
// Measurements are rounded to the configured precision.
func RenderJSON(l *geom.Layout, m geom.Metrics, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	rm := m
	rm.CountByKind = maps.Clone(m.CountByKind)
	rm.Clashes = slices.Clone(m.Clashes)
	rm.OutOfBounds = slices.Clone(m.OutOfBounds)
	rm.CanvasArea = o.round(m.CanvasArea)
	rm.UsedArea = o.round(m.UsedArea)
	rm.Utilization = o.round(m.Utilization)
	rm.TotalLength = o.round(m.TotalLength)
	rm.TotalPerimeter = o.round(m.TotalPerimeter)

	rows := Rows(l, m)
	for i := range rows {
		r := &rows[i]
		r.MinX, r.MinY, r.MaxX, r.MaxY = o.round(r.MinX), o.round(r.MinY), o.round(r.MaxX), o.round(r.MaxY)
		r.Area, r.Length = o.round(r.Area), o.round(r.Length)
	}

	out := jsonOutput{
		Title:   o.title,
		Canvas:  jsonCanvas{Width: l.Canvas.Width, Height: l.Canvas.Height},
		Metrics: rm,
		Shapes:  rows,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}
