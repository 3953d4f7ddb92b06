package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/matzehuels/spaceforge/pkg/geom"
)

var csvHeader = []string{
	"index", "id", "type",
	"min_x", "min_y", "max_x", "max_y",
	"area", "length", "out_of_bounds", "clashes",
	"stroke_color", "fill_color", "stroke_width",
}

// RenderCSV writes one row per shape, preceded by a header row.
func RenderCSV(l *geom.Layout, m geom.Metrics, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range Rows(l, m) {
		rec := []string{
			strconv.Itoa(r.Index), r.ID, r.Type,
			o.format(r.MinX), o.format(r.MinY), o.format(r.MaxX), o.format(r.MaxY),
			o.format(r.Area), o.format(r.Length),
			strconv.FormatBool(r.OutOfBounds), strconv.Itoa(r.Clashes),
			r.StrokeColor, r.FillColor, o.format(r.StrokeWidth),
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r.Index, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return buf.Bytes(), nil
}
