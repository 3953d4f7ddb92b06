package report

import "github.com/matzehuels/spaceforge/pkg/geom"

// Row is the per-shape line shared by the tabular renderers.
type Row struct {
	Index       int     `json:"index"`
	ID          string  `json:"id,omitempty"`
	Type        string  `json:"type"`
	MinX        float64 `json:"min_x"`
	MinY        float64 `json:"min_y"`
	MaxX        float64 `json:"max_x"`
	MaxY        float64 `json:"max_y"`
	Area        float64 `json:"area"`
	Length      float64 `json:"length"`
	OutOfBounds bool    `json:"out_of_bounds"`
	Clashes     int     `json:"clashes"`
	StrokeColor string  `json:"stroke_color,omitempty"`
	FillColor   string  `json:"fill_color,omitempty"`
	StrokeWidth float64 `json:"stroke_width"`
}

// Rows builds one Row per shape in z-order. Out-of-bounds flags and clash
// counts are taken from m.
func Rows(l *geom.Layout, m geom.Metrics) []Row {
	counts := geom.ClashCounts(l.Len(), m.Clashes)
	oob := make(map[int]bool, len(m.OutOfBounds))
	for _, i := range m.OutOfBounds {
		oob[i] = true
	}

	rows := make([]Row, 0, l.Len())
	for i, s := range l.All() {
		b := geom.BoundingBox(s)
		rows = append(rows, Row{
			Index:       i,
			ID:          s.ID,
			Type:        string(s.Kind()),
			MinX:        b.MinX,
			MinY:        b.MinY,
			MaxX:        b.MaxX,
			MaxY:        b.MaxY,
			Area:        geom.Area(s),
			Length:      geom.Length(s),
			OutOfBounds: oob[i],
			Clashes:     counts[i],
			StrokeColor: s.Style.StrokeColor,
			FillColor:   s.Style.FillColor,
			StrokeWidth: s.Style.StrokeWidth,
		})
	}
	return rows
}
