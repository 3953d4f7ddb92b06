package report

import (
	"bytes"
	"fmt"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/spaceforge/pkg/geom"
)

const (
	pdfMargin   = 15.0 // mm
	pdfLineH    = 6.0
	pdfHairline = 0.2
)

// RenderPDF produces a printable report: a metrics summary, the floor plan
// scaled to fit the page, and a list of clashes and out-of-bounds shapes.
func RenderPDF(l *geom.Layout, m geom.Metrics, opts ...Option) ([]byte, error) {
	o := newOptions(opts)

	pdf := gofpdf.New("P", "mm", o.pageSize, "")
	pdf.SetTitle(o.title, true)
	pdf.SetCreator("spaceforge", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, o.title, "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	for _, line := range summaryLines(l, m, o) {
		pdf.CellFormat(0, pdfLineH, line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	drawPlan(pdf, l, m)
	writeFindings(pdf, l, m)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLines(l *geom.Layout, m geom.Metrics, o options) []string {
	lines := []string{
		fmt.Sprintf("Canvas: %s x %s (area %s)", o.format(l.Canvas.Width), o.format(l.Canvas.Height), o.format(m.CanvasArea)),
		fmt.Sprintf("Shapes: %d", m.ShapeCount),
	}
	for _, k := range geom.Kinds {
		lines = append(lines, fmt.Sprintf("  %s: %d", k, m.CountByKind[k]))
	}
	return append(lines,
		fmt.Sprintf("Used area: %s", o.format(m.UsedArea)),
		fmt.Sprintf("Utilization: %s%%", o.format(m.Utilization)),
		fmt.Sprintf("Total length: %s", o.format(m.TotalLength)),
		fmt.Sprintf("Total perimeter: %s", o.format(m.TotalPerimeter)),
		fmt.Sprintf("Clashes: %d", len(m.Clashes)),
		fmt.Sprintf("Out of bounds: %d", len(m.OutOfBounds)),
	)
}

// drawPlan draws the canvas outline and every shape below the current
// cursor, scaled uniformly to the remaining page area.
func drawPlan(pdf *gofpdf.Fpdf, l *geom.Layout, m geom.Metrics) {
	pageW, pageH := pdf.GetPageSize()
	top := pdf.GetY()
	availW := pageW - 2*pdfMargin
	availH := pageH - top - pdfMargin

	if !(l.Canvas.Area() > 0) || availH <= 0 {
		pdf.CellFormat(0, pdfLineH, "(canvas has no area; plan omitted)", "", 1, "L", false, 0, "")
		return
	}

	scale := math.Min(availW/l.Canvas.Width, availH/l.Canvas.Height)
	tx := func(x float64) float64 { return pdfMargin + x*scale }
	ty := func(y float64) float64 { return top + y*scale }

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(pdfHairline)
	pdf.Rect(tx(0), ty(0), l.Canvas.Width*scale, l.Canvas.Height*scale, "D")

	clashing := make(map[int]bool)
	for _, p := range m.Clashes {
		clashing[p.I], clashing[p.J] = true, true
	}

	for i, s := range l.All() {
		style := applyStyle(pdf, s.Style, scale, clashing[i])
		switch g := geom.Normalize(s).Geometry().(type) {
		case geom.Rect:
			pdf.Rect(tx(g.X), ty(g.Y), g.Width*scale, g.Height*scale, style)
		case geom.Circle:
			pdf.Circle(tx(g.CX), ty(g.CY), g.Radius*scale, style)
		case geom.Line:
			pdf.Line(tx(g.X1), ty(g.Y1), tx(g.X2), ty(g.Y2))
		case geom.Polygon:
			pts := make([]gofpdf.PointType, len(g.Points))
			for j, p := range g.Points {
				pts[j] = gofpdf.PointType{X: tx(p.X), Y: ty(p.Y)}
			}
			pdf.Polygon(pts, style)
		}
		pdf.SetAlpha(1, "Normal")
	}
	pdf.SetY(top + l.Canvas.Height*scale + 4)
}

// applyStyle sets draw and fill state for one shape and returns the gofpdf
// style string. Clashing shapes are outlined in red.
func applyStyle(pdf *gofpdf.Fpdf, st geom.Style, scale float64, clash bool) string {
	style := "D"
	if c, a, ok := parseColor(st.FillColor); ok {
		r, g, b := c.RGB255()
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.SetAlpha(a, "Normal")
		style = "FD"
	}

	pdf.SetDrawColor(0, 0, 0)
	if c, _, ok := parseColor(st.StrokeColor); ok {
		r, g, b := c.RGB255()
		pdf.SetDrawColor(int(r), int(g), int(b))
	}
	if clash {
		pdf.SetDrawColor(220, 38, 38)
	}

	pdf.SetLineWidth(math.Max(pdfHairline, st.StrokeWidth*scale))
	return style
}

func writeFindings(pdf *gofpdf.Fpdf, l *geom.Layout, m geom.Metrics) {
	if len(m.Clashes) == 0 && len(m.OutOfBounds) == 0 {
		return
	}
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 12)

	label := func(i int) string {
		s := l.Shape(i)
		if s.ID != "" {
			return fmt.Sprintf("#%d %s (%s)", i, s.Kind(), s.ID)
		}
		return fmt.Sprintf("#%d %s", i, s.Kind())
	}

	if len(m.Clashes) > 0 {
		pdf.CellFormat(0, 8, "Clashes", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range m.Clashes {
			pdf.CellFormat(0, pdfLineH, label(p.I)+" overlaps "+label(p.J), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}
	if len(m.OutOfBounds) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Outside the canvas", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, i := range m.OutOfBounds {
			pdf.CellFormat(0, pdfLineH, label(i), "", 1, "L", false, 0, "")
		}
	}
}
