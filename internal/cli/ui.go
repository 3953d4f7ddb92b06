package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/spaceforge/pkg/geom"
	"github.com/matzehuels/spaceforge/pkg/store"
)

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors, clashes
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // secondary text
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleDanger  = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "3 shapes · 1 clash · cached" under a heading.
func printStats(w io.Writer, shapes, clashes int, cached bool) {
	status, style := "fresh", styleComputed
	if cached {
		status, style = "cached", styleCached
	}
	clashWord := "clashes"
	if clashes == 1 {
		clashWord = "clash"
	}
	sep := StyleDim.Render(" · ")
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf("%d shapes", shapes))+sep+
		StyleDim.Render(fmt.Sprintf("%d %s", clashes, clashWord))+sep+style.Render(status))
}

// printMetrics prints the summary block for m.
func printMetrics(w io.Writer, m geom.Metrics) {
	printKeyValue(w, "Canvas area", formatFloat(m.CanvasArea))
	printKeyValue(w, "Used area", formatFloat(m.UsedArea))
	printKeyValue(w, "Utilization", fmt.Sprintf("%.2f%%", m.Utilization))
	printKeyValue(w, "Total length", formatFloat(m.TotalLength))
	printKeyValue(w, "Perimeter", formatFloat(m.TotalPerimeter))

	kinds := make([]string, 0, len(m.CountByKind))
	for k := range m.CountByKind {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		printKeyValue(w, k+"s", strconv.Itoa(m.CountByKind[geom.Kind(k)]))
	}

	if len(m.Clashes) == 0 {
		printSuccess(w, "No overlapping shapes")
	} else {
		printWarning(w, "%d overlapping pairs", len(m.Clashes))
		for _, p := range m.Clashes {
			printDetail(w, "shape %d overlaps shape %d", p.I, p.J)
		}
	}
	if len(m.OutOfBounds) > 0 {
		printWarning(w, "%d shapes outside the canvas: %v", len(m.OutOfBounds), m.OutOfBounds)
	}
}

// shapeTable renders one row per shape with its bounding box and measures.
func shapeTable(l *geom.Layout, m geom.Metrics) string {
	clashes := geom.ClashCounts(l.Len(), m.Clashes)
	outside := make(map[int]bool, len(m.OutOfBounds))
	for _, i := range m.OutOfBounds {
		outside[i] = true
	}

	rows := make([][]string, 0, l.Len())
	for i, s := range l.All() {
		b := geom.BoundingBox(s)
		rows = append(rows, []string{
			strconv.Itoa(i),
			string(s.Kind()),
			s.ID,
			fmt.Sprintf("(%s, %s)-(%s, %s)", formatFloat(b.MinX), formatFloat(b.MinY), formatFloat(b.MaxX), formatFloat(b.MaxY)),
			formatFloat(geom.Area(s)),
			formatFloat(geom.Length(s)),
			strconv.Itoa(clashes[i]),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Type", "ID", "Bounds", "Area", "Length", "Clashes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case clashes[row] > 0:
				return lipgloss.NewStyle().Foreground(colorRed)
			case outside[row]:
				return lipgloss.NewStyle().Foreground(colorYellow)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}

// layoutTable renders stored layout summaries.
func layoutTable(list []store.Summary) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{s.ID, s.Name, strconv.Itoa(s.ShapeCount), formatRelativeTime(s.UpdatedAt)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Shapes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
