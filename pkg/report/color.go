package report

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"orange": "#ffa500",
	"yellow": "#ffff00",
	"gray":   "#808080",
	"grey":   "#808080",
}

// parseColor understands hex (#rgb, #rrggbb), rgb(), rgba() and a few CSS
// names. It reports false for empty, "none" and "transparent".
func parseColor(s string) (c colorful.Color, alpha float64, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none", "transparent":
		return colorful.Color{}, 0, false
	}
	if hex, found := namedColors[s]; found {
		s = hex
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return colorful.Color{}, 0, false
		}
		return c, 1, true
	}

	compact := strings.ReplaceAll(s, " ", "")
	var r, g, b int
	alpha = 1
	var err error
	switch {
	case strings.HasPrefix(compact, "rgba("):
		_, err = fmt.Sscanf(compact, "rgba(%d,%d,%d,%g)", &r, &g, &b, &alpha)
	case strings.HasPrefix(compact, "rgb("):
		_, err = fmt.Sscanf(compact, "rgb(%d,%d,%d)", &r, &g, &b)
	default:
		return colorful.Color{}, 0, false
	}
	if err != nil {
		return colorful.Color{}, 0, false
	}
	c = colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Clamped()
	return c, min(max(alpha, 0), 1), true
}
