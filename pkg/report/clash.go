package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/spaceforge/pkg/geom"
)

// ClashDOT converts the clash set into an undirected Graphviz graph.
// Every shape that takes part in a clash becomes a node labelled with its
// index, kind and area; each clashing pair becomes an edge. Shapes outside
// the canvas are drawn dashed.
func ClashDOT(l *geom.Layout, m geom.Metrics, opts ...Option) string {
	o := newOptions(opts)
	counts := geom.ClashCounts(l.Len(), m.Clashes)
	oob := make(map[int]bool, len(m.OutOfBounds))
	for _, i := range m.OutOfBounds {
		oob[i] = true
	}

	var buf bytes.Buffer
	buf.WriteString("graph clashes {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", o.title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=\"#fee2e2\", color=\"#dc2626\", fontsize=14];\n")
	buf.WriteString("\n")

	for i, s := range l.All() {
		if counts[i] == 0 {
			continue
		}
		label := fmt.Sprintf("#%d %s", i, s.Kind())
		if s.ID != "" {
			label += "\n" + s.ID
		}
		label += "\narea " + o.format(geom.Area(s))
		attrs := fmt.Sprintf("label=%q", label)
		if oob[i] {
			attrs += ", style=\"rounded,filled,dashed\""
		}
		fmt.Fprintf(&buf, "  \"%d\" [%s];\n", i, attrs)
	}

	buf.WriteString("\n")
	for _, p := range m.Clashes {
		fmt.Fprintf(&buf, "  \"%d\" -- \"%d\";\n", p.I, p.J)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderClashSVG renders a DOT graph to SVG using Graphviz.
func RenderClashSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
