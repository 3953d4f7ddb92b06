// Package geom is the layout geometry and measurement engine for Space Forge.
//
// # Overview
//
// A [Layout] is an ordered list of [Shape] values placed on a [Canvas].
// Insertion order is z-order: later shapes are drawn on top. Each Shape is a
// closed tagged variant over four geometries:
//
//   - [Line]: two endpoints, zero width
//   - [Rect]: top-left corner plus signed width/height
//   - [Circle]: centre plus non-negative radius
//   - [Polygon]: three or more vertices, implicitly closed
//
// and carries mutable display attributes ([Style]).
//
// # Construction
//
// Shapes are built with [NewLine], [NewRect], [NewCircle] and [NewPolygon].
// Malformed input (negative radius, fewer than three polygon vertices,
// non-finite coordinates, negative stroke width) fails immediately with an
// [errors.ValidationError]. Past that boundary every function in this
// package is total: it cannot fail and never panics on a shape produced by a
// constructor.
//
// # Measurements
//
//	l := geom.NewLayout(geom.Canvas{Width: 1000, Height: 1000})
//	rack, _ := geom.NewRect(0, 0, 100, 100, geom.Style{})
//	l.Append(rack)
//
//	geom.Area(rack)          // 10000
//	geom.Utilization(l)      // 1.0
//	geom.PairwiseClashes(l)  // []
//
// [Normalize] rewrites a rectangle drawn corner-to-corner in any direction
// into top-left form. [BoundingBox], [Area] and [Length] are defined for every
// kind. [Overlaps] is exact for rectangle and circle pairs and falls back to a
// conservative bounding-box test whenever a line or polygon is involved, so it
// may report a clash that a full polygon intersection would not. A wall drawn
// straight through a rack clashes with it even though the wall's box is flat.
//
// [Analyze] bundles every aggregate ([Utilization], [TotalLength],
// [TotalPerimeter], [PairwiseClashes], [OutOfBounds], [CountByKind]) into a
// single [Metrics] value for reports and the HTTP API.
//
// # Concurrency
//
// Engine functions keep no state and perform no I/O. A Layout has no
// internal locking: concurrent readers may share one as long as nobody
// mutates it. Callers that keep editing a Layout should hand readers a
// [Layout.Snapshot].
//
// [errors.ValidationError]: github.com/matzehuels/spaceforge/pkg/errors.ValidationError
package geom
