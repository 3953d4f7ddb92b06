// Package report renders layout analysis results for export.
//
// Each renderer takes a layout and its [geom.Metrics] and returns the
// encoded artifact:
//
//   - [RenderCSV]: one row per shape with measurements and style
//   - [RenderJSON]: metrics summary plus the same per-shape rows
//   - [RenderPDF]: a printable sheet with the floor plan drawn to scale
//   - [RenderClashSVG]: the clash graph, shapes as nodes and overlaps as edges
//
// Renderers accept functional options such as [WithTitle] and
// [WithPrecision]. [Render] dispatches on a [Format] for callers that pick
// the output at runtime, such as the export pipeline.
//
// Metrics are passed in rather than recomputed so one analysis pass can feed
// several formats.
package report
