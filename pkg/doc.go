// Package pkg holds the spaceforge libraries.
//
// # Overview
//
// Spaceforge measures 2D floor layouts: how much of a canvas the shapes
// cover, how long their runs are, which shapes overlap and which fall
// outside the canvas. The packages layer as follows:
//
//  1. [geom] - shapes, layouts and every metric (no I/O)
//  2. [io] - JSON, TOML and fabric.js documents
//  3. [report] - csv, json, pdf, dot and svg renderers
//  4. [pipeline] - cached analyze and render orchestration
//  5. [cache], [store] - result cache and layout persistence
//  6. [errors], [observability], [buildinfo] - shared plumbing
//
// # Data flow
//
//	layout file / HTTP body
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [geom] package (Analyze)
//	         ↓
//	    [report] package (Render)
//	         ↓
//	CSV/JSON/PDF/DOT/SVG output
//
// [geom]: github.com/matzehuels/spaceforge/pkg/geom
// [io]: github.com/matzehuels/spaceforge/pkg/io
// [report]: github.com/matzehuels/spaceforge/pkg/report
// [pipeline]: github.com/matzehuels/spaceforge/pkg/pipeline
// [cache]: github.com/matzehuels/spaceforge/pkg/cache
// [store]: github.com/matzehuels/spaceforge/pkg/store
// [errors]: github.com/matzehuels/spaceforge/pkg/errors
// [observability]: github.com/matzehuels/spaceforge/pkg/observability
// [buildinfo]: github.com/matzehuels/spaceforge/pkg/buildinfo
package pkg
