// Package io reads and writes layout documents.
//
// # Overview
//
// A document is a named [geom.Layout]: a canvas plus an ordered shape list.
// Three encodings are supported:
//
//   - Native JSON, the format used by the layout store and the HTTP API
//   - The same document as TOML, convenient for hand-written layouts
//   - fabric.js canvas JSON, as emitted by browser drawing widgets (import only)
//
// # JSON Format
//
//	{
//	  "name": "warehouse-a",
//	  "canvas": {"width": 1000, "height": 1000},
//	  "shapes": [
//	    {"type": "rect", "x": 0, "y": 0, "width": 100, "height": 100, "fill_color": "#ffa500"},
//	    {"type": "circle", "cx": 300, "cy": 300, "radius": 25},
//	    {"type": "line", "x1": 0, "y1": 0, "x2": 3, "y2": 4, "stroke_width": 2},
//	    {"type": "polygon", "points": [{"x": 0, "y": 0}, {"x": 4, "y": 0}, {"x": 4, "y": 3}]}
//	  ]
//	}
//
// Every geometry field of a shape's type is required. Style fields
// (stroke_color, fill_color, stroke_width) and id are optional.
//
// # Validation
//
// Decoding builds every shape through the geom constructors, so a document
// that decodes successfully holds only valid shapes. Failures are reported
// as [errors.ValidationError] with Index set to the offending record.
//
// # Round Trip
//
// Writers emit shapes exactly as stored. Rectangles with negative extents
// are not normalized, so a document reloads field-for-field.
//
// [errors.ValidationError]: github.com/matzehuels/spaceforge/pkg/errors.ValidationError
package io
