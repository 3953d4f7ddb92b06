package io

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
)

func sampleDoc(t *testing.T) *Document {
	t.Helper()
	l := geom.NewLayout(geom.Canvas{Width: 1000, Height: 800})
	add := func(s geom.Shape, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := l.Append(s); err != nil {
			t.Fatal(err)
		}
	}
	add(geom.NewRect(50, 40, -20, -30, geom.Style{FillColor: "#ffa500", StrokeColor: "#000000", StrokeWidth: 2}))
	add(geom.NewCircle(300, 300, 0, geom.Style{}))
	add(geom.NewLine(0, 0, 3, 4, geom.Style{StrokeWidth: 1}))
	add(geom.NewPolygon([]geom.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}}, geom.Style{}))
	s := l.Shape(0).WithID("rack-1")
	if err := l.Replace(0, s); err != nil {
		t.Fatal(err)
	}
	return NewDocument("warehouse", l)
}

func assertSameDoc(t *testing.T, got, want *Document) {
	t.Helper()
	if got.Name != want.Name {
		t.Errorf("Name = %q, want %q", got.Name, want.Name)
	}
	if got.Layout.Canvas != want.Layout.Canvas {
		t.Errorf("Canvas = %v, want %v", got.Layout.Canvas, want.Layout.Canvas)
	}
	if !reflect.DeepEqual(got.Layout.Shapes(), want.Layout.Shapes()) {
		t.Errorf("Shapes differ:\n got %+v\nwant %+v", got.Layout.Shapes(), want.Layout.Shapes())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	want := sampleDoc(t)

	var buf bytes.Buffer
	if err := WriteJSON(want, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), `"width": -20`) {
		t.Errorf("negative width should be written verbatim:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	assertSameDoc(t, got, want)

	data, err := MarshalJSON(want)
	if err != nil {
		t.Fatal(err)
	}
	again, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	assertSameDoc(t, again, want)
}

func TestTOMLRoundTrip(t *testing.T) {
	want := sampleDoc(t)

	var buf bytes.Buffer
	if err := WriteTOML(want, &buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	got, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML: %v\n%s", err, buf.String())
	}
	assertSameDoc(t, got, want)
}

func TestReadTOMLHandWritten(t *testing.T) {
	src := `
name = "bay"

[canvas]
width = 100
height = 50

[[shapes]]
type = "rect"
x = 0
y = 0
width = 10
height = 10
fill_color = "#ff0000"
`
	doc, err := ReadTOML(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "bay" || doc.Layout.Len() != 1 {
		t.Fatalf("got %q with %d shapes", doc.Name, doc.Layout.Len())
	}
	if g := doc.Layout.Shape(0).Geometry(); g != (geom.Rect{Width: 10, Height: 10}) {
		t.Errorf("Geometry() = %v", g)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCode  errors.Code
		wantIndex int
		wantField string
	}{
		{
			name:      "negative radius",
			input:     `{"canvas":{"width":10,"height":10},"shapes":[{"type":"rect","x":0,"y":0,"width":1,"height":1},{"type":"circle","cx":0,"cy":0,"radius":-1}]}`,
			wantCode:  errors.ErrCodeInvalidShape,
			wantIndex: 1,
			wantField: "radius",
		},
		{
			name:      "missing field",
			input:     `{"canvas":{"width":10,"height":10},"shapes":[{"type":"line","x1":0,"y1":0,"x2":1}]}`,
			wantCode:  errors.ErrCodeInvalidShape,
			wantIndex: 0,
			wantField: "y2",
		},
		{
			name:      "unknown type",
			input:     `{"canvas":{"width":10,"height":10},"shapes":[{"type":"star"}]}`,
			wantCode:  errors.ErrCodeInvalidShape,
			wantIndex: 0,
			wantField: "type",
		},
		{
			name:      "short polygon",
			input:     `{"canvas":{"width":10,"height":10},"shapes":[{"type":"polygon","points":[{"x":0,"y":0},{"x":1,"y":1}]}]}`,
			wantCode:  errors.ErrCodeInvalidShape,
			wantIndex: 0,
			wantField: "points",
		},
		{
			name:      "negative canvas",
			input:     `{"canvas":{"width":-10,"height":10},"shapes":[]}`,
			wantCode:  errors.ErrCodeInvalidCanvas,
			wantIndex: -1,
			wantField: "width",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantCode) {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}
			v, ok := err.(*errors.ValidationError)
			if !ok {
				t.Fatalf("error type = %T, want *errors.ValidationError", err)
			}
			if v.Index != tt.wantIndex || v.Field != tt.wantField {
				t.Errorf("got index %d field %q, want %d %q", v.Index, v.Field, tt.wantIndex, tt.wantField)
			}
		})
	}
}

func TestReadJSONZeroCanvas(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(`{"name":"empty","shapes":[]}`))
	if err != nil {
		t.Fatalf("zero canvas should decode: %v", err)
	}
	if doc.Layout.Canvas.Area() != 0 {
		t.Errorf("Canvas = %v", doc.Layout.Canvas)
	}
}

func TestReadFabric(t *testing.T) {
	src := `{
  "version": "4.4.0",
  "objects": [
    {"type": "rect", "left": 10, "top": 20, "width": 50, "height": 30, "scaleX": 2, "scaleY": 1,
     "fill": "rgba(255, 165, 0, 0.3)", "stroke": "#000", "strokeWidth": 3},
    {"type": "circle", "left": 0, "top": 0, "width": 20, "height": 20, "radius": 10},
    {"type": "path", "path": [["M", 0, 0], ["L", 5, 5]]},
    {"type": "line", "left": 0, "top": 0, "width": 10, "height": 10, "x1": -5, "y1": -5, "x2": 5, "y2": 5},
    {"type": "polygon", "left": 10, "top": 10, "width": 4, "height": 3,
     "points": [{"x": 0, "y": 0}, {"x": 4, "y": 0}, {"x": 4, "y": 3}], "pathOffset": {"x": 2, "y": 1.5}}
  ]
}`
	doc, err := ReadFabric(strings.NewReader(src), geom.Canvas{Width: 600, Height: 400})
	if err != nil {
		t.Fatalf("ReadFabric: %v", err)
	}
	if doc.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", doc.Skipped)
	}

	want := []geom.Geometry{
		geom.Rect{X: 10, Y: 20, Width: 100, Height: 30},
		geom.Circle{CX: 10, CY: 10, Radius: 10},
		geom.Line{X1: 0, Y1: 0, X2: 10, Y2: 10},
		geom.Polygon{Points: []geom.Point{{X: 10, Y: 10}, {X: 14, Y: 10}, {X: 14, Y: 13}}},
	}
	if doc.Layout.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", doc.Layout.Len(), len(want))
	}
	for i, w := range want {
		if got := doc.Layout.Shape(i).Geometry(); !reflect.DeepEqual(got, w) {
			t.Errorf("shape %d = %v, want %v", i, got, w)
		}
	}

	st := doc.Layout.Shape(0).Style
	if st.FillColor != "rgba(255, 165, 0, 0.3)" || st.StrokeColor != "#000" || st.StrokeWidth != 3 {
		t.Errorf("Style = %+v", st)
	}
}

func TestReadFabricCircleCentre(t *testing.T) {
	tests := []struct {
		name string
		obj  string
		want geom.Circle
	}{
		{"width omitted", `{"type": "circle", "left": 10, "top": 20, "radius": 5}`, geom.Circle{CX: 15, CY: 25, Radius: 5}},
		{"width present", `{"type": "circle", "left": 10, "top": 20, "width": 10, "height": 10, "radius": 5}`, geom.Circle{CX: 15, CY: 25, Radius: 5}},
		{"scaled", `{"type": "circle", "left": 10, "top": 20, "radius": 5, "scaleX": 2, "scaleY": 2}`, geom.Circle{CX: 20, CY: 30, Radius: 10}},
		{"centre origin", `{"type": "circle", "left": 50, "top": 40, "radius": 5, "originX": "center", "originY": "center"}`, geom.Circle{CX: 50, CY: 40, Radius: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `{"objects": [` + tt.obj + `]}`
			doc, err := ReadFabric(strings.NewReader(src), geom.Canvas{Width: 100, Height: 100})
			if err != nil {
				t.Fatalf("ReadFabric: %v", err)
			}
			if got := doc.Layout.Shape(0).Geometry(); got != tt.want {
				t.Errorf("circle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadFabricInvalidObject(t *testing.T) {
	src := `{"objects": [{"type": "path"}, {"type": "circle", "radius": -2}]}`
	_, err := ReadFabric(strings.NewReader(src), geom.Canvas{Width: 10, Height: 10})
	v, ok := err.(*errors.ValidationError)
	if !ok || v.Index != 1 {
		t.Errorf("error = %v, want ValidationError at index 1", err)
	}
}

func TestImportExportByExtension(t *testing.T) {
	dir := t.TempDir()
	want := sampleDoc(t)

	for _, name := range []string{"plan.json", "plan.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Export(want, path); err != nil {
				t.Fatalf("Export: %v", err)
			}
			got, err := Import(path, geom.Canvas{})
			if err != nil {
				t.Fatalf("Import: %v", err)
			}
			assertSameDoc(t, got, want)
		})
	}

	if err := Export(want, filepath.Join(dir, "plan.yaml")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Export(.yaml) error = %v, want INVALID_FORMAT", err)
	}
	if err := Export(want, filepath.Join(dir, "plan.fabric.json")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Export(.fabric.json) error = %v, want INVALID_FORMAT", err)
	}
}

func TestImportFabricNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hall-b.fabric.json")
	if err := os.WriteFile(path, []byte(`{"objects":[{"type":"rect","width":5,"height":5}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Import(path, geom.Canvas{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "hall-b" {
		t.Errorf("Name = %q, want hall-b", doc.Name)
	}
	if doc.Layout.Canvas.Width != 100 {
		t.Errorf("fabric import should use the fallback canvas, got %v", doc.Layout.Canvas)
	}
}

func TestReadMalformed(t *testing.T) {
	readers := map[string]func(string) error{
		"json":   func(s string) error { _, err := ReadJSON(strings.NewReader(s)); return err },
		"toml":   func(s string) error { _, err := ReadTOML(strings.NewReader(s)); return err },
		"fabric": func(s string) error { _, err := ReadFabric(strings.NewReader(s), geom.Canvas{}); return err },
	}
	for name, read := range readers {
		t.Run(name, func(t *testing.T) {
			if err := read("{not valid"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}
