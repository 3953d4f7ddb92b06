package pipeline

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spaceforge/pkg/cache"
	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/observability"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testDoc(t *testing.T) *spio.Document {
	t.Helper()
	l := geom.NewLayout(geom.Canvas{Width: 1000, Height: 1000})
	for _, mk := range []func() (geom.Shape, error){
		func() (geom.Shape, error) { return geom.NewRect(0, 0, 100, 100, geom.Style{FillColor: "#ffa500"}) },
		func() (geom.Shape, error) { return geom.NewRect(0, 0, 100, 100, geom.Style{}) },
		func() (geom.Shape, error) { return geom.NewLine(500, 500, 503, 504, geom.Style{}) },
	} {
		s, err := mk()
		if err != nil {
			t.Fatal(err)
		}
		if _, err := l.Append(s); err != nil {
			t.Fatal(err)
		}
	}
	return spio.NewDocument("hall-a", l)
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, quietLogger())
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"csv", false},
		{"json", false},
		{"pdf", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"PDF", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"csv", "pdf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"csv", "png"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.PageSize != "A4" {
		t.Errorf("PageSize = %q, want A4", opts.PageSize)
	}
	if opts.Precision == nil || *opts.Precision != DefaultPrecision {
		t.Errorf("Precision = %v, want %d", opts.Precision, DefaultPrecision)
	}
	if opts.Logger != nil {
		t.Error("Logger should stay nil so the runner's logger is used")
	}
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad page", Options{PageSize: "B5"}, errors.ErrCodeInvalidInput},
		{"negative precision", Options{Precision: Precision(-1)}, errors.ErrCodeInvalidInput},
		{"large precision", Options{Precision: Precision(MaxPrecision + 1)}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}

	zero := Options{Precision: Precision(0)}
	if err := zero.ValidateAndSetDefaults(); err != nil || *zero.Precision != 0 {
		t.Errorf("explicit zero precision should be kept, got %v err %v", *zero.Precision, err)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"csv"}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	page, prec := opts.PageSize, opts.Precision
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if opts.PageSize != page || opts.Precision != prec {
		t.Error("defaults changed on second call")
	}
}

func TestReportKeyOpts(t *testing.T) {
	opts := Options{Title: "Hall", PageSize: "A3", Precision: Precision(1)}
	got := opts.ReportKeyOpts("pdf")
	want := cache.ReportKeyOpts{Format: "pdf", Title: "Hall", PageSize: "A3", Precision: 1}
	if got != want {
		t.Errorf("ReportKeyOpts() = %+v, want %+v", got, want)
	}
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	res, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv", "json", "dot"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.ShapeCount != 3 || res.Stats.ClashCount != 1 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Metrics.Utilization != 2 {
		t.Errorf("Utilization = %v, want 2", res.Metrics.Utilization)
	}
	if res.LayoutHash == "" {
		t.Error("LayoutHash should be set")
	}
	for _, f := range []string{"csv", "json", "dot"} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("missing artifact %s", f)
		}
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"hall-a"`)) {
		t.Error("title should default to the document name")
	}
	if res.CacheInfo.AnalyzeHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}

	again, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv", "json", "dot"}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.AnalyzeHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if again.LayoutHash != res.LayoutHash {
		t.Error("LayoutHash should be stable")
	}
	if !bytes.Equal(again.Artifacts["csv"], res.Artifacts["csv"]) {
		t.Error("cached artifact differs")
	}
	if len(again.Metrics.Clashes) != 1 || again.Metrics.Clashes[0] != (geom.Pair{I: 0, J: 1}) {
		t.Errorf("cached Clashes = %v", again.Metrics.Clashes)
	}

	refreshed, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv"}, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.AnalyzeHit || refreshed.CacheInfo.RenderHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestExecuteUsesRunLogger(t *testing.T) {
	var runnerOut, runOut bytes.Buffer
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, log.NewWithOptions(&runnerOut, log.Options{}))

	runLogger := log.NewWithOptions(&runOut, log.Options{}).With("request_id", "req-7")
	if _, err := r.Execute(context.Background(), testDoc(t), Options{Formats: []string{"csv"}, Logger: runLogger}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"analyzed layout", "rendered outputs", "request_id=req-7"} {
		if !bytes.Contains(runOut.Bytes(), []byte(want)) {
			t.Errorf("run logger output missing %q:\n%s", want, runOut.String())
		}
	}
	if runnerOut.Len() != 0 {
		t.Errorf("runner logger should be bypassed, got:\n%s", runnerOut.String())
	}

	runOut.Reset()
	if _, err := r.Execute(context.Background(), testDoc(t), Options{Formats: []string{"csv"}}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(runnerOut.Bytes(), []byte("analyzed layout")) || runOut.Len() != 0 {
		t.Errorf("without a run logger the runner's logger should be used")
	}
}

func TestExecutePartialCache(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()
	if _, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv"}}); err != nil {
		t.Fatal(err)
	}
	res, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv", "json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("RenderHit should be false when any format was rendered")
	}
	if len(res.Artifacts) != 2 {
		t.Errorf("Artifacts = %d, want 2", len(res.Artifacts))
	}
}

func TestExecuteHashIgnoresName(t *testing.T) {
	a := testDoc(t)
	b := testDoc(t)
	b.Name = "renamed"
	ha, _ := LayoutHash(a.Layout)
	hb, _ := LayoutHash(b.Layout)
	if ha != hb {
		t.Error("LayoutHash should not depend on the document name")
	}

	if err := b.Layout.Remove(2); err != nil {
		t.Fatal(err)
	}
	hc, _ := LayoutHash(b.Layout)
	if hc == ha {
		t.Error("LayoutHash should change when shapes change")
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	if _, err := r.Execute(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil document error = %v", err)
	}
	if _, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestExecuteZeroCanvas(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	doc := testDoc(t)
	doc.Layout = geom.NewLayout(geom.Canvas{})
	res, err := r.Execute(context.Background(), doc, Options{Formats: []string{"pdf"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Metrics.Utilization != 0 {
		t.Errorf("Utilization = %v, want 0", res.Metrics.Utilization)
	}
	if !bytes.HasPrefix(res.Artifacts["pdf"], []byte("%PDF-")) {
		t.Error("pdf artifact should still render")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnAnalyzeStart(context.Context, int) { h.add("analyze") }
func (h *recordingHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err == nil {
		h.add("render")
	}
}
func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) { h.add("hit:" + keyType) }

func TestExecuteFiresHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)

	r := newTestRunner(t)
	ctx := context.Background()
	for range 2 {
		if _, err := r.Execute(ctx, testDoc(t), Options{Formats: []string{"csv"}}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"analyze", "render", "hit:analysis", "hit:report"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events = %v, want %v", h.events, want)
			break
		}
	}
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Errorf("NewRunner should fill defaults: %+v", r)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
