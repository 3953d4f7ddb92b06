package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnAnalyzeStart(ctx, 10)
	p.OnAnalyzeComplete(ctx, 10, 2, time.Second, nil)
	p.OnRenderStart(ctx, []string{"pdf"})
	p.OnRenderComplete(ctx, []string{"pdf"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "analysis")
	c.OnCacheSet(ctx, "report", 1024)

	NoopStoreHooks{}.OnStoreOp(ctx, "save", time.Millisecond, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/layouts")
	h.OnResponse(ctx, "GET", "/layouts", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	hooks := NewLogHooks(nil)
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetStoreHooks(hooks)
	SetHTTPHooks(hooks)
	if Pipeline() != hooks || Cache() != hooks || Store() != hooks || HTTP() != hooks {
		t.Error("setters should register custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)

	ctx := context.Background()
	h.OnAnalyzeComplete(ctx, 4, 1, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "report")
	h.OnStoreOp(ctx, "list", time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{"analyze done", "clashes=1", "cache miss", "op=list"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
