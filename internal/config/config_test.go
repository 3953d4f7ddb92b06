package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/spaceforge/pkg/cache"
	"github.com/matzehuels/spaceforge/pkg/errors"
)

// isolate points XDG lookups at a temp dir and clears SPACEFORGE_* vars.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	for _, k := range []string{
		"SPACEFORGE_STORE_BACKEND", "SPACEFORGE_STORE_PATH", "SPACEFORGE_MONGO_URI",
		"SPACEFORGE_CACHE_BACKEND", "SPACEFORGE_CACHE_TTL", "SPACEFORGE_CACHE_PREFIX", "SPACEFORGE_REDIS_DB",
		"SPACEFORGE_ADDR", "SPACEFORGE_CANVAS_WIDTH", "SPACEFORGE_CANVAS_HEIGHT",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg.Store != want.Store || cfg.Cache != want.Cache || cfg.Server != want.Server || cfg.Canvas != want.Canvas {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "spaceforge", "config.toml"), `
[store]
backend = "sqlite"
path = "/tmp/layouts.db"

[cache]
backend = "none"
ttl = "90m"

[server]
addr = ":9000"

[canvas]
width = 400
height = 300
`)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/tmp/layouts.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Cache.Backend != "none" || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if c := cfg.DefaultCanvas(); c.Width != 400 || c.Height != 300 {
		t.Errorf("DefaultCanvas() = %v", c)
	}
	// unset keys keep their defaults
	if cfg.Store.MongoDatabase != "spaceforge" {
		t.Errorf("MongoDatabase = %q", cfg.Store.MongoDatabase)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeFile(t, path, "[server]\naddr = \":9000\"\n")

	t.Setenv("SPACEFORGE_ADDR", ":7000")
	t.Setenv("SPACEFORGE_STORE_BACKEND", "memory")
	t.Setenv("SPACEFORGE_CACHE_TTL", "2h")
	t.Setenv("SPACEFORGE_CANVAS_WIDTH", "50")
	t.Setenv("SPACEFORGE_REDIS_DB", "not-a-number")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Errorf("env should override file, got %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "memory" || cfg.Cache.TTL.Duration != 2*time.Hour || cfg.Canvas.Width != 50 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Cache.RedisDB != 0 {
		t.Errorf("unparsable int should keep default, got %d", cfg.Cache.RedisDB)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"bad store", "[store]\nbackend = \"postgres\"\n", errors.ErrCodeInvalidInput},
		{"mongo without uri", "[store]\nbackend = \"mongo\"\n", errors.ErrCodeInvalidInput},
		{"bad cache", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"zero canvas", "[canvas]\nwidth = 0\nheight = 10\n", errors.ErrCodeInvalidCanvas},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			writeFile(t, path, tt.content)
			if _, err := Load(path); !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		if _, err := Load(filepath.Join(dir, "nope.toml")); err == nil {
			t.Error("explicit missing file should fail")
		}
	})
	t.Run("bad ttl", func(t *testing.T) {
		path := filepath.Join(dir, "ttl.toml")
		writeFile(t, path, "[cache]\nttl = \"soon\"\n")
		if _, err := Load(path); err == nil {
			t.Error("unparsable ttl should fail")
		}
	})
}

func TestOpenCache(t *testing.T) {
	dir := isolate(t)
	ctx := context.Background()

	cfg := Default()
	c, err := cfg.OpenCache(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache() = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != filepath.Join(dir, "cache", "spaceforge") {
		t.Errorf("Dir() = %q", fc.Dir())
	}

	if c, _ := cfg.OpenCache(ctx, true); c != cache.NewNullCache() {
		t.Errorf("noCache should yield NullCache, got %T", c)
	}
	cfg.Cache.Backend = CacheNone
	if c, _ := cfg.OpenCache(ctx, false); c != cache.NewNullCache() {
		t.Errorf("backend none should yield NullCache, got %T", c)
	}
}

func TestOpenStore(t *testing.T) {
	isolate(t)
	cfg := Default()
	cfg.Store.Backend = "memory"
	st, err := cfg.OpenStore(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := st.List(context.Background()); err != nil {
		t.Errorf("List: %v", err)
	}
}

func TestKeyer(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Keyer().AnalysisKey("h"); got != "analysis:h" {
		t.Errorf("unscoped key = %q", got)
	}

	t.Setenv("SPACEFORGE_CACHE_PREFIX", "staging:")
	if cfg, err = Load(""); err != nil {
		t.Fatal(err)
	}
	if got := cfg.Keyer().AnalysisKey("h"); got != "staging:analysis:h" {
		t.Errorf("scoped key = %q", got)
	}
}
