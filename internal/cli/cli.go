// Package cli implements the spaceforge command-line interface.
//
// # Commands
//
//   - analyze: print utilization, lengths, clashes and bounds for a layout file
//   - export: render a layout as csv, json, pdf, dot or svg
//   - convert: translate between native JSON, TOML and fabric.js input
//   - layouts: save, get, list and delete stored layouts
//   - browse: pick a stored layout interactively and analyze it
//   - serve: run the HTTP API
//   - cache: clear or locate the result cache
//
// Settings come from internal/config; --config selects a file other than
// the default. All commands accept --verbose (-v) for debug logging. The
// logger travels in the command context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spaceforge/internal/config"
	"github.com/matzehuels/spaceforge/pkg/geom"
	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/observability"
	"github.com/matzehuels/spaceforge/pkg/pipeline"
	"github.com/matzehuels/spaceforge/pkg/store"
)

const appName = "spaceforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	out        io.Writer
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), out: os.Stdout}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache
// and store events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetStoreHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}
}

// SetOutput redirects command output (tables, JSON, file lists).
func (c *CLI) SetOutput(w io.Writer) { c.out = w }

func (c *CLI) loadConfig() (*config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := cfg.OpenCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cfg.Keyer(), loggerFromContext(ctx))
	r.TTL = cfg.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, *config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := cfg.OpenStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}

// importDocument reads path, placing canvas-less formats on canvas.
func importDocument(ctx context.Context, path string, canvas geom.Canvas) (*spio.Document, error) {
	doc, err := spio.Import(path, canvas)
	if err != nil {
		return nil, err
	}
	if doc.Skipped > 0 {
		loggerFromContext(ctx).Warn("skipped unsupported objects", "count", doc.Skipped, "file", path)
	}
	return doc, nil
}

// parseCanvas parses "WIDTHxHEIGHT". An empty string yields fallback.
func parseCanvas(s string, fallback geom.Canvas) (geom.Canvas, error) {
	if s == "" {
		return fallback, nil
	}
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Canvas{}, fmt.Errorf("invalid canvas %q (want WIDTHxHEIGHT)", s)
	}
	width, err1 := strconv.ParseFloat(strings.TrimSpace(w), 64)
	height, err2 := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err1 != nil || err2 != nil {
		return geom.Canvas{}, fmt.Errorf("invalid canvas %q (want WIDTHxHEIGHT)", s)
	}
	return geom.NewCanvas(width, height)
}

// parseFormats splits a comma-separated format list.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
