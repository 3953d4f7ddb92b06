package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spaceforge/pkg/cache"
	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/observability"
	"github.com/matzehuels/spaceforge/pkg/report"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when non-zero.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute analyzes doc and renders every requested format.
func (r *Runner) Execute(ctx context.Context, doc *spio.Document, opts Options) (*Result, error) {
	if doc == nil || doc.Layout == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "document has no layout")
	}
	if opts.Title == "" {
		opts.Title = doc.Name
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := LayoutHash(doc.Layout)
	if err != nil {
		return nil, err
	}
	result := &Result{LayoutHash: hash}

	start := time.Now()
	m, hit, err := r.AnalyzeWithCacheInfo(ctx, doc.Layout, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Metrics = m
	result.Stats.ShapeCount = m.ShapeCount
	result.Stats.ClashCount = len(m.Clashes)
	result.Stats.AnalyzeTime = time.Since(start)
	result.CacheInfo.AnalyzeHit = hit

	logger := r.logger(opts)
	logger.Info("analyzed layout",
		"shapes", m.ShapeCount,
		"clashes", len(m.Clashes),
		"utilization", fmt.Sprintf("%.2f%%", m.Utilization),
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, doc.Layout, m, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze computes metrics for l, consulting the cache.
func (r *Runner) Analyze(ctx context.Context, l *geom.Layout, opts Options) (geom.Metrics, error) {
	hash, err := LayoutHash(l)
	if err != nil {
		return geom.Metrics{}, err
	}
	m, _, err := r.AnalyzeWithCacheInfo(ctx, l, hash, opts)
	return m, err
}

// AnalyzeWithCacheInfo computes metrics for l and reports whether they came
// from the cache. hash must be LayoutHash(l).
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, l *geom.Layout, hash string, opts Options) (geom.Metrics, bool, error) {
	key := r.Keyer.AnalysisKey(hash)
	hooks := observability.Pipeline()
	logger := r.logger(opts)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var m geom.Metrics
			if err := json.Unmarshal(data, &m); err == nil {
				observability.Cache().OnCacheHit(ctx, "analysis")
				return m, true, nil
			}
			logger.Debug("discarding unreadable cached analysis", "key", key)
		} else if err != nil {
			logger.Warn("cache read failed", "key", key, "err", err)
		}
	}
	observability.Cache().OnCacheMiss(ctx, "analysis")

	start := time.Now()
	hooks.OnAnalyzeStart(ctx, l.Len())
	m := geom.Analyze(l)
	hooks.OnAnalyzeComplete(ctx, m.ShapeCount, len(m.Clashes), time.Since(start), nil)

	if data, err := json.Marshal(m); err == nil {
		r.store(ctx, logger, key, "analysis", data, cache.TTLAnalysis)
	}
	return m, false, nil
}

// RenderWithCacheInfo renders every format in opts and reports whether all
// of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *geom.Layout, m geom.Metrics, hash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	logger := r.logger(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup {
			continue
		}
		key := r.Keyer.ReportKey(hash, opts.ReportKeyOpts(format))
		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "report")
				artifacts[format] = data
				continue
			}
			if err != nil {
				logger.Warn("cache read failed", "key", key, "err", err)
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, missing)
	for _, format := range missing {
		data, err := report.Render(ctx, report.Format(format), l, m, opts.ReportOptions()...)
		if err != nil {
			hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
			return nil, false, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
		r.store(ctx, logger, r.Keyer.ReportKey(hash, opts.ReportKeyOpts(format)), "report", data, cache.TTLReport)
		logger.Debug("rendered", "format", format, "bytes", len(data))
	}
	hooks.OnRenderComplete(ctx, missing, time.Since(start), nil)

	return artifacts, false, nil
}

// Render renders every format in opts, discarding cache hit info.
func (r *Runner) Render(ctx context.Context, l *geom.Layout, m geom.Metrics, opts Options) (map[string][]byte, error) {
	hash, err := LayoutHash(l)
	if err != nil {
		return nil, err
	}
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, m, hash, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes to the cache. Failures only cost a future recompute, so they
// are logged and dropped.
func (r *Runner) store(ctx context.Context, logger *log.Logger, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// logger returns the run's logger, falling back to the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// LayoutHash returns the content hash of l's canonical JSON encoding. The
// document name is excluded, so renaming a layout keeps its cache entries.
func LayoutHash(l *geom.Layout) (string, error) {
	data, err := spio.MarshalJSON(spio.NewDocument("", l))
	if err != nil {
		return "", fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return cache.Hash(data), nil
}
