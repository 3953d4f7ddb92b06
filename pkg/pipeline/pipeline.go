// Package pipeline runs the analyze → render pipeline for a layout document.
//
// The CLI and the HTTP API both go through [Runner], so caching, logging and
// observability behave the same regardless of entry point.
//
// # Stages
//
//  1. Analyze: compute [geom.Metrics] (utilization, lengths, clashes, bounds)
//  2. Render: produce export artifacts (csv, json, pdf, dot, svg)
//
// Both stages are cached by the content hash of the layout, so re-exporting
// an unchanged layout is a cache lookup.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{"pdf", "csv"},
//	    Title:   "Hall B",
//	})
//	if err != nil {
//	    return err
//	}
//	pdf := result.Artifacts["pdf"]
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spaceforge/pkg/cache"
	"github.com/matzehuels/spaceforge/pkg/errors"
	"github.com/matzehuels/spaceforge/pkg/geom"
	"github.com/matzehuels/spaceforge/pkg/report"
)

const (
	// DefaultFormat is rendered when no format is requested.
	DefaultFormat = string(report.FormatJSON)

	// DefaultPrecision is the number of decimals in exported measurements.
	DefaultPrecision = 2

	// MaxPrecision bounds Options.Precision.
	MaxPrecision = 6
)

// ValidPageSizes is the set of PDF page sizes.
var ValidPageSizes = map[string]bool{
	report.PageA4:     true,
	report.PageA3:     true,
	report.PageLetter: true,
}

// Options configures a pipeline run. It is decoded directly from API
// requests.
type Options struct {
	Formats   []string `json:"formats,omitempty"`
	Title     string   `json:"title,omitempty"`
	PageSize  string   `json:"page_size,omitempty"`
	Precision *int     `json:"precision,omitempty"`

	// Refresh bypasses cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives this run's log lines instead of Runner.Logger, so
	// callers can attach request-scoped fields.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Metrics geom.Metrics

	// LayoutHash is the content hash of the canonical layout document.
	LayoutHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ShapeCount  int
	ClashCount  int
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	AnalyzeHit bool
	RenderHit  bool // every requested artifact came from cache
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	for _, f := range report.Formats {
		if string(f) == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: csv, json, pdf, dot, svg)", format)
}

// ValidateFormats checks every format in formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePageSize checks that size is a known page size.
func ValidatePageSize(size string) error {
	if !ValidPageSizes[size] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid page_size: %q (must be one of: A4, A3, Letter)", size)
	}
	return nil
}

// ValidateAndSetDefaults checks option values and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.PageSize == "" {
		o.PageSize = report.PageA4
	}
	if err := ValidatePageSize(o.PageSize); err != nil {
		return err
	}
	if o.Precision == nil {
		p := DefaultPrecision
		o.Precision = &p
	}
	if *o.Precision < 0 || *o.Precision > MaxPrecision {
		return errors.New(errors.ErrCodeInvalidInput, "invalid precision: %d (must be 0-%d)", *o.Precision, MaxPrecision)
	}
	o.validated = true
	return nil
}

// ReportOptions returns the renderer options for o.
func (o *Options) ReportOptions() []report.Option {
	opts := []report.Option{report.WithTitle(o.Title), report.WithPageSize(o.PageSize)}
	if o.Precision != nil {
		opts = append(opts, report.WithPrecision(*o.Precision))
	}
	return opts
}

// ReportKeyOpts returns cache key options for rendering format.
func (o *Options) ReportKeyOpts(format string) cache.ReportKeyOpts {
	k := cache.ReportKeyOpts{Format: format, Title: o.Title, PageSize: o.PageSize}
	if o.Precision != nil {
		k.Precision = *o.Precision
	}
	return k
}

// Precision returns a pointer to p, for building Options literals.
func Precision(p int) *int { return &p }

func (r *Result) String() string {
	return fmt.Sprintf("%d shapes, %d clashes, utilization %.2f%%",
		r.Stats.ShapeCount, r.Stats.ClashCount, r.Metrics.Utilization)
}
