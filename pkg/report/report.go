package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/spaceforge/pkg/geom"
)

// Format identifies an export artifact type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
	FormatDOT  Format = "dot"
	FormatSVG  Format = "svg"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatPDF, FormatDOT, FormatSVG}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want csv, json, pdf, dot or svg)", s)
}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatPDF:
		return "application/pdf"
	case FormatSVG:
		return "image/svg+xml"
	}
	return "text/plain; charset=utf-8"
}

// Page sizes accepted by [WithPageSize].
const (
	PageA4     = "A4"
	PageA3     = "A3"
	PageLetter = "Letter"
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	title     string
	pageSize  string
	precision int
}

func newOptions(opts []Option) options {
	o := options{title: "Layout report", pageSize: PageA4, precision: 2}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTitle sets the report heading.
func WithTitle(title string) Option {
	return func(o *options) {
		if title != "" {
			o.title = title
		}
	}
}

// WithPageSize sets the PDF page size (A4, A3 or Letter).
func WithPageSize(size string) Option {
	return func(o *options) {
		if size != "" {
			o.pageSize = size
		}
	}
}

// WithPrecision sets the number of decimals for measurements. Negative
// values are ignored.
func WithPrecision(digits int) Option {
	return func(o *options) {
		if digits >= 0 {
			o.precision = digits
		}
	}
}

func (o options) round(v float64) float64 {
	p := math.Pow(10, float64(o.precision))
	return math.Round(v*p) / p
}

func (o options) format(v float64) string {
	return fmt.Sprintf("%.*f", o.precision, v)
}

// Render produces the artifact for format f.
func Render(ctx context.Context, f Format, l *geom.Layout, m geom.Metrics, opts ...Option) ([]byte, error) {
	switch f {
	case FormatCSV:
		return RenderCSV(l, m, opts...)
	case FormatJSON:
		return RenderJSON(l, m, opts...)
	case FormatPDF:
		return RenderPDF(l, m, opts...)
	case FormatDOT:
		return []byte(ClashDOT(l, m, opts...)), nil
	case FormatSVG:
		return RenderClashSVG(ctx, ClashDOT(l, m, opts...))
	}
	return nil, fmt.Errorf("unsupported format: %s", f)
}
