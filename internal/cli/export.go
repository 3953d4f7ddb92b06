package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/pkg/pipeline"
	"github.com/matzehuels/spaceforge/pkg/report"
)

type exportOpts struct {
	formats   string
	output    string
	title     string
	pageSize  string
	precision int
	canvas    string
	noCache   bool
	refresh   bool
}

func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a layout report (csv, json, pdf, dot, svg)",
		Long: `Render reports for a layout file.

  csv   one row per shape with bounds, area, length and clash count
  json  metrics plus per-shape rows
  pdf   floor plan with clashes outlined, plus a findings page
  dot   clash graph in Graphviz DOT
  svg   clash graph rendered by Graphviz

Files are written as <output>/<layout name>.<format>.`,
		Example: `  spaceforge export hall-a.json -f pdf,csv -o reports/
  spaceforge export hall-a.toml -f pdf --page-size Letter --title "Hall A"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "pdf", "comma-separated formats: csv, json, pdf, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.title, "title", "", "report title (default: layout name)")
	cmd.Flags().StringVar(&opts.pageSize, "page-size", report.PageA4, "PDF page size: A4, A3, Letter")
	cmd.Flags().IntVar(&opts.precision, "precision", pipeline.DefaultPrecision, "decimals in measurements")
	cmd.Flags().StringVar(&opts.canvas, "canvas", "", "canvas for files without one, as WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runExport(cmd *cobra.Command, path string, opts exportOpts) error {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	canvas, err := parseCanvas(opts.canvas, cfg.DefaultCanvas())
	if err != nil {
		return err
	}
	doc, err := importDocument(ctx, path, canvas)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Formats:   parseFormats(opts.formats),
		Title:     opts.title,
		PageSize:  opts.pageSize,
		Precision: pipeline.Precision(opts.precision),
		Refresh:   opts.refresh,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", opts.formats))
	spinner.Start()
	res, err := runner.Execute(ctx, doc, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	base := doc.Name
	if base == "" {
		base = "layout"
	}

	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	printSuccess(c.out, "Exported %s", base)
	printStats(c.out, res.Stats.ShapeCount, res.Stats.ClashCount, res.CacheInfo.RenderHit)
	for _, f := range formats {
		out := filepath.Join(opts.output, base+report.Format(f).Ext())
		if err := os.WriteFile(out, res.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(c.out, out)
	}
	return nil
}
