package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/pkg/pipeline"
)

type analyzeOpts struct {
	canvas  string
	shapes  bool
	asJSON  bool
	noCache bool
	refresh bool
}

func (c *CLI) analyzeCommand() *cobra.Command {
	var opts analyzeOpts

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Print utilization, lengths, clashes and bounds for a layout",
		Long: `Analyze a layout file (.json, .toml or .fabric.json).

fabric.js exports carry no canvas size; --canvas (or [canvas] in the config
file) supplies one.`,
		Example: `  spaceforge analyze hall-a.json
  spaceforge analyze drawing.fabric.json --canvas 1200x800 --shapes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAnalyze(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.canvas, "canvas", "", "canvas for files without one, as WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&opts.shapes, "shapes", false, "print a per-shape table")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print metrics as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if cached")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, path string, opts analyzeOpts) error {
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

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	hash, err := pipeline.LayoutHash(doc.Layout)
	if err != nil {
		return err
	}
	m, cached, err := runner.AnalyzeWithCacheInfo(ctx, doc.Layout, hash, pipeline.Options{Refresh: opts.refresh})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Analyzed %d shapes", m.ShapeCount))

	if opts.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	c.printAnalysis(doc.Name, doc.Layout, m, cached, opts.shapes)
	return nil
}
