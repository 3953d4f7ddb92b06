package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/pkg/buildinfo"
)

// RootCommand creates the root command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Spaceforge measures and checks floor layouts",
		Long: `Spaceforge analyzes 2D floor layouts made of lines, rectangles, circles
and polygons: space utilization, run lengths, overlapping shapes and shapes
outside the canvas. Layouts can be exported as reports, stored, and served
over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spaceforge/config.toml)")

	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
