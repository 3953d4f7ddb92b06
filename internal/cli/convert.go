package cli

import (
	"github.com/spf13/cobra"

	spio "github.com/matzehuels/spaceforge/pkg/io"
)

func (c *CLI) convertCommand() *cobra.Command {
	var (
		canvas string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a layout between JSON, TOML and fabric.js formats",
		Long: `Convert a layout file. Formats follow the file extensions: .json and .toml
for native documents, .fabric.json for fabric.js canvas exports (input only).`,
		Example: `  spaceforge convert drawing.fabric.json hall-a.toml --canvas 1200x800 --name hall-a`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cv, err := parseCanvas(canvas, cfg.DefaultCanvas())
			if err != nil {
				return err
			}
			doc, err := importDocument(cmd.Context(), args[0], cv)
			if err != nil {
				return err
			}
			if name != "" {
				doc.Name = name
			}
			if err := spio.Export(doc, args[1]); err != nil {
				return err
			}
			printSuccess(c.out, "Converted %d shapes", doc.Layout.Len())
			printFile(c.out, args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&canvas, "canvas", "", "canvas for files without one, as WIDTHxHEIGHT")
	cmd.Flags().StringVar(&name, "name", "", "layout name to write")

	return cmd
}
