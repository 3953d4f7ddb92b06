package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	spio "github.com/matzehuels/spaceforge/pkg/io"
	"github.com/matzehuels/spaceforge/pkg/store"
)

func (c *CLI) layoutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "layouts",
		Aliases: []string{"layout", "ls"},
		Short:   "Manage stored layouts",
		Long: `Save, load, list and delete layouts in the configured store
([store] in the config file, or SPACEFORGE_STORE_BACKEND).`,
	}

	cmd.AddCommand(c.layoutsSaveCommand())
	cmd.AddCommand(c.layoutsGetCommand())
	cmd.AddCommand(c.layoutsListCommand())
	cmd.AddCommand(c.layoutsDeleteCommand())

	return cmd
}

func (c *CLI) layoutsSaveCommand() *cobra.Command {
	var (
		id     string
		name   string
		canvas string
	)
	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Store a layout file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, cfg, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			cv, err := parseCanvas(canvas, cfg.DefaultCanvas())
			if err != nil {
				return err
			}
			doc, err := importDocument(ctx, args[0], cv)
			if err != nil {
				return err
			}
			if name != "" {
				doc.Name = name
			}

			rec := &store.Record{ID: id, Name: doc.Name, Layout: doc.Layout}
			if err := st.Save(ctx, rec); err != nil {
				return err
			}
			printSuccess(c.out, "Saved %s", StyleValue.Render(rec.Name))
			printKeyValue(c.out, "ID", rec.ID)
			printKeyValue(c.out, "Shapes", fmt.Sprint(rec.Layout.Len()))
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "replace the layout with this ID")
	cmd.Flags().StringVar(&name, "name", "", "layout name (default: name in file)")
	cmd.Flags().StringVar(&canvas, "canvas", "", "canvas for files without one, as WIDTHxHEIGHT")
	return cmd
}

func (c *CLI) layoutsGetCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Print a stored layout, or write it with -o",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Get(ctx, args[0])
			if err != nil {
				return err
			}
			doc := spio.NewDocument(rec.Name, rec.Layout)
			if output == "" {
				return spio.WriteJSON(doc, c.out)
			}
			if err := spio.Export(doc, output); err != nil {
				return err
			}
			printSuccess(c.out, "Wrote %s", rec.Name)
			printFile(c.out, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a .json or .toml file")
	return cmd
}

func (c *CLI) layoutsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored layouts, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo(c.out, "No stored layouts")
				return nil
			}
			fmt.Fprintln(c.out, layoutTable(list))
			return nil
		},
	}
}

func (c *CLI) layoutsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete stored layouts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				if err := st.Delete(ctx, id); err != nil {
					return err
				}
				printSuccess(c.out, "Deleted %s", id)
			}
			return nil
		},
	}
}
