package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/internal/config"
	"github.com/matzehuels/spaceforge/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the analysis and report cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached analyses and reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ch, err := cfg.OpenCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clr, ok := ch.(cache.Clearer)
			if !ok {
				printInfo(c.out, "Cache backend %q holds nothing to clear", cfg.Cache.Backend)
				return nil
			}
			if err := clr.Clear(ctx); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess(c.out, "Cleared %s cache", cfg.Cache.Backend)
			if fc, ok := ch.(*cache.FileCache); ok {
				printDetail(c.out, "Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.Cache.Dir
			if dir == "" {
				if dir, err = config.DefaultCacheDir(); err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
