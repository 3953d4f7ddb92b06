package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spaceforge/internal/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve layout analysis, export and storage over HTTP until interrupted.

  POST /analyze, POST /export?format=pdf
  GET|POST /layouts, GET|PUT|DELETE /layouts/{id}
  GET /layouts/{id}/analysis, GET /layouts/{id}/export`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if backend != "" {
				cfg.Store.Backend = backend
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			st, err := cfg.OpenStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			logger := loggerFromContext(ctx)
			logger.Info("starting server", "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
			return server.New(runner, st, logger).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: memory, file, sqlite, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}
