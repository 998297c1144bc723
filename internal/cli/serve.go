package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepgen/famtree/pkg/config"
	"github.com/deepgen/famtree/pkg/server"
	"github.com/deepgen/famtree/pkg/source"
)

type serveOpts struct {
	addr   string
	people string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the person list and root search over HTTP",
		Long: `Serve starts the HTTP API for the person list and root search. People come
from --people (a JSON or YAML file that PUT /api/people writes back to) or,
without it, from the MongoDB source configured in the [source] section. With
neither the server starts empty and waits for a PUT.

The server never builds trees. Use render or view on the person list.`,
		Example: `  famtree serve --people people.json
  famtree serve --addr :9000 --config famtree.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if opts.addr == "" {
				opts.addr = cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", fmt.Sprintf("listen address (default %s)", config.DefaultAddr))
	cmd.Flags().StringVarP(&opts.people, "people", "p", "", "person file to serve")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, opts serveOpts) error {
	c.EnableHookLogging()

	src, desc, closeSrc, err := c.openSource(ctx, cfg, opts.people)
	if err != nil {
		return err
	}
	defer closeSrc()

	srv, err := server.New(ctx, server.Config{
		Source: src,
		Logger: c.Logger.WithPrefix("http"),
	})
	if err != nil {
		return err
	}

	printSuccess(c.out, "Serving %d people on http://%s", srv.Dataset().Len(), opts.addr)
	printKeyValue(c.out, "source", desc)
	return srv.ListenAndServe(ctx, opts.addr)
}

// openSource picks the person source for serve and describes it. The
// returned func releases it.
func (c *CLI) openSource(ctx context.Context, cfg config.Config, people string) (source.Source, string, func(), error) {
	noop := func() {}
	switch {
	case people != "":
		return source.NewFile(people), people, noop, nil
	case cfg.Source.MongoURI != "":
		sp := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
		sp.Start()
		m, err := source.NewMongo(ctx, cfg.MongoOptions())
		if err != nil {
			sp.StopWithError(c.out, "MongoDB unavailable")
			return nil, "", noop, err
		}
		sp.Stop()
		desc := fmt.Sprintf("mongo %s.%s (session %s)", cfg.Source.Database, cfg.Source.Collection, cfg.Source.SessionID)
		return m, desc, func() { _ = m.Close(context.Background()) }, nil
	}
	c.Logger.Warn("no person source configured, starting empty")
	return source.NewStatic(nil), "in memory", noop, nil
}
