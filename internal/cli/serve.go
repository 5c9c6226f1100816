package cli

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/internal/server"
	"github.com/matzehuels/labelsheet/pkg/buildinfo"
)

type serveOpts struct {
	addr      string
	noCache   bool
	maxBodyMB int
}

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the label pipeline over HTTP",
		Long: `Serve the label pipeline over HTTP.

Jobs are posted as JSON. Print exports run in the background and can be
polled and downloaded under /v1/exports.`,
		Example: `  labelsheet serve
  labelsheet serve --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+defaultServerAddr+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().IntVar(&opts.maxBodyMB, "max-body", server.DefaultMaxBody>>20, "request body limit in MiB")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	addr := opts.addr
	if addr == "" {
		addr = c.Config.Server.Addr
	}
	if addr == "" {
		addr = defaultServerAddr
	}
	if opts.maxBodyMB <= 0 {
		return fmt.Errorf("--max-body must be positive")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if host, _, err := net.SplitHostPort(addr); err == nil && !isLoopback(host) {
		printWarning("Listening on %s; the API has no authentication", addr)
	}

	stats := server.NewStats()
	stats.Register()

	srv := server.New(runner, c.Logger,
		server.WithMaxBody(int64(opts.maxBodyMB)<<20),
		server.WithStats(stats),
	)
	return srv.ListenAndServe(ctx, addr)
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
