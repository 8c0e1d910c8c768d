package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/mcp"
	"github.com/txtsearch/txtsearch/internal/search"
)

func newMCPCmd() *cobra.Command {
	var directory string
	var transport string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server for AI clients",
		Long: `Run the Model Context Protocol server over stdio.

Exposes three tools: search, build_index, and index_status. Add to an
AI client's MCP configuration with:

  txtsearch mcp -d /path/to/project`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Stdio carries the protocol; the first search builds the
			// index if the client never calls build_index.
			sess, err := newSession(directory, search.Options{IngestIfMissing: true})
			if err != nil {
				return err
			}
			defer sess.Close()

			server, err := mcp.NewServer(sess.orchestrator, slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Serve(ctx, transport)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory whose index to expose")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "MCP transport (stdio)")

	return cmd
}
