package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/httpapi"
	"github.com/txtsearch/txtsearch/internal/search"
)

func newServeCmd() *cobra.Command {
	var directory string
	var addr string
	var ingestIfMissing bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve search and indexing over HTTP",
		Long: `Serve search and indexing over HTTP.

Endpoints:
  POST /v1/search   run a search
  POST /v1/index    rebuild the index
  GET  /v1/status   active build metadata
  GET  /healthz     liveness probe
  GET  /metrics     Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), directory, addr, ingestIfMissing)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory whose index to serve")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8951)")
	cmd.Flags().BoolVar(&ingestIfMissing, "ingest-if-missing", false, "Build the index on the first search if none exists")

	return cmd
}

func runServe(ctx context.Context, directory, addr string, ingestIfMissing bool) error {
	sess, err := newSession(directory, search.Options{IngestIfMissing: ingestIfMissing})
	if err != nil {
		return err
	}
	defer sess.Close()

	if addr == "" {
		addr = sess.cfg.Server.Addr
	}

	server := httpapi.NewServer(sess.orchestrator, slog.Default(), addr)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
