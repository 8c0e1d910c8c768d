package cmd

import (
	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/output"
	"github.com/txtsearch/txtsearch/internal/search"
)

func newStatusCmd() *cobra.Command {
	var directory string
	var format string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active index build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			sess, err := newSession(directory, search.Options{})
			if err != nil {
				return err
			}
			defer sess.Close()

			meta, err := sess.orchestrator.Status(cmd.Context())
			if err != nil {
				return err
			}
			return output.NewRenderer(cmd.OutOrStdout(), f).Status(meta)
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory whose index to inspect")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}
