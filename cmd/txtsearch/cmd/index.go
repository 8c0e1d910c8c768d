package cmd

import (
	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/index"
	"github.com/txtsearch/txtsearch/internal/output"
	"github.com/txtsearch/txtsearch/internal/profiling"
	"github.com/txtsearch/txtsearch/internal/search"
)

type indexOptions struct {
	directory    string
	filePatterns []string
	excludes     []string
	format       string
	ephemeral    bool
	cpuProfile   string
	heapProfile  string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Build the search index for a directory tree",
		Long: `Build the search index for a directory tree.

The index is written atomically under <path>/.txtsearch. Searches
against an existing index keep working until the new build commits.

Examples:
  txtsearch index
  txtsearch index ./docs
  txtsearch index -f "*.md,*.txt"
  txtsearch index -e "vendor" -e "*.min.js"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.directory = "."
			if len(args) == 1 {
				opts.directory = args[0]
			}
			return runIndex(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.filePatterns, "file-pattern", "f", nil, "File patterns to include, e.g. \"*.{md,txt}\" (repeatable)")
	cmd.Flags().StringSliceVarP(&opts.excludes, "exclude", "e", nil, "Patterns to exclude (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.ephemeral, "ephemeral", false, "Build in memory only, write nothing to disk")
	cmd.Flags().StringVar(&opts.cpuProfile, "cpu-profile", "", "Write a CPU profile of the build to this file")
	cmd.Flags().StringVar(&opts.heapProfile, "heap-profile", "", "Write a heap profile after the build to this file")

	return cmd
}

func runIndex(cmd *cobra.Command, opts indexOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	var include []string
	for _, p := range opts.filePatterns {
		include = append(include, config.ParseFilePattern(p)...)
	}
	var exclude []string
	for _, p := range opts.excludes {
		exclude = append(exclude, config.ParseFilePattern(p)...)
	}

	sess, err := newSession(opts.directory, search.Options{Ephemeral: opts.ephemeral})
	if err != nil {
		return err
	}
	defer sess.Close()

	prof := profiling.Session{CPUPath: opts.cpuProfile, HeapPath: opts.heapProfile}
	if err := prof.Start(); err != nil {
		return err
	}

	stats, err := sess.orchestrator.BuildIndex(cmd.Context(), index.BuildOptions{
		IncludePatterns: include,
		ExcludePatterns: exclude,
	})
	if perr := prof.Stop(); perr != nil && err == nil {
		err = perr
	}
	if err != nil {
		return err
	}

	return output.NewRenderer(cmd.OutOrStdout(), format).BuildStats(stats)
}
