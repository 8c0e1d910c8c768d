package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/output"
	"github.com/txtsearch/txtsearch/internal/search"
)

type searchOptions struct {
	directory       string
	strategy        string
	limit           int
	contextLines    int
	filePatterns    []string
	format          string
	caseSensitive   bool
	ingestIfMissing bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed directory tree",
		Long: `Search the indexed directory tree.

Exit codes: 0 when results were found, 1 on error, 2 when the search
succeeded but matched nothing.

Examples:
  txtsearch search "connection pooling"
  txtsearch search "TODO" -s literal -n 20
  txtsearch search "error handling" -s lexical -C 2
  txtsearch search "setup" -f "*.md" --format json
  txtsearch search "hello" --ingest-if-missing`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.directory, "directory", "d", ".", "Directory whose index to search")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", search.StrategySemantic, "Strategy: literal, lexical, semantic, agentic")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", search.DefaultLimit, "Maximum number of results")
	cmd.Flags().IntVarP(&opts.contextLines, "context", "C", 0, "Lines of surrounding context per hit")
	cmd.Flags().StringSliceVarP(&opts.filePatterns, "file-pattern", "f", nil, "Restrict results to matching paths (repeatable)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.caseSensitive, "case-sensitive", false, "Match case exactly (literal strategy)")
	cmd.Flags().BoolVar(&opts.ingestIfMissing, "ingest-if-missing", false, "Build the index first if none exists")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	var patterns []string
	for _, p := range opts.filePatterns {
		patterns = append(patterns, config.ParseFilePattern(p)...)
	}

	sess, err := newSession(opts.directory, search.Options{IngestIfMissing: opts.ingestIfMissing})
	if err != nil {
		return err
	}
	defer sess.Close()

	resp, err := sess.orchestrator.Search(cmd.Context(), search.Request{
		Query:         query,
		Strategy:      opts.strategy,
		Limit:         opts.limit,
		ContextLines:  opts.contextLines,
		FilePatterns:  patterns,
		CaseSensitive: opts.caseSensitive,
	})
	if err != nil {
		return err
	}

	if err := output.NewRenderer(cmd.OutOrStdout(), format).SearchResponse(resp); err != nil {
		return err
	}
	if len(resp.Hits) == 0 {
		return errNoResults
	}
	return nil
}
