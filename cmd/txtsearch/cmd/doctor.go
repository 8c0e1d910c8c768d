package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/config"
	"github.com/txtsearch/txtsearch/internal/output"
	"github.com/txtsearch/txtsearch/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var directory string
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external dependencies and index health",
		Long: `Doctor runs the preflight checks each search strategy depends on:
write access to the index directory, the ripgrep executable, the
embedding endpoint, the completion model, and the committed index.

A warning means the corresponding strategy is degraded or unavailable;
a failure means indexing cannot proceed at all.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			root, err := filepath.Abs(directory)
			if err != nil {
				return fmt.Errorf("failed to resolve directory: %w", err)
			}
			cfg, err := config.Load(root)
			if err != nil {
				return err
			}

			results := preflight.New(cfg).RunAll(cmd.Context(), root)

			if f == output.FormatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(results); err != nil {
					return err
				}
			} else {
				printDoctorResults(cmd, results)
			}

			if preflight.HasCriticalFailures(results) {
				return fmt.Errorf("critical preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory to check")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json")

	return cmd
}

func printDoctorResults(cmd *cobra.Command, results []preflight.CheckResult) {
	out := cmd.OutOrStdout()
	failures := 0
	for _, r := range results {
		icon := "ok"
		switch r.Status {
		case preflight.StatusWarn:
			icon = "warn"
		case preflight.StatusFail:
			icon = "FAIL"
			failures++
		}
		fmt.Fprintf(out, "[%4s] %-18s %s\n", icon, r.Name, r.Message)
		if r.Details != "" {
			fmt.Fprintf(out, "       %s\n", r.Details)
		}
	}
	if failures == 0 {
		fmt.Fprintln(out, "\nAll checks passed.")
	} else {
		fmt.Fprintf(out, "\n%d check(s) failed.\n", failures)
	}
}
