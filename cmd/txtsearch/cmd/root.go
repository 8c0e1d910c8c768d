// Package cmd provides the CLI commands for txtsearch.
package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/internal/logging"
	"github.com/txtsearch/txtsearch/pkg/version"
)

// Exit codes for the search command.
const (
	exitOK        = 0
	exitError     = 1
	exitNoResults = 2
)

// errNoResults signals a successful search that matched nothing. It is
// mapped to exit code 2 and never printed.
var errNoResults = errors.New("no results")

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the txtsearch CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txtsearch",
		Short: "Multi-strategy text search over local directory trees",
		Long: `txtsearch indexes a directory tree once and searches it with four
strategies: literal (exact text via ripgrep), lexical (full-text
ranking), semantic (meaning-based vector search), and agentic
(LLM re-ranking over retrieved passages).

Run 'txtsearch index' in a directory, then 'txtsearch search <query>'.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("txtsearch version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.txtsearch/logs/")
	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMCPCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func setupLogging(_ *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	cfg.WriteToStderr = false
	if debugMode {
		cfg.Level = "debug"
	}
	cleanup, err := logging.SetupDefault(cfg)
	if err != nil {
		// Logging is best effort on the CLI path.
		return nil
	}
	loggingCleanup = cleanup
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errNoResults) {
			return exitNoResults
		}
		cmd.PrintErrln("Error:", err.Error())
		return exitError
	}
	return exitOK
}
