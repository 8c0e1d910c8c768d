package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/txtsearch/txtsearch/configs"
	"github.com/txtsearch/txtsearch/internal/config"
)

func newInitCmd() *cobra.Command {
	var directory string
	var user bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented configuration template",
		Long: `Init writes the project configuration template as .txtsearch.yaml in
the target directory. With --user it instead writes the machine-level
template to ~/.txtsearch/config.yaml.

Existing files are never overwritten unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, template, err := initTarget(directory, user)
			if err != nil {
				return err
			}

			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", path)
				}
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory to place the project config in")
	cmd.Flags().BoolVar(&user, "user", false, "Write the machine-level config under the home directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func initTarget(directory string, user bool) (path, template string, err error) {
	if user {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, ".txtsearch", "config.yaml"), configs.UserConfigTemplate, nil
	}

	abs, err := filepath.Abs(directory)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve directory: %w", err)
	}
	return filepath.Join(abs, config.ConfigFileName), configs.ProjectConfigTemplate, nil
}
