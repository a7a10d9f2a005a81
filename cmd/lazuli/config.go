package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lazuli/internal/project"
)

// loadConfig reads --config or discovers lazuli.toml from the working
// directory. A missing manifest means defaults.
func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.Load(path)
	}
	cfg, err := project.Discover(".")
	if errors.Is(err, project.ErrNoManifest) {
		return cfg, nil
	}
	return cfg, err
}
