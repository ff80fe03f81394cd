package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/ai-apps/internal/config"
	"github.com/quocvuong92/ai-apps/internal/display"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default config file",
		Long: `Create a commented config file in the user config directory.

Examples:
  ai-apps init`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfigFile()
			if err != nil {
				return err
			}
			display.ShowSuccess(fmt.Sprintf("Created %s", path))
			return nil
		},
	}
}
