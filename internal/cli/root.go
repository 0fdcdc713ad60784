package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand собирает корневую команду gridjump
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gridjump",
		Short:         "gridjump - multiplayer grid game server",
		Long:          "Turn-based grid game: players invent jump vectors and race for points on a shared board.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand(version))
	cmd.AddCommand(NewSettingsCommand())

	return cmd
}
