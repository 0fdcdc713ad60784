package cli

import (
	"fmt"

	"gridjump/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type settingsOptions struct {
	file string
}

// NewSettingsCommand печатает действующие настройки игры в формате файла настроек
func NewSettingsCommand() *cobra.Command {
	opts := &settingsOptions{}

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print effective game settings as YAML",
		Long: `Print the game settings the server would run with.

Defaults are overlaid with GAME_SETTINGS_FILE (or --file) and then with
environment overrides. The output can be used as a settings file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.file != "" {
				fsets, err := config.ReadSettingsFile(opts.file)
				if err != nil {
					return err
				}
				fsets.Apply(&cfg.Game)
				if err := cfg.Game.Validate(); err != nil {
					return fmt.Errorf("game settings: %w", err)
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(config.SettingsToFile(cfg.Game))
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "settings file applied after the environment")
	return cmd
}
