package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available theme presets",
	Long: `List the built-in theme presets. Copy a preset's colors into the
theme section of the config file, or override individual colors.`,
	RunE: runThemes,
}

func init() {
	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	styles := ui.NewStyles(os.Stdout)
	for _, name := range ui.PresetThemeNames {
		preset, ok := ui.LookupPreset(name)
		if !ok {
			continue
		}
		theme := ui.ThemeFromConfig(preset)
		sample := ui.NewStylesWithTheme(os.Stdout, theme)

		fmt.Printf("%s  %s %s %s\n",
			styles.Bold.Render(fmt.Sprintf("%-10s", name)),
			sample.Success.Render("success"),
			sample.Error.Render("error"),
			sample.Muted.Render("muted"),
		)
	}
	return nil
}
