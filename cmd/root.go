package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AlphsX/synx-agent-preview-sub000/internal/config"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/debuglog"
	"github.com/AlphsX/synx-agent-preview-sub000/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "synx",
	Short: "Streaming markdown chat for the terminal",
	Long: `synx renders AI chat responses as markdown while they stream,
holding back incomplete code fences until they close.

Examples:
  synx chat                             # interactive chat session
  synx render response.md               # replay a document through the pipeline
  synx analyze response.md              # content features and diagnostics
  synx export response.md --format html # convert a transcript message`,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
}

var (
	flagProvider string
	flagModel    string
	flagDebug    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "Override provider (openai, openai-compat)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Override model")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Enable debug logging to stderr")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads configuration, applies flag overrides and initializes the
// debug channel and theme.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(flagProvider, flagModel)

	if err := setupDebugLog(cfg); err != nil {
		return nil, err
	}
	if config.Exists() {
		if path, pathErr := config.GetConfigPath(); pathErr == nil {
			debuglog.With("config").Debug("config file loaded", "path", path)
		}
	}
	ui.InitTheme(uiThemeConfig(cfg.Theme))

	return cfg, nil
}

func setupDebugLog(cfg *config.Config) error {
	if !flagDebug && !cfg.Debug.Enabled {
		debuglog.Disable()
		return nil
	}

	w := os.Stderr
	if cfg.Debug.File != "" {
		f, err := os.OpenFile(cfg.Debug.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open debug log file: %w", err)
		}
		w = f
	}
	debuglog.Enable(w, cfg.Debug.Level)
	return nil
}

func uiThemeConfig(t config.ThemeConfig) ui.ThemeConfig {
	return ui.ThemeConfig{
		Primary:   t.Primary,
		Secondary: t.Secondary,
		Success:   t.Success,
		Error:     t.Error,
		Warning:   t.Warning,
		Muted:     t.Muted,
		Text:      t.Text,
		Spinner:   t.Spinner,
	}
}

// activeModel resolves the model name for the configured provider.
func activeModel(cfg *config.Config) string {
	if cfg.Provider == "openai-compat" {
		return cfg.Compat.Model
	}
	return cfg.OpenAI.Model
}

// readInput reads from the named file, or stdin when name is "-" or empty.
func readInput(name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
