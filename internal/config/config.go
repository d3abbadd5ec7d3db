package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type Config struct {
	Provider  string          `mapstructure:"provider"`
	Streaming StreamingConfig `mapstructure:"streaming"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Debug     DebugConfig     `mapstructure:"debug"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Compat    CompatConfig    `mapstructure:"openai-compat"`
}

// StreamingConfig tunes the streaming markdown pipeline.
type StreamingConfig struct {
	DebounceMs      int `mapstructure:"debounce_ms"`       // coalescing window for re-renders
	CacheSize       int `mapstructure:"cache_size"`        // LRU entries for analysis/validation results
	WordsPerMinute  int `mapstructure:"words_per_minute"`  // reading speed for estimated read time
	ReplayChunkSize int `mapstructure:"replay_chunk_size"` // chunk size for the render command's replay mode
}

// ThemeConfig allows customization of UI colors.
// Colors can be ANSI color numbers (0-255) or hex codes (#RRGGBB).
type ThemeConfig struct {
	Primary   string `mapstructure:"primary"`   // main accent (user prompt, highlights)
	Secondary string `mapstructure:"secondary"` // secondary accent (headers, borders)
	Success   string `mapstructure:"success"`
	Error     string `mapstructure:"error"`
	Warning   string `mapstructure:"warning"`
	Muted     string `mapstructure:"muted"` // dimmed text, pending content
	Text      string `mapstructure:"text"`
	Spinner   string `mapstructure:"spinner"`
}

// DebugConfig configures the development diagnostics channel.
type DebugConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"` // override; defaults to stderr
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CompatConfig configures a generic OpenAI-compatible server.
type CompatConfig struct {
	BaseURL string `mapstructure:"base_url"` // Required - no default
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"` // Optional
}

func Load() (*Config, error) {
	configPath, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath(".")

	setDefaults()

	// Read config file (optional - won't error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	resolveOpenAICredentials(&cfg.OpenAI)
	resolveCompatCredentials(&cfg.Compat)

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("provider", "openai")
	viper.SetDefault("streaming.debounce_ms", 40)
	viper.SetDefault("streaming.cache_size", 64)
	viper.SetDefault("streaming.words_per_minute", 200)
	viper.SetDefault("streaming.replay_chunk_size", 24)
	viper.SetDefault("debug.level", "debug")
	viper.SetDefault("openai.model", "gpt-5.2")
	// openai-compat has no base_url default - it's required
}

// ApplyOverrides applies command-line flag overrides to the config.
func (c *Config) ApplyOverrides(provider, model string) {
	if provider != "" {
		c.Provider = provider
	}
	if model == "" {
		return
	}
	switch c.Provider {
	case "openai-compat":
		c.Compat.Model = model
	default:
		c.OpenAI.Model = model
	}
}

func resolveOpenAICredentials(cfg *OpenAIConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
}

func resolveCompatCredentials(cfg *CompatConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_COMPAT_API_KEY")
	}
}

func GetConfigDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "synx"), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Exists reports whether a config file is present on disk.
func Exists() bool {
	path, err := GetConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}
