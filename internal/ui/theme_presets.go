package ui

// PresetThemes maps theme names to their color overrides. The zero-value
// fields of a preset fall back to the gruvbox defaults.
var PresetThemes = map[string]ThemeConfig{
	"gruvbox": {
		Primary:   "#b8bb26",
		Secondary: "#83a598",
		Success:   "#b8bb26",
		Error:     "#fb4934",
		Warning:   "#fabd2f",
		Muted:     "#928374",
		Text:      "#ebdbb2",
		Spinner:   "#d3869b",
	},
	"dracula": {
		Primary:   "#bd93f9",
		Secondary: "#8be9fd",
		Success:   "#50fa7b",
		Error:     "#ff5555",
		Warning:   "#f1fa8c",
		Muted:     "#6272a4",
		Text:      "#f8f8f2",
		Spinner:   "#ff79c6",
	},
	"nord": {
		Primary:   "#88c0d0",
		Secondary: "#81a1c1",
		Success:   "#a3be8c",
		Error:     "#bf616a",
		Warning:   "#ebcb8b",
		Muted:     "#4c566a",
		Text:      "#eceff4",
		Spinner:   "#b48ead",
	},
	"monokai": {
		Primary:   "#a6e22e",
		Secondary: "#66d9ef",
		Success:   "#a6e22e",
		Error:     "#f92672",
		Warning:   "#e6db74",
		Muted:     "#75715e",
		Text:      "#f8f8f2",
		Spinner:   "#ae81ff",
	},
}

// PresetThemeNames lists presets in display order.
var PresetThemeNames = []string{"gruvbox", "dracula", "nord", "monokai"}

// LookupPreset returns the preset config for name.
func LookupPreset(name string) (ThemeConfig, bool) {
	cfg, ok := PresetThemes[name]
	return cfg, ok
}
