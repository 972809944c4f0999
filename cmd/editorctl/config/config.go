package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

var (
	cfg     *Config
	styles  Styles
	once    sync.Once
	loadErr error
)

// Styles holds pre-built lipgloss styles derived from the loaded theme,
// grounded on cmd/calcmark/config.Styles.
type Styles struct {
	Primary lipgloss.Style
	Accent  lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

func (t ThemeConfig) buildStyles() Styles {
	return Styles{
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
	}
}

// Load initializes configuration from defaults and an optional user config
// file. Safe to call multiple times; only loads once (cmd/calcmark/config's
// sync.Once pattern).
func Load() (*Config, error) {
	once.Do(func() {
		cfg, loadErr = load()
		if cfg != nil {
			styles = cfg.TUI.Theme.buildStyles()
		}
	})
	return cfg, loadErr
}

// Get returns the loaded configuration. Panics if Load hasn't been called
// or failed.
func Get() *Config {
	if cfg == nil {
		panic("config.Load() must be called before config.Get()")
	}
	return cfg
}

// GetStyles returns the pre-built lipgloss styles for the loaded theme.
func GetStyles() Styles {
	if cfg == nil {
		panic("config.Load() must be called before config.GetStyles()")
	}
	return styles
}

func load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("history.group_timeout_millis", 500)
	v.SetDefault("history.undo_cap", 100)
	v.SetDefault("tui.theme.primary", "#7D56F4")
	v.SetDefault("tui.theme.accent", "#04B575")
	v.SetDefault("tui.theme.error", "#FF5555")
	v.SetDefault("tui.theme.muted", "#666666")

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		xdgPath := filepath.Join(home, ".config", "editorctl", "config.toml")
		if _, statErr := os.Stat(xdgPath); statErr == nil {
			v.SetConfigFile(xdgPath)
			_ = v.MergeInConfig()
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Reload forces a fresh config load. Use for testing only.
func Reload() (*Config, error) {
	once = sync.Once{}
	cfg = nil
	styles = Styles{}
	loadErr = nil
	return Load()
}
