// Package config provides configuration management for the editorctl CLI/TUI.
// Unlike the teacher's config package, defaults are seeded programmatically
// via viper.SetDefault rather than an embedded TOML asset, since no
// defaults.toml ships with this module.
package config

// Config is the root configuration structure.
type Config struct {
	History HistoryConfig `mapstructure:"history"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// HistoryConfig mirrors history.Manager's tunables.
type HistoryConfig struct {
	GroupTimeoutMillis int64 `mapstructure:"group_timeout_millis"`
	UndoCap            int   `mapstructure:"undo_cap"`
}

// TUIConfig holds terminal demo host settings.
type TUIConfig struct {
	Theme ThemeConfig `mapstructure:"theme"`
}

// ThemeConfig defines the TUI's colors as hex strings, in the teacher's
// style (cmd/calcmark/config.ThemeConfig).
type ThemeConfig struct {
	Primary string `mapstructure:"primary"`
	Accent  string `mapstructure:"accent"`
	Error   string `mapstructure:"error"`
	Muted   string `mapstructure:"muted"`
}
