package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete pipeboard configuration
type Config struct {
	API           APIConfig           `mapstructure:"api" yaml:"api"`
	Viewer        ViewerConfig        `mapstructure:"viewer" yaml:"viewer"`
	Board         BoardConfig         `mapstructure:"board" yaml:"board"`
	Notifications NotificationsConfig `mapstructure:"notifications" yaml:"notifications"`
	ViewState     ViewStateConfig     `mapstructure:"view_state" yaml:"view_state"`
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	TUI           TUIConfig           `mapstructure:"tui" yaml:"tui"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`
}

// APIConfig points the board at the system of record
type APIConfig struct {
	// BaseURL is the root of the deals API (default: "http://localhost:8088")
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout bounds every request (default: 10s, 0 = no timeout)
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ViewerConfig identifies who is looking at the board
type ViewerConfig struct {
	// UserID is the viewer's user id; sales viewers only see deals they own
	UserID string `mapstructure:"user_id" yaml:"user_id"`
	// Role is "admin" (every deal) or "sales" (own deals only)
	Role string `mapstructure:"role" yaml:"role"`
}

// BoardConfig controls board behavior
type BoardConfig struct {
	// ReconcileOnConfirm reloads the deals after every confirmed move (default: true)
	ReconcileOnConfirm bool `mapstructure:"reconcile_on_confirm" yaml:"reconcile_on_confirm"`
	// ScrollDelayMs delays the scroll to the last viewed deal so a forced
	// expansion renders first (default: 50)
	ScrollDelayMs int `mapstructure:"scroll_delay_ms" yaml:"scroll_delay_ms"`
	// ColumnWidth is the width of each stage column in cells (0 = fit to terminal)
	ColumnWidth int `mapstructure:"column_width" yaml:"column_width"`
}

// ScrollDelay returns the scroll delay as a time.Duration
func (c *BoardConfig) ScrollDelay() time.Duration {
	return time.Duration(c.ScrollDelayMs) * time.Millisecond
}

// NotificationsConfig controls the notification poller
type NotificationsConfig struct {
	// Enabled turns polling on (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// PollInterval is the time between fetches (default: 30s)
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// ViewStateConfig controls where the last viewed deal is stored
type ViewStateConfig struct {
	// Path of the view state file (default: <config dir>/viewstate.json)
	Path string `mapstructure:"path" yaml:"path"`
}

// ResolvePath returns the configured path or the default inside ConfigDir,
// expanding a leading ~.
func (v *ViewStateConfig) ResolvePath() string {
	if v.Path == "" {
		return filepath.Join(ConfigDir(), "viewstate.json")
	}
	return expandHome(v.Path)
}

// ServerConfig controls `pipeboard serve`
type ServerConfig struct {
	// Addr is the listen address (default: ":8088")
	Addr string `mapstructure:"addr" yaml:"addr"`
	// RedisURL enables the read-through deal cache when set
	RedisURL string `mapstructure:"redis_url" yaml:"redis_url"`
	// CacheTTL is how long cached listings live (default: 30s)
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	// Seed drives the demo data generator (default: 1)
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
	// SeedDeals is the number of demo deals (default: 24)
	SeedDeals int `mapstructure:"seed_deals" yaml:"seed_deals"`
	// FailRate is the probability a stage update fails with 503 (default: 0)
	FailRate float64 `mapstructure:"fail_rate" yaml:"fail_rate"`
	// Latency delays every stage update (default: 0)
	Latency time.Duration `mapstructure:"latency" yaml:"latency"`
}

// TUIConfig controls the terminal UI appearance
type TUIConfig struct {
	// Theme is the built-in palette (default: "default")
	// Options: "default", "monokai", "dracula", "nord"
	Theme string `mapstructure:"theme" yaml:"theme"`
	// ThemeFile loads a custom YAML palette and overrides Theme
	ThemeFile string `mapstructure:"theme_file" yaml:"theme_file"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	// Enabled controls whether the board writes a log file (default: true)
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level" yaml:"level"`
	// Dir is where the board writes pipeboard.log (default: <config dir>/logs)
	Dir string `mapstructure:"dir" yaml:"dir"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups"`
}

// ResolveDir returns the configured log directory or the default.
func (l *LoggingConfig) ResolveDir() string {
	if l.Dir == "" {
		return filepath.Join(ConfigDir(), "logs")
	}
	return expandHome(l.Dir)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8088",
			Timeout: 10 * time.Second,
		},
		Viewer: ViewerConfig{
			UserID: "",
			Role:   "admin",
		},
		Board: BoardConfig{
			ReconcileOnConfirm: true,
			ScrollDelayMs:      50,
			ColumnWidth:        0,
		},
		Notifications: NotificationsConfig{
			Enabled:      true,
			PollInterval: 30 * time.Second,
		},
		ViewState: ViewStateConfig{
			Path: "",
		},
		Server: ServerConfig{
			Addr:      ":8088",
			RedisURL:  "",
			CacheTTL:  30 * time.Second,
			Seed:      1,
			SeedDeals: 24,
			FailRate:  0,
			Latency:   0,
		},
		TUI: TUIConfig{
			Theme:     "default",
			ThemeFile: "",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout", defaults.API.Timeout)

	// Viewer defaults
	viper.SetDefault("viewer.user_id", defaults.Viewer.UserID)
	viper.SetDefault("viewer.role", defaults.Viewer.Role)

	// Board defaults
	viper.SetDefault("board.reconcile_on_confirm", defaults.Board.ReconcileOnConfirm)
	viper.SetDefault("board.scroll_delay_ms", defaults.Board.ScrollDelayMs)
	viper.SetDefault("board.column_width", defaults.Board.ColumnWidth)

	// Notification defaults
	viper.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	viper.SetDefault("notifications.poll_interval", defaults.Notifications.PollInterval)

	// View state defaults
	viper.SetDefault("view_state.path", defaults.ViewState.Path)

	// Server defaults
	viper.SetDefault("server.addr", defaults.Server.Addr)
	viper.SetDefault("server.redis_url", defaults.Server.RedisURL)
	viper.SetDefault("server.cache_ttl", defaults.Server.CacheTTL)
	viper.SetDefault("server.seed", defaults.Server.Seed)
	viper.SetDefault("server.seed_deals", defaults.Server.SeedDeals)
	viper.SetDefault("server.fail_rate", defaults.Server.FailRate)
	viper.SetDefault("server.latency", defaults.Server.Latency)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.theme_file", defaults.TUI.ThemeFile)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pipeboard")
	}
	// Fall back to ~/.config/pipeboard
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pipeboard"
	}
	return filepath.Join(home, ".config", "pipeboard")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
