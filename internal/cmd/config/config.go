// Package config provides CLI commands for managing pipeboard configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/pipeboard/pipeboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify pipeboard configuration",
	Long: `View or modify pipeboard configuration.

Without arguments, prints the effective configuration as YAML.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  pipeboard config set viewer.role sales
  pipeboard config set notifications.poll_interval 1m
  pipeboard config set tui.theme nord

Run 'pipeboard config keys' to list every key.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the keys accepted by 'config set'",
	RunE:  runConfigKeys,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/pipeboard/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  pipeboard config reset                    # Reset all to defaults
  pipeboard config reset board.column_width # Reset only board.column_width`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

// keyKind is how a settable value is parsed.
type keyKind int

const (
	kindString keyKind = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindDuration
)

// settableKeys lists every key `config set` accepts.
var settableKeys = map[string]keyKind{
	"api.base_url":                kindString,
	"api.timeout":                 kindDuration,
	"viewer.user_id":              kindString,
	"viewer.role":                 kindString,
	"board.reconcile_on_confirm":  kindBool,
	"board.scroll_delay_ms":       kindInt,
	"board.column_width":          kindInt,
	"notifications.enabled":       kindBool,
	"notifications.poll_interval": kindDuration,
	"view_state.path":             kindString,
	"server.addr":                 kindString,
	"server.redis_url":            kindString,
	"server.cache_ttl":            kindDuration,
	"server.seed":                 kindUint,
	"server.seed_deals":           kindInt,
	"server.fail_rate":            kindFloat,
	"server.latency":              kindDuration,
	"tui.theme":                   kindString,
	"tui.theme_file":              kindString,
	"logging.enabled":             kindBool,
	"logging.level":               kindString,
	"logging.dir":                 kindString,
	"logging.max_size_mb":         kindInt,
	"logging.max_backups":         kindInt,
}

// ParseValue converts value to the type expected by key.
func ParseValue(key, value string) (any, error) {
	kind, ok := settableKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'pipeboard config keys' to see valid keys", key)
	}

	switch kind {
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return b, nil
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		return n, nil
	case kindUint:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected non-negative integer", key)
		}
		return n, nil
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected number", key)
		}
		return f, nil
	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected duration such as 30s or 1m", key)
		}
		return d.String(), nil
	default:
		return value, nil
	}
}

// WriteYAML writes cfg to w as YAML.
func WriteYAML(w io.Writer, cfg *appconfig.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "# config file: %s\n", used)
	} else {
		fmt.Fprintln(out, "# config file: (none - using defaults)")
	}
	return WriteYAML(out, cfg)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	typed, err := ParseValue(key, args[1])
	if err != nil {
		return err
	}

	viper.Set(key, typed)
	if _, err := appconfig.Load(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	configDir := appconfig.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", key, typed)
	fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", configFile)
	return nil
}

func runConfigKeys(cmd *cobra.Command, args []string) error {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), k)
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'pipeboard config set' to modify values", configFile)
	}
	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(configFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	fmt.Fprintln(f, "# pipeboard configuration")
	fmt.Fprintln(f, "# Environment variables override every key: PIPEBOARD_<SECTION>_<KEY>, e.g. PIPEBOARD_VIEWER_ROLE")
	if err := WriteYAML(f, appconfig.Default()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "Active config: %s\n", used)
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", appconfig.ConfigFile())
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: PIPEBOARD_* (e.g., PIPEBOARD_API_BASE_URL)")
	return nil
}

// defaultValues flattens the defaults into the dot keys `config set` uses.
func defaultValues() map[string]any {
	d := appconfig.Default()
	return map[string]any{
		"api.base_url":                d.API.BaseURL,
		"api.timeout":                 d.API.Timeout.String(),
		"viewer.user_id":              d.Viewer.UserID,
		"viewer.role":                 d.Viewer.Role,
		"board.reconcile_on_confirm":  d.Board.ReconcileOnConfirm,
		"board.scroll_delay_ms":       d.Board.ScrollDelayMs,
		"board.column_width":          d.Board.ColumnWidth,
		"notifications.enabled":       d.Notifications.Enabled,
		"notifications.poll_interval": d.Notifications.PollInterval.String(),
		"view_state.path":             d.ViewState.Path,
		"server.addr":                 d.Server.Addr,
		"server.redis_url":            d.Server.RedisURL,
		"server.cache_ttl":            d.Server.CacheTTL.String(),
		"server.seed":                 d.Server.Seed,
		"server.seed_deals":           d.Server.SeedDeals,
		"server.fail_rate":            d.Server.FailRate,
		"server.latency":              d.Server.Latency.String(),
		"tui.theme":                   d.TUI.Theme,
		"tui.theme_file":              d.TUI.ThemeFile,
		"logging.enabled":             d.Logging.Enabled,
		"logging.level":               d.Logging.Level,
		"logging.dir":                 d.Logging.Dir,
		"logging.max_size_mb":         d.Logging.MaxSizeMB,
		"logging.max_backups":         d.Logging.MaxBackups,
	}
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	defaults := defaultValues()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		for key, value := range defaults {
			viper.Set(key, value)
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		key := args[0]
		value, ok := defaults[key]
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'pipeboard config keys' to see valid keys", key)
		}
		viper.Set(key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", key, value)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
