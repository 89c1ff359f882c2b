package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "board.scroll_delay_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidRoles returns the list of valid viewer roles
func ValidRoles() []string {
	return []string{"admin", "sales"}
}

// ValidThemes returns the built-in theme names
func ValidThemes() []string {
	return []string{"default", "monokai", "dracula", "nord"}
}

// Column width bounds (0 means fit to terminal).
const (
	MinColumnWidth = 18
	MaxColumnWidth = 80
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateViewer()...)
	errors = append(errors, c.validateBoard()...)
	errors = append(errors, c.validateNotifications()...)
	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateAPI validates the APIConfig
func (c *Config) validateAPI() []ValidationError {
	var errors []ValidationError

	u, err := url.Parse(c.API.BaseURL)
	if c.API.BaseURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be an absolute http or https URL",
		})
	}

	if c.API.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "api.timeout",
			Value:   c.API.Timeout,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateViewer validates the ViewerConfig
func (c *Config) validateViewer() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidRoles(), c.Viewer.Role) {
		errors = append(errors, ValidationError{
			Field:   "viewer.role",
			Value:   c.Viewer.Role,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidRoles(), ", ")),
		})
	}

	// A sales viewer without a user id would see an empty board.
	if c.Viewer.Role == "sales" && strings.TrimSpace(c.Viewer.UserID) == "" {
		errors = append(errors, ValidationError{
			Field:   "viewer.user_id",
			Value:   c.Viewer.UserID,
			Message: "is required for the sales role",
		})
	}

	return errors
}

// validateBoard validates the BoardConfig
func (c *Config) validateBoard() []ValidationError {
	var errors []ValidationError

	if c.Board.ScrollDelayMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "board.scroll_delay_ms",
			Value:   c.Board.ScrollDelayMs,
			Message: "must be non-negative",
		})
	}

	const maxScrollDelayMs = 2000
	if c.Board.ScrollDelayMs > maxScrollDelayMs {
		errors = append(errors, ValidationError{
			Field:   "board.scroll_delay_ms",
			Value:   c.Board.ScrollDelayMs,
			Message: fmt.Sprintf("exceeds maximum of %dms", maxScrollDelayMs),
		})
	}

	if c.Board.ColumnWidth != 0 {
		if c.Board.ColumnWidth < MinColumnWidth {
			errors = append(errors, ValidationError{
				Field:   "board.column_width",
				Value:   c.Board.ColumnWidth,
				Message: fmt.Sprintf("must be at least %d columns", MinColumnWidth),
			})
		}
		if c.Board.ColumnWidth > MaxColumnWidth {
			errors = append(errors, ValidationError{
				Field:   "board.column_width",
				Value:   c.Board.ColumnWidth,
				Message: fmt.Sprintf("exceeds maximum of %d columns", MaxColumnWidth),
			})
		}
	}

	return errors
}

// validateNotifications validates the NotificationsConfig
func (c *Config) validateNotifications() []ValidationError {
	var errors []ValidationError

	const minPollInterval = time.Second
	if c.Notifications.Enabled && c.Notifications.PollInterval < minPollInterval {
		errors = append(errors, ValidationError{
			Field:   "notifications.poll_interval",
			Value:   c.Notifications.PollInterval,
			Message: fmt.Sprintf("must be at least %s when notifications are enabled", minPollInterval),
		})
	}

	return errors
}

// validateServer validates the ServerConfig
func (c *Config) validateServer() []ValidationError {
	var errors []ValidationError

	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{
			Field:   "server.addr",
			Value:   c.Server.Addr,
			Message: "must not be empty",
		})
	}

	if c.Server.FailRate < 0 || c.Server.FailRate > 1 {
		errors = append(errors, ValidationError{
			Field:   "server.fail_rate",
			Value:   c.Server.FailRate,
			Message: "must be between 0 and 1",
		})
	}

	if c.Server.Latency < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.latency",
			Value:   c.Server.Latency,
			Message: "must be non-negative",
		})
	}

	if c.Server.CacheTTL < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.cache_ttl",
			Value:   c.Server.CacheTTL,
			Message: "must be non-negative",
		})
	}

	if c.Server.SeedDeals < 0 {
		errors = append(errors, ValidationError{
			Field:   "server.seed_deals",
			Value:   c.Server.SeedDeals,
			Message: "must be non-negative",
		})
	}

	if c.Server.RedisURL != "" {
		if u, err := url.Parse(c.Server.RedisURL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			errors = append(errors, ValidationError{
				Field:   "server.redis_url",
				Value:   c.Server.RedisURL,
				Message: "must be a redis:// or rediss:// URL",
			})
		}
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// A theme file overrides the named theme, so the name is not checked then.
	if c.TUI.ThemeFile == "" && c.TUI.Theme != "" && !slices.Contains(ValidThemes(), c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}
