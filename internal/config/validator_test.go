package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "field1") || !strings.Contains(result, "field2") {
			t.Errorf("Error() should mention both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

// hasField reports whether errs contains an error for field.
func hasField(errs []ValidationError, field string) bool {
	for _, err := range errs {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestConfig_Validate_API(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		timeout time.Duration
		field   string
	}{
		{"valid http", "http://localhost:8088", time.Second, ""},
		{"valid https", "https://crm.example.com/v1", 0, ""},
		{"empty url", "", time.Second, "api.base_url"},
		{"relative url", "/api", time.Second, "api.base_url"},
		{"wrong scheme", "ftp://crm.example.com", time.Second, "api.base_url"},
		{"negative timeout", "http://localhost", -time.Second, "api.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.API.BaseURL = tt.baseURL
			cfg.API.Timeout = tt.timeout
			errs := cfg.Validate()

			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if !hasField(errs, tt.field) {
				t.Errorf("expected error for %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestConfig_Validate_Viewer(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		userID string
		field  string
	}{
		{"admin without user", "admin", "", ""},
		{"sales with user", "sales", "alice", ""},
		{"sales without user", "sales", "  ", "viewer.user_id"},
		{"unknown role", "manager", "bob", "viewer.role"},
		{"empty role", "", "bob", "viewer.role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Viewer.Role = tt.role
			cfg.Viewer.UserID = tt.userID
			errs := cfg.Validate()

			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if !hasField(errs, tt.field) {
				t.Errorf("expected error for %s, got %v", tt.field, errs)
			}
		})
	}
}

func TestConfig_Validate_Board(t *testing.T) {
	tests := []struct {
		name        string
		delay       int
		columnWidth int
		wantErr     bool
	}{
		{"defaults", 50, 0, false},
		{"zero delay", 0, 0, false},
		{"negative delay", -1, 0, true},
		{"delay too large", 5000, 0, true},
		{"min width", 0, MinColumnWidth, false},
		{"max width", 0, MaxColumnWidth, false},
		{"width too small", 0, MinColumnWidth - 1, true},
		{"width too large", 0, MaxColumnWidth + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Board.ScrollDelayMs = tt.delay
			cfg.Board.ColumnWidth = tt.columnWidth
			errs := cfg.Validate()

			got := hasField(errs, "board.scroll_delay_ms") || hasField(errs, "board.column_width")
			if got != tt.wantErr {
				t.Errorf("Validate() board errors = %v, wantErr %v", errs, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_Notifications(t *testing.T) {
	t.Run("interval too short", func(t *testing.T) {
		cfg := Default()
		cfg.Notifications.PollInterval = 100 * time.Millisecond
		if !hasField(cfg.Validate(), "notifications.poll_interval") {
			t.Error("expected error for sub-second poll interval")
		}
	})

	t.Run("disabled ignores interval", func(t *testing.T) {
		cfg := Default()
		cfg.Notifications.Enabled = false
		cfg.Notifications.PollInterval = 0
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestConfig_Validate_Server(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"negative fail rate", func(c *Config) { c.Server.FailRate = -0.1 }, "server.fail_rate"},
		{"fail rate above one", func(c *Config) { c.Server.FailRate = 1.5 }, "server.fail_rate"},
		{"negative latency", func(c *Config) { c.Server.Latency = -time.Millisecond }, "server.latency"},
		{"negative cache ttl", func(c *Config) { c.Server.CacheTTL = -time.Second }, "server.cache_ttl"},
		{"negative seed deals", func(c *Config) { c.Server.SeedDeals = -1 }, "server.seed_deals"},
		{"http redis url", func(c *Config) { c.Server.RedisURL = "http://localhost:6379" }, "server.redis_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if !hasField(cfg.Validate(), tt.field) {
				t.Errorf("expected error for %s", tt.field)
			}
		})
	}

	t.Run("valid redis url", func(t *testing.T) {
		cfg := Default()
		cfg.Server.RedisURL = "redis://localhost:6379/0"
		cfg.Server.FailRate = 1
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestConfig_Validate_TUI(t *testing.T) {
	for _, theme := range ValidThemes() {
		cfg := Default()
		cfg.TUI.Theme = theme
		if hasField(cfg.Validate(), "tui.theme") {
			t.Errorf("theme %q should be valid", theme)
		}
	}

	cfg := Default()
	cfg.TUI.Theme = "solarized"
	if !hasField(cfg.Validate(), "tui.theme") {
		t.Error("expected error for unknown theme")
	}

	// A theme file takes over, so the name is not checked.
	cfg.TUI.ThemeFile = "/tmp/solarized.yaml"
	if hasField(cfg.Validate(), "tui.theme") {
		t.Error("theme name should be ignored when a theme file is set")
	}
}

func TestConfig_Validate_Logging(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", ""} {
			cfg := Default()
			cfg.Logging.Level = level
			if hasField(cfg.Validate(), "logging.level") {
				t.Errorf("level %q should be valid", level)
			}
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "invalid"
		if !hasField(cfg.Validate(), "logging.level") {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("case sensitive log level", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = "INFO"
		if !hasField(cfg.Validate(), "logging.level") {
			t.Error("expected error for uppercase log level")
		}
	})

	t.Run("rotation bounds", func(t *testing.T) {
		for _, size := range []int{0, -1, 1001} {
			cfg := Default()
			cfg.Logging.MaxSizeMB = size
			if !hasField(cfg.Validate(), "logging.max_size_mb") {
				t.Errorf("max_size_mb %d should be rejected", size)
			}
		}

		cfg := Default()
		cfg.Logging.MaxBackups = -1
		if !hasField(cfg.Validate(), "logging.max_backups") {
			t.Error("expected error for negative max_backups")
		}
	})
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	expected := []string{"debug", "info", "warn", "error"}
	if len(levels) != len(expected) {
		t.Fatalf("ValidLogLevels() = %v, want %v", levels, expected)
	}
	for i, level := range expected {
		if levels[i] != level {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], level)
		}
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	// Set multiple invalid values
	cfg.API.BaseURL = ""
	cfg.Viewer.Role = "nobody"
	cfg.Logging.Level = "invalid"
	cfg.Server.FailRate = 2

	errs := cfg.Validate()
	if len(errs) < 4 {
		t.Errorf("expected at least 4 errors, got %d: %v", len(errs), errs)
	}
}
