package styles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		name     string
		color    string
		expected bool
	}{
		{"valid 6-digit hex", "#A78BFA", true},
		{"valid 6-digit hex lowercase", "#a78bfa", true},
		{"valid 3-digit hex", "#ABC", true},
		{"invalid - no hash", "A78BFA", false},
		{"invalid - too short", "#AB", false},
		{"invalid - too long", "#A78BFAAB", false},
		{"invalid - bad characters", "#GHIJKL", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isValidHexColor(tt.color)
			if got != tt.expected {
				t.Errorf("isValidHexColor(%q) = %v, want %v", tt.color, got, tt.expected)
			}
		})
	}
}

func baseColors() ThemeColors {
	return ThemeColors{
		Primary:   "#A78BFA",
		Secondary: "#10B981",
		Warning:   "#F59E0B",
		Error:     "#F87171",
		Muted:     "#9CA3AF",
		Surface:   "#1F2937",
		Text:      "#F9FAFB",
		Border:    "#6B7280",
	}
}

func TestThemeFileValidate(t *testing.T) {
	withStage := baseColors()
	withStage.Stages.Won = "green"

	missingText := baseColors()
	missingText.Text = ""

	tests := []struct {
		name   string
		theme  ThemeFile
		errMsg string
	}{
		{
			name:  "valid minimal theme",
			theme: ThemeFile{Name: "Test", Version: "1", Colors: baseColors()},
		},
		{
			name:   "missing name",
			theme:  ThemeFile{Version: "1", Colors: baseColors()},
			errMsg: "theme name is required",
		},
		{
			name:   "missing version",
			theme:  ThemeFile{Name: "Test", Colors: baseColors()},
			errMsg: "theme version is required",
		},
		{
			name:   "unsupported version",
			theme:  ThemeFile{Name: "Test", Version: "2", Colors: baseColors()},
			errMsg: "unsupported theme version",
		},
		{
			name:   "missing required color",
			theme:  ThemeFile{Name: "Test", Version: "1", Colors: missingText},
			errMsg: "color 'text' is required",
		},
		{
			name:   "invalid stage color",
			theme:  ThemeFile{Name: "Test", Version: "1", Colors: withStage},
			errMsg: "color 'stages.won' has invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.theme.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestToPaletteDefaults(t *testing.T) {
	colors := baseColors()
	colors.Stages.New = "#123456"
	tf := ThemeFile{Name: "Test", Version: "1", Colors: colors}

	p := tf.ToPalette()
	if p.StageNew != "#123456" {
		t.Errorf("StageNew = %q, want #123456", p.StageNew)
	}
	if p.StageWon != "#10B981" {
		t.Errorf("StageWon should default to secondary, got %q", p.StageWon)
	}
	if p.StageLost != "#F87171" {
		t.Errorf("StageLost should default to error, got %q", p.StageLost)
	}
	if p.Highlight != "#F59E0B" {
		t.Errorf("Highlight should default to warning, got %q", p.Highlight)
	}
}

func TestLoadThemeFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid file", func(t *testing.T) {
		data, err := yaml.Marshal(ThemeFile{Name: "Mine", Version: "1", Colors: baseColors()})
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(dir, "mine.yaml")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}

		tf, err := LoadThemeFile(path)
		if err != nil {
			t.Fatalf("LoadThemeFile() error = %v", err)
		}
		if tf.Name != "Mine" {
			t.Errorf("Name = %q", tf.Name)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadThemeFile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("name: [unclosed"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadThemeFile(path)
		if err == nil || !strings.Contains(err.Error(), "parsing theme file") {
			t.Errorf("error = %v", err)
		}
	})
}

func TestResolvePalette(t *testing.T) {
	p, err := ResolvePalette("dracula", "")
	if err != nil || p.Primary != DraculaPalette().Primary {
		t.Errorf("ResolvePalette(dracula) = (%v, %v)", p, err)
	}

	if _, err := ResolvePalette("default", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing theme file")
	}
}

func TestExportThemeRoundTrip(t *testing.T) {
	data, err := ExportTheme(ThemeNord)
	if err != nil {
		t.Fatal(err)
	}
	var tf ThemeFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		t.Fatal(err)
	}
	if err := tf.Validate(); err != nil {
		t.Fatalf("exported theme is invalid: %v", err)
	}
	if tf.ToPalette().StageProposition != NordPalette().StageProposition {
		t.Error("exported stage colors should survive a reload")
	}
}
