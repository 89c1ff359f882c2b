package styles

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ThemeFile represents a custom board theme loaded from YAML.
type ThemeFile struct {
	// Name is the theme's display name (e.g., "Solarized Dark")
	Name string `yaml:"name"`
	// Author is the theme creator's name (optional)
	Author string `yaml:"author,omitempty"`
	// Version is the theme file format version (currently "1")
	Version string `yaml:"version"`
	// Colors defines the color palette
	Colors ThemeColors `yaml:"colors"`
}

// ThemeColors contains all color definitions for a theme.
// All colors should be hex format (#RRGGBB or #RGB).
type ThemeColors struct {
	// Base colors
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
	Warning   string `yaml:"warning"`
	Error     string `yaml:"error"`
	Muted     string `yaml:"muted"`
	Surface   string `yaml:"surface"`
	Text      string `yaml:"text"`
	Border    string `yaml:"border"`

	// Highlight defaults to Warning
	Highlight string `yaml:"highlight,omitempty"`

	// Stage colors (optional - default to base colors if not specified)
	Stages ThemeStageColors `yaml:"stages,omitempty"`
}

// ThemeStageColors defines header colors per pipeline stage.
type ThemeStageColors struct {
	New         string `yaml:"new,omitempty"`
	Qualified   string `yaml:"qualified,omitempty"`
	Proposition string `yaml:"proposition,omitempty"`
	Won         string `yaml:"won,omitempty"`
	Lost        string `yaml:"lost,omitempty"`
}

// hexColorRegex validates hex color format.
var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// LoadThemeFile loads a theme from a YAML file.
func LoadThemeFile(path string) (*ThemeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme file: %w", err)
	}

	var theme ThemeFile
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return nil, fmt.Errorf("parsing theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return nil, fmt.Errorf("invalid theme: %w", err)
	}

	return &theme, nil
}

// Validate checks that the theme file is well-formed.
func (t *ThemeFile) Validate() error {
	if t.Name == "" {
		return errors.New("theme name is required")
	}

	if t.Version == "" {
		return errors.New("theme version is required")
	}

	if t.Version != "1" {
		return fmt.Errorf("unsupported theme version: %s (supported: 1)", t.Version)
	}

	// Ordered so the first failing color is reported deterministically.
	required := []struct{ name, color string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"warning", t.Colors.Warning},
		{"error", t.Colors.Error},
		{"muted", t.Colors.Muted},
		{"surface", t.Colors.Surface},
		{"text", t.Colors.Text},
		{"border", t.Colors.Border},
	}
	for _, c := range required {
		if c.color == "" {
			return fmt.Errorf("color '%s' is required", c.name)
		}
		if !isValidHexColor(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}

	optional := []struct{ name, color string }{
		{"highlight", t.Colors.Highlight},
		{"stages.new", t.Colors.Stages.New},
		{"stages.qualified", t.Colors.Stages.Qualified},
		{"stages.proposition", t.Colors.Stages.Proposition},
		{"stages.won", t.Colors.Stages.Won},
		{"stages.lost", t.Colors.Stages.Lost},
	}
	for _, c := range optional {
		if c.color != "" && !isValidHexColor(c.color) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.color)
		}
	}

	return nil
}

// isValidHexColor checks if a string is a valid hex color.
func isValidHexColor(color string) bool {
	return hexColorRegex.MatchString(color)
}

// ToPalette converts the theme file to a ColorPalette.
func (t *ThemeFile) ToPalette() *ColorPalette {
	c := t.Colors
	return &ColorPalette{
		Primary:   lipgloss.Color(c.Primary),
		Secondary: lipgloss.Color(c.Secondary),
		Warning:   lipgloss.Color(c.Warning),
		Error:     lipgloss.Color(c.Error),
		Muted:     lipgloss.Color(c.Muted),
		Surface:   lipgloss.Color(c.Surface),
		Text:      lipgloss.Color(c.Text),
		Border:    lipgloss.Color(c.Border),
		Highlight: colorOrDefault(c.Highlight, c.Warning),

		StageNew:         colorOrDefault(c.Stages.New, c.Primary),
		StageQualified:   colorOrDefault(c.Stages.Qualified, c.Primary),
		StageProposition: colorOrDefault(c.Stages.Proposition, c.Warning),
		StageWon:         colorOrDefault(c.Stages.Won, c.Secondary),
		StageLost:        colorOrDefault(c.Stages.Lost, c.Error),
	}
}

// colorOrDefault returns the color if non-empty, otherwise returns the default.
func colorOrDefault(color, defaultColor string) lipgloss.Color {
	if color != "" {
		return lipgloss.Color(color)
	}
	return lipgloss.Color(defaultColor)
}

// ResolvePalette picks the palette for the configured theme. A theme file,
// when set, overrides the named theme.
func ResolvePalette(theme, themeFile string) (*ColorPalette, error) {
	if themeFile == "" {
		return GetPalette(ThemeName(theme)), nil
	}
	tf, err := LoadThemeFile(themeFile)
	if err != nil {
		return nil, err
	}
	return tf.ToPalette(), nil
}

// ExportTheme renders a built-in theme as a YAML theme file, as a starting
// point for customization.
func ExportTheme(name ThemeName) ([]byte, error) {
	p := GetPalette(name)
	return yaml.Marshal(&ThemeFile{
		Name:    string(name),
		Version: "1",
		Colors: ThemeColors{
			Primary:   string(p.Primary),
			Secondary: string(p.Secondary),
			Warning:   string(p.Warning),
			Error:     string(p.Error),
			Muted:     string(p.Muted),
			Surface:   string(p.Surface),
			Text:      string(p.Text),
			Border:    string(p.Border),
			Highlight: string(p.Highlight),
			Stages: ThemeStageColors{
				New:         string(p.StageNew),
				Qualified:   string(p.StageQualified),
				Proposition: string(p.StageProposition),
				Won:         string(p.StageWon),
				Lost:        string(p.StageLost),
			},
		},
	})
}
