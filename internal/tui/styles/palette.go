package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/pipeboard/pipeboard/internal/deal"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMonokai ThemeName = "monokai" // Classic Monokai editor colors
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
	}
}

// IsBuiltinTheme checks if a theme name is a built-in theme.
func IsBuiltinTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (used for emphasis, the focused card)
	Primary lipgloss.Color
	// Secondary accent color (used for confirmations, totals)
	Secondary lipgloss.Color
	// Warning color (used for pending approvals, the grabbed card)
	Warning lipgloss.Color
	// Error color (used for the error banner and blocking load errors)
	Error lipgloss.Color
	// Muted color (used for de-emphasized text, hidden-card hints)
	Muted lipgloss.Color
	// Surface color (used for card backgrounds)
	Surface lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (column borders)
	Border lipgloss.Color
	// Highlight marks the last viewed deal
	Highlight lipgloss.Color

	// Stage header colors
	StageNew         lipgloss.Color
	StageQualified   lipgloss.Color
	StageProposition lipgloss.Color
	StageWon         lipgloss.Color
	StageLost        lipgloss.Color
}

// StageColor returns the header color for stage.
func (p *ColorPalette) StageColor(stage deal.Stage) lipgloss.Color {
	switch stage {
	case deal.StageNew:
		return p.StageNew
	case deal.StageQualified:
		return p.StageQualified
	case deal.StageProposition:
		return p.StageProposition
	case deal.StageWon:
		return p.StageWon
	case deal.StageLost:
		return p.StageLost
	default:
		return p.Muted
	}
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Surface:   lipgloss.Color("#1F2937"), // Dark surface
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500
		Highlight: lipgloss.Color("#FBBF24"), // Yellow

		StageNew:         lipgloss.Color("#60A5FA"), // Blue
		StageQualified:   lipgloss.Color("#A78BFA"), // Purple
		StageProposition: lipgloss.Color("#FB923C"), // Orange
		StageWon:         lipgloss.Color("#10B981"), // Green
		StageLost:        lipgloss.Color("#F87171"), // Red
	}
}

// MonokaiPalette returns the classic Monokai editor theme palette.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"), // Monokai pink/magenta
		Secondary: lipgloss.Color("#A6E22E"), // Monokai green
		Warning:   lipgloss.Color("#E6DB74"), // Monokai yellow
		Error:     lipgloss.Color("#F92672"), // Monokai pink (same as primary)
		Muted:     lipgloss.Color("#75715E"), // Monokai comment gray
		Surface:   lipgloss.Color("#272822"), // Monokai background
		Text:      lipgloss.Color("#F8F8F2"), // Monokai foreground
		Border:    lipgloss.Color("#49483E"), // Monokai selection
		Highlight: lipgloss.Color("#E6DB74"), // Yellow

		StageNew:         lipgloss.Color("#66D9EF"), // Cyan
		StageQualified:   lipgloss.Color("#AE81FF"), // Purple
		StageProposition: lipgloss.Color("#FD971F"), // Orange
		StageWon:         lipgloss.Color("#A6E22E"), // Green
		StageLost:        lipgloss.Color("#F92672"), // Pink
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Surface:   lipgloss.Color("#282A36"), // Dracula background
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection
		Highlight: lipgloss.Color("#F1FA8C"), // Yellow

		StageNew:         lipgloss.Color("#8BE9FD"), // Cyan
		StageQualified:   lipgloss.Color("#BD93F9"), // Purple
		StageProposition: lipgloss.Color("#FFB86C"), // Orange
		StageWon:         lipgloss.Color("#50FA7B"), // Green
		StageLost:        lipgloss.Color("#FF5555"), // Red
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Surface:   lipgloss.Color("#2E3440"), // Nord polar night 0
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1
		Highlight: lipgloss.Color("#EBCB8B"), // Yellow

		StageNew:         lipgloss.Color("#81A1C1"), // Frost blue
		StageQualified:   lipgloss.Color("#B48EAD"), // Aurora purple
		StageProposition: lipgloss.Color("#D08770"), // Aurora orange
		StageWon:         lipgloss.Color("#A3BE8C"), // Green
		StageLost:        lipgloss.Color("#BF616A"), // Red
	}
}

// GetPalette returns the color palette for the given theme name.
// Returns the default palette for unknown theme names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	default:
		return DefaultPalette()
	}
}
