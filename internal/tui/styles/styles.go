package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pipeboard/pipeboard/internal/deal"
)

// Styles holds every lipgloss style the board renders with, derived from
// one palette.
type Styles struct {
	Palette *ColorPalette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Text     lipgloss.Style

	// Column chrome
	Column        lipgloss.Style
	ColumnFocused lipgloss.Style
	ColumnTarget  lipgloss.Style
	ColumnStats   lipgloss.Style
	ExpandControl lipgloss.Style

	// Cards
	Card            lipgloss.Style
	CardFocused     lipgloss.Style
	CardHighlighted lipgloss.Style
	CardGrabbed     lipgloss.Style
	CardCommitting  lipgloss.Style

	// Surfaces
	KPI          lipgloss.Style
	KPITotal     lipgloss.Style
	Banner       lipgloss.Style
	BlockingErr  lipgloss.Style
	Badge        lipgloss.Style
	BadgeWarning lipgloss.Style
	Detail       lipgloss.Style
	DetailLabel  lipgloss.Style
	HelpBar      lipgloss.Style
}

// New builds the style set for p.
func New(p *ColorPalette) *Styles {
	if p == nil {
		p = DefaultPalette()
	}
	return &Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),
		Muted: lipgloss.NewStyle().Foreground(p.Muted),
		Text:  lipgloss.NewStyle().Foreground(p.Text),

		Column: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		ColumnFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(0, 1),
		ColumnTarget: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.Warning).
			Padding(0, 1),
		ColumnStats: lipgloss.NewStyle().Foreground(p.Muted),
		ExpandControl: lipgloss.NewStyle().
			Foreground(p.Primary).
			Italic(true),

		Card: lipgloss.NewStyle().
			Foreground(p.Text),
		CardFocused: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Surface),
		CardHighlighted: lipgloss.NewStyle().
			Foreground(p.Highlight),
		CardGrabbed: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Warning),
		CardCommitting: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		KPI: lipgloss.NewStyle().
			Padding(0, 1),
		KPITotal: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Secondary).
			Padding(0, 1),
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			Background(p.Error).
			Padding(0, 1),
		BlockingErr: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Error).
			Foreground(p.Error).
			Padding(1, 2),
		Badge: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Primary).
			Padding(0, 1),
		BadgeWarning: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Surface).
			Background(p.Warning).
			Padding(0, 1),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Primary).
			Padding(1, 2),
		DetailLabel: lipgloss.NewStyle().
			Foreground(p.Muted).
			Width(14),
		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),
	}
}

// StageHeader returns the header style for stage.
func (s *Styles) StageHeader(stage deal.Stage) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(s.Palette.StageColor(stage))
}

// QuotationIcon returns the card marker for a quotation status.
func QuotationIcon(status deal.QuotationStatus) string {
	switch status {
	case deal.QuotationPending:
		return "⧗"
	case deal.QuotationApproved:
		return "✓"
	case deal.QuotationRejected:
		return "✗"
	default:
		return " "
	}
}
