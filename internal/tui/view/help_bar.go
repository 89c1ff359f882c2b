package view

import (
	"github.com/charmbracelet/bubbles/help"

	"github.com/pipeboard/pipeboard/internal/tui/keymap"
	"github.com/pipeboard/pipeboard/internal/tui/styles"
)

// HelpBar renders the key hints for the active mode with bubbles/help.
type HelpBar struct {
	keys  *keymap.Keymap
	model help.Model
}

// NewHelpBar creates a help bar over keys.
func NewHelpBar(s *styles.Styles, keys *keymap.Keymap) *HelpBar {
	m := help.New()
	m.Styles.ShortKey = s.Title.UnsetBold()
	m.Styles.ShortDesc = s.Muted
	m.Styles.ShortSeparator = s.Muted
	m.Styles.FullKey = s.Title.UnsetBold()
	m.Styles.FullDesc = s.Muted
	m.Styles.FullSeparator = s.Muted
	return &HelpBar{keys: keys, model: m}
}

// Render renders the hints for mode. full shows every binding in columns,
// otherwise a single line truncated to width.
func (h *HelpBar) Render(mode keymap.Mode, width int, full bool) string {
	h.model.Width = width
	h.model.ShowAll = full
	return h.model.View(modeHelp{bindings: h.keys, mode: mode})
}
