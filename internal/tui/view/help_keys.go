package view

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pipeboard/pipeboard/internal/tui/keymap"
)

// modeHelp adapts a keymap mode to help.KeyMap.
type modeHelp struct {
	bindings *keymap.Keymap
	mode     keymap.Mode
}

func (m modeHelp) ShortHelp() []key.Binding {
	return m.bindings.HelpBindings(m.mode)
}

// FullHelp groups the bindings by category, one help column each.
func (m modeHelp) FullHelp() [][]key.Binding {
	all := m.bindings.HelpBindings(m.mode)
	byDesc := make(map[string]key.Binding, len(all))
	for _, b := range all {
		byDesc[b.Help().Desc] = b
	}

	var groups [][]key.Binding
	for _, cat := range m.bindings.GetCategories(m.mode) {
		var group []key.Binding
		seen := make(map[string]bool)
		for _, kb := range m.bindings.GetModeBindings(m.mode) {
			if kb.Category != cat || seen[kb.Description] {
				continue
			}
			seen[kb.Description] = true
			if b, ok := byDesc[kb.Description]; ok {
				group = append(group, b)
			}
		}
		groups = append(groups, group)
	}
	return groups
}
