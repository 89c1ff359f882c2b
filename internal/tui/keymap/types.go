// Package keymap provides key binding definitions and lookup for the board.
// Bindings are declared per mode so the Update loop resolves a key to a
// command instead of switching on raw keys.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Mode represents the current input mode of the board.
// Different modes have different key bindings active.
type Mode string

const (
	ModeNormal        Mode = "normal"        // Browsing columns and cards
	ModeGrab          Mode = "grab"          // A card is picked up and being moved
	ModeDetail        Mode = "detail"        // Deal detail pane is open
	ModeNotifications Mode = "notifications" // Notification list is open
	ModeLoadError     Mode = "load_error"    // Initial load failed; board is blocked
)

// Command represents a named action that can be triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdLeft          Command = "left"
	CmdRight         Command = "right"
	CmdUp            Command = "up"
	CmdDown          Command = "down"
	CmdGrab          Command = "grab"
	CmdOpen          Command = "open"
	CmdToggleColumn  Command = "toggle_column"
	CmdReload        Command = "reload"
	CmdNotifications Command = "notifications"
	CmdToggleHelp    Command = "toggle_help"
	CmdQuit          Command = "quit"
)

// Grab mode commands
const (
	CmdDrop   Command = "drop"
	CmdCancel Command = "cancel"
)

// Notification mode commands
const (
	CmdMarkRead    Command = "mark_read"
	CmdMarkAllRead Command = "mark_all_read"
)

// Modifier represents keyboard modifiers.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// KeyBinding represents a single key binding configuration.
type KeyBinding struct {
	// KeyType is the key for this binding. For rune keys use tea.KeyRunes
	// and set Rune.
	KeyType tea.KeyType

	// Rune is the character for rune-based keys (when KeyType is tea.KeyRunes).
	Rune rune

	// Modifiers contains the modifier keys that must be pressed.
	Modifiers Modifier

	// Command is the action to execute when this binding is triggered.
	Command Command

	// Description is a human-readable description for help display.
	Description string

	// Category groups related bindings together in help display.
	Category string
}

// Matches checks if a tea.KeyMsg matches this binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	wantAlt := kb.Modifiers&ModAlt != 0
	if msg.Alt != wantAlt {
		return false
	}

	// For special keys (not runes), match the key type directly
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}

	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return msg.Runes[0] == kb.Rune
}

// String returns a human-readable representation of the key binding.
func (kb KeyBinding) String() string {
	prefix := ""
	if kb.Modifiers&ModAlt != 0 {
		prefix = "alt+"
	}

	if kb.KeyType == tea.KeySpace {
		return prefix + "space"
	}
	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}

	switch kb.Rune {
	case ' ':
		return prefix + "space"
	default:
		return prefix + string(kb.Rune)
	}
}

// ModeBindings holds all key bindings for a specific mode.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// GetBinding looks up a command for a key in this mode.
func (mb *ModeBindings) GetBinding(msg tea.KeyMsg) (Command, bool) {
	for _, binding := range mb.Bindings {
		if binding.Matches(msg) {
			return binding.Command, true
		}
	}
	return "", false
}

// Keymap contains all key bindings organized by mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding looks up a command for a key in a specific mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	return mb.GetBinding(msg)
}

// GetModeBindings returns all bindings for a specific mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	mb, ok := km.Modes[mode]
	if !ok {
		return nil
	}
	return mb.Bindings
}

// GetCategories returns all unique categories in a mode's bindings, in
// declaration order.
func (km *Keymap) GetCategories(mode Mode) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, binding := range km.GetModeBindings(mode) {
		if binding.Category != "" && !seen[binding.Category] {
			seen[binding.Category] = true
			categories = append(categories, binding.Category)
		}
	}
	return categories
}

// HelpBindings converts a mode's bindings into bubbles key bindings, one
// per command, so bubbles/help can render them. Keys that trigger the same
// command are merged into one entry.
func (km *Keymap) HelpBindings(mode Mode) []key.Binding {
	var order []Command
	keys := make(map[Command][]string)
	desc := make(map[Command]string)
	for _, b := range km.GetModeBindings(mode) {
		if _, ok := keys[b.Command]; !ok {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = append(keys[b.Command], b.String())
	}

	out := make([]key.Binding, 0, len(order))
	for _, cmd := range order {
		ks := keys[cmd]
		label := ks[0]
		if len(ks) > 1 {
			label = ks[0] + "/" + ks[1]
		}
		out = append(out, key.NewBinding(
			key.WithKeys(ks...),
			key.WithHelp(label, desc[cmd]),
		))
	}
	return out
}
