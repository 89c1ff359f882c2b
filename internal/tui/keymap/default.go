package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the board's key bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeNormal:        defaultNormalBindings(),
			ModeGrab:          defaultGrabBindings(),
			ModeDetail:        defaultDetailBindings(),
			ModeNotifications: defaultNotificationBindings(),
			ModeLoadError:     defaultLoadErrorBindings(),
		},
	}
}

func navigation(category string) []KeyBinding {
	return []KeyBinding{
		{KeyType: tea.KeyRunes, Rune: 'h', Command: CmdLeft, Description: "previous stage", Category: category},
		{KeyType: tea.KeyLeft, Command: CmdLeft, Description: "previous stage", Category: category},
		{KeyType: tea.KeyRunes, Rune: 'l', Command: CmdRight, Description: "next stage", Category: category},
		{KeyType: tea.KeyRight, Command: CmdRight, Description: "next stage", Category: category},
		{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdUp, Description: "up", Category: category},
		{KeyType: tea.KeyUp, Command: CmdUp, Description: "up", Category: category},
		{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdDown, Description: "down", Category: category},
		{KeyType: tea.KeyDown, Command: CmdDown, Description: "down", Category: category},
	}
}

func defaultNormalBindings() *ModeBindings {
	bindings := navigation("Navigation")
	bindings = append(bindings,
		// Cards
		KeyBinding{KeyType: tea.KeySpace, Command: CmdGrab, Description: "grab card", Category: "Cards"},
		KeyBinding{KeyType: tea.KeyEnter, Command: CmdOpen, Description: "open deal", Category: "Cards"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdToggleColumn, Description: "expand/collapse", Category: "Cards"},

		// Board
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdReload, Description: "reload", Category: "Board"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdNotifications, Description: "notifications", Category: "Board"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "help", Category: "Board"},
		KeyBinding{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "quit", Category: "Board"},
		KeyBinding{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit", Category: "Board"},
	)
	return &ModeBindings{Mode: ModeNormal, Bindings: bindings}
}

func defaultGrabBindings() *ModeBindings {
	bindings := navigation("Move")
	bindings = append(bindings,
		KeyBinding{KeyType: tea.KeySpace, Command: CmdDrop, Description: "drop", Category: "Move"},
		KeyBinding{KeyType: tea.KeyEnter, Command: CmdDrop, Description: "drop", Category: "Move"},
		KeyBinding{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "cancel", Category: "Move"},
		KeyBinding{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit", Category: "Board"},
	)
	return &ModeBindings{Mode: ModeGrab, Bindings: bindings}
}

func defaultDetailBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeDetail,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "back to board", Category: "Detail"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdCancel, Description: "back to board", Category: "Detail"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit", Category: "Board"},
		},
	}
}

func defaultNotificationBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNotifications,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdUp, Description: "up", Category: "Notifications"},
			{KeyType: tea.KeyUp, Command: CmdUp, Description: "up", Category: "Notifications"},
			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdDown, Description: "down", Category: "Notifications"},
			{KeyType: tea.KeyDown, Command: CmdDown, Description: "down", Category: "Notifications"},
			{KeyType: tea.KeyEnter, Command: CmdOpen, Description: "open deal", Category: "Notifications"},
			{KeyType: tea.KeyRunes, Rune: 'm', Command: CmdMarkRead, Description: "mark read", Category: "Notifications"},
			{KeyType: tea.KeyRunes, Rune: 'M', Command: CmdMarkAllRead, Description: "mark all read", Category: "Notifications"},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "close", Category: "Notifications"},
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdCancel, Description: "close", Category: "Notifications"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit", Category: "Board"},
		},
	}
}

func defaultLoadErrorBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeLoadError,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdReload, Description: "retry", Category: "Board"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "quit", Category: "Board"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit", Category: "Board"},
		},
	}
}
