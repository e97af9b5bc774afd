package keymap

import tea "github.com/charmbracelet/bubbletea"

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[Mode]*ModeBindings{
			ModeAuth:    defaultAuthBindings(),
			ModeNormal:  defaultNormalBindings(),
			ModeForm:    defaultFormBindings(),
			ModeConfirm: defaultConfirmBindings(),
		},
	}
}

func defaultAuthBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeAuth,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdNextField, Description: "next field"},
			{KeyType: tea.KeyDown, Command: CmdNextField},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevField, Description: "prev field"},
			{KeyType: tea.KeyUp, Command: CmdPrevField},
			{KeyType: tea.KeyEnter, Command: CmdSubmit, Description: "submit"},
			{KeyType: tea.KeyCtrlR, Command: CmdSwitchForm, Description: "login/register"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit, Description: "quit"},
			{KeyType: tea.KeyEsc, Command: CmdQuit},
		},
	}
}

func defaultNormalBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeNormal,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdNextPage, Description: "next page"},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevPage, Description: "prev page"},
			{KeyType: tea.KeyRunes, Rune: '1', Command: CmdJumpToPage},
			{KeyType: tea.KeyRunes, Rune: '2', Command: CmdJumpToPage},
			{KeyType: tea.KeyRunes, Rune: '3', Command: CmdJumpToPage},
			{KeyType: tea.KeyRunes, Rune: '4', Command: CmdJumpToPage},
			{KeyType: tea.KeyRunes, Rune: '5', Command: CmdJumpToPage},

			{KeyType: tea.KeyRunes, Rune: 'j', Command: CmdCursorDown, Description: "down"},
			{KeyType: tea.KeyDown, Command: CmdCursorDown},
			{KeyType: tea.KeyRunes, Rune: 'k', Command: CmdCursorUp, Description: "up"},
			{KeyType: tea.KeyUp, Command: CmdCursorUp},
			{KeyType: tea.KeyPgUp, Command: CmdScrollPageUp},
			{KeyType: tea.KeyPgDown, Command: CmdScrollPageDown},

			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdNew, Description: "new"},
			{KeyType: tea.KeyRunes, Rune: 'e', Command: CmdEdit, Description: "edit"},
			{KeyType: tea.KeyEnter, Command: CmdEdit},
			{KeyType: tea.KeyRunes, Rune: 'd', Command: CmdDelete, Description: "delete"},
			{KeyType: tea.KeyRunes, Rune: 'r', Command: CmdReload, Description: "refresh"},

			{KeyType: tea.KeyRunes, Rune: 't', Command: CmdCycleType, Description: "type filter"},
			{KeyType: tea.KeyRunes, Rune: 'c', Command: CmdCycleCategory, Description: "category filter"},
			{KeyType: tea.KeyRunes, Rune: 'x', Command: CmdClearFilter, Description: "clear filter"},

			{KeyType: tea.KeyRunes, Rune: '?', Command: CmdToggleHelp, Description: "help"},
			{KeyType: tea.KeyRunes, Rune: 'L', Command: CmdLogout, Description: "logout"},
			{KeyType: tea.KeyRunes, Rune: 'q', Command: CmdQuit, Description: "quit"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit},
		},
	}
}

func defaultFormBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeForm,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyTab, Command: CmdNextField, Description: "next field"},
			{KeyType: tea.KeyDown, Command: CmdNextField},
			{KeyType: tea.KeyShiftTab, Command: CmdPrevField, Description: "prev field"},
			{KeyType: tea.KeyUp, Command: CmdPrevField},
			{KeyType: tea.KeyRight, Command: CmdNextChoice, Description: "change option"},
			{KeyType: tea.KeyLeft, Command: CmdPrevChoice},
			{KeyType: tea.KeyEnter, Command: CmdSubmit, Description: "save"},
			{KeyType: tea.KeyCtrlS, Command: CmdSubmit},
			{KeyType: tea.KeyEsc, Command: CmdCancel, Description: "cancel"},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit},
		},
	}
}

func defaultConfirmBindings() *ModeBindings {
	return &ModeBindings{
		Mode: ModeConfirm,
		Bindings: []KeyBinding{
			{KeyType: tea.KeyRunes, Rune: 'y', Command: CmdConfirm, Description: "delete"},
			{KeyType: tea.KeyRunes, Rune: 'Y', Command: CmdConfirm},
			{KeyType: tea.KeyRunes, Rune: 'n', Command: CmdDecline, Description: "keep"},
			{KeyType: tea.KeyRunes, Rune: 'N', Command: CmdDecline},
			{KeyType: tea.KeyEsc, Command: CmdDecline},
			{KeyType: tea.KeyCtrlC, Command: CmdQuit},
		},
	}
}
