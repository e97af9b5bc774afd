// Package keymap declares the key bindings of the fintrack TUI, grouped by
// input mode, so the model's Update only deals in named commands.
package keymap

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Mode is the input mode of the TUI. Each mode has its own bindings.
type Mode string

const (
	ModeAuth    Mode = "auth"    // Login or register form
	ModeNormal  Mode = "normal"  // Browsing a page
	ModeForm    Mode = "form"    // Editing a create/update form
	ModeConfirm Mode = "confirm" // Confirming a delete
)

// Command is a named action triggered by a key binding.
type Command string

// Normal mode commands
const (
	CmdNextPage       Command = "next_page"
	CmdPrevPage       Command = "prev_page"
	CmdJumpToPage     Command = "jump_to_page" // 1-5
	CmdCursorDown     Command = "cursor_down"
	CmdCursorUp       Command = "cursor_up"
	CmdScrollPageUp   Command = "scroll_page_up"
	CmdScrollPageDown Command = "scroll_page_down"

	CmdNew    Command = "new"
	CmdEdit   Command = "edit"
	CmdDelete Command = "delete"
	CmdReload Command = "reload"

	CmdCycleType     Command = "cycle_type_filter"
	CmdCycleCategory Command = "cycle_category_filter"
	CmdClearFilter   Command = "clear_filter"

	CmdToggleHelp Command = "toggle_help"
	CmdLogout     Command = "logout"
	CmdQuit       Command = "quit"
)

// Form and auth mode commands
const (
	CmdNextField  Command = "next_field"
	CmdPrevField  Command = "prev_field"
	CmdNextChoice Command = "next_choice"
	CmdPrevChoice Command = "prev_choice"
	CmdSubmit     Command = "submit"
	CmdCancel     Command = "cancel"
	CmdSwitchForm Command = "switch_form"
)

// Confirm mode commands
const (
	CmdConfirm Command = "confirm"
	CmdDecline Command = "decline"
)

// Modifier is a bitmask of modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModAlt  Modifier = 1 << iota
)

// KeyBinding maps one key to a command.
type KeyBinding struct {
	// KeyType is the bubbletea key type. tea.KeyRunes means Rune is used.
	KeyType tea.KeyType
	Rune    rune

	Modifiers Modifier

	Command     Command
	Description string
}

// Matches reports whether msg triggers the binding.
func (kb KeyBinding) Matches(msg tea.KeyMsg) bool {
	if msg.Alt != (kb.Modifiers&ModAlt != 0) {
		return false
	}
	if kb.KeyType != tea.KeyRunes {
		return msg.Type == kb.KeyType
	}
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return false
	}
	return kb.Rune == 0 || msg.Runes[0] == kb.Rune
}

// String renders the key the way the help bar shows it.
func (kb KeyBinding) String() string {
	prefix := ""
	if kb.Modifiers&ModAlt != 0 {
		prefix = "alt+"
	}
	if kb.KeyType != tea.KeyRunes {
		return prefix + kb.KeyType.String()
	}
	if kb.Rune == ' ' {
		return prefix + "space"
	}
	return prefix + string(kb.Rune)
}

// ModeBindings is the ordered binding list of one mode. The first match
// wins.
type ModeBindings struct {
	Mode     Mode
	Bindings []KeyBinding
}

// Keymap holds the bindings of every mode.
type Keymap struct {
	Name  string
	Modes map[Mode]*ModeBindings
}

// GetBinding returns the command msg triggers in mode.
func (km *Keymap) GetBinding(msg tea.KeyMsg, mode Mode) (Command, bool) {
	mb, ok := km.Modes[mode]
	if !ok {
		return "", false
	}
	for _, b := range mb.Bindings {
		if b.Matches(msg) {
			return b.Command, true
		}
	}
	return "", false
}

// GetModeBindings returns the bindings of mode.
func (km *Keymap) GetModeBindings(mode Mode) []KeyBinding {
	if mb, ok := km.Modes[mode]; ok {
		return mb.Bindings
	}
	return nil
}

// HelpLine renders "key description" pairs for mode, one per command, in
// binding order. Commands with several keys list them joined by "/".
func (km *Keymap) HelpLine(mode Mode) []string {
	var order []Command
	keys := map[Command][]string{}
	desc := map[Command]string{}
	for _, b := range km.GetModeBindings(mode) {
		if b.Description == "" {
			continue
		}
		if _, seen := keys[b.Command]; !seen {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = append(keys[b.Command], b.String())
	}

	out := make([]string, 0, len(order))
	for _, c := range order {
		out = append(out, strings.Join(keys[c], "/")+" "+desc[c])
	}
	return out
}

// PageNumber returns the 0-based page index for a digit key.
func PageNumber(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}
