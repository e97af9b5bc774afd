package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tui/keymap"
)

// handleKeypress dispatches a key to the handler of the current mode.
func (m Model) handleKeypress(msg tea.KeyMsg) (Model, tea.Cmd) {
	mode := m.mode()
	cmd, bound := m.keymap.GetBinding(msg, mode)

	switch mode {
	case keymap.ModeAuth:
		return m.handleAuthKey(msg, cmd, bound)
	case keymap.ModeForm:
		return m.handleFormKey(msg, cmd, bound)
	case keymap.ModeConfirm:
		return m.handleConfirmKey(cmd, bound)
	default:
		return m.handleNormalKey(msg, cmd, bound)
	}
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m Model) handleAuthKey(msg tea.KeyMsg, cmd keymap.Command, bound bool) (Model, tea.Cmd) {
	if bound && cmd == keymap.CmdQuit {
		return m.quit()
	}
	if _, ok := m.state.(session.Unauthenticated); !ok || m.auth.busy {
		return m, nil
	}
	if !bound {
		return m, m.auth.fields.update(msg)
	}

	switch cmd {
	case keymap.CmdNextField:
		return m, m.auth.fields.next()
	case keymap.CmdPrevField:
		return m, m.auth.fields.prev()
	case keymap.CmdSwitchForm:
		target := session.FormRegister
		if m.auth.form == session.FormRegister {
			target = session.FormLogin
		}
		m.session.SwitchForm(target)
		return m.syncState()
	case keymap.CmdSubmit:
		m.auth.err = ""
		m.auth.busy = true
		if m.auth.form == session.FormRegister {
			return m, registerCmd(m.ctx, m.session, readRegister(m.auth.fields))
		}
		return m, loginCmd(m.ctx, m.session, readLogin(m.auth.fields))
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg, cmd keymap.Command, bound bool) (Model, tea.Cmd) {
	if !bound {
		return m, m.form.fields.update(msg)
	}

	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdNextField:
		return m, m.form.fields.next()
	case keymap.CmdPrevField:
		return m, m.form.fields.prev()
	case keymap.CmdNextChoice, keymap.CmdPrevChoice:
		// Left/right move the text cursor unless a picker is focused.
		if f := m.form.fields.focused(); f == nil || !f.picker {
			return m, m.form.fields.update(msg)
		}
		delta := 1
		if cmd == keymap.CmdPrevChoice {
			delta = -1
		}
		m.form.fields.cycle(delta)
		return m, nil
	case keymap.CmdSubmit:
		if m.editorFor(m.form.page) == nil {
			return m, nil
		}
		return m.submitForm()
	case keymap.CmdCancel:
		return m.closeForm(), nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(cmd keymap.Command, bound bool) (Model, tea.Cmd) {
	if !bound {
		return m, nil
	}
	page := m.page()
	ed := m.editorFor(page)

	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdConfirm:
		run, err := ed.StartDelete()
		if err != nil {
			return m, nil
		}
		return m, deleteCmd(m.ctx, page, run)
	case keymap.CmdDecline:
		ed.CancelDelete()
	}
	return m, nil
}

func (m Model) handleNormalKey(msg tea.KeyMsg, cmd keymap.Command, bound bool) (Model, tea.Cmd) {
	if !bound {
		return m, nil
	}
	page := m.page()

	switch cmd {
	case keymap.CmdQuit:
		return m.quit()
	case keymap.CmdToggleHelp:
		m.showHelp = !m.showHelp
	case keymap.CmdLogout:
		return m, logoutCmd(m.ctx, m.session)

	case keymap.CmdNextPage, keymap.CmdPrevPage, keymap.CmdJumpToPage:
		return m.navigate(pageAfter(page, cmd, msg))

	case keymap.CmdCursorDown:
		if n := m.itemCount(page); n > 0 {
			m.cursors[page] = min(m.cursor(page)+1, n-1)
		} else {
			m.viewport.SetYOffset(m.viewport.YOffset + 1)
		}
	case keymap.CmdCursorUp:
		if m.itemCount(page) > 0 {
			m.cursors[page] = max(m.cursor(page)-1, 0)
		} else {
			m.viewport.SetYOffset(m.viewport.YOffset - 1)
		}
	case keymap.CmdScrollPageDown:
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
	case keymap.CmdScrollPageUp:
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)

	case keymap.CmdNew:
		return m.openForm(page, false)
	case keymap.CmdEdit:
		return m.openForm(page, true)
	case keymap.CmdDelete:
		if ed := m.editorFor(page); ed != nil {
			if id, ok := m.selectedID(page); ok {
				m.infoMessage = ""
				ed.RequestDelete(id)
			}
		}
	case keymap.CmdReload:
		return m, m.loadPage(page)

	case keymap.CmdCycleType:
		if page == session.PageTransactions {
			return m, m.cycleTypeFilter()
		}
	case keymap.CmdCycleCategory:
		if page == session.PageTransactions {
			return m, m.cycleCategoryFilter()
		}
	case keymap.CmdClearFilter:
		if page == session.PageTransactions && m.transactions.ClearFilter() {
			return m, m.loadPage(page)
		}
	}
	return m, nil
}

// navigate switches pages through the session controller.
func (m Model) navigate(page session.Page) (Model, tea.Cmd) {
	if err := m.session.Navigate(page); err != nil {
		m.logger.Debug("navigation rejected", "page", string(page), "error", err.Error())
		return m, nil
	}
	return m.syncState()
}

// pageAfter resolves a page command relative to current.
func pageAfter(current session.Page, cmd keymap.Command, msg tea.KeyMsg) session.Page {
	pages := session.Pages()
	idx := 0
	for i, p := range pages {
		if p == current {
			idx = i
		}
	}

	switch cmd {
	case keymap.CmdNextPage:
		idx = (idx + 1) % len(pages)
	case keymap.CmdPrevPage:
		idx = (idx - 1 + len(pages)) % len(pages)
	case keymap.CmdJumpToPage:
		n, ok := keymap.PageNumber(msg)
		if !ok || n >= len(pages) {
			return current
		}
		idx = n
	}
	return pages[idx]
}
