package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tui/keymap"
	"github.com/Iron-Ham/fintrack/internal/tui/styles"
	"github.com/Iron-Ham/fintrack/internal/util"
)

const defaultWidth = 80

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch s := m.state.(type) {
	case session.Unauthenticated:
		return m.authView()
	case session.Authenticated:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.headerView(s),
			m.viewport.View(),
			m.footerView(),
		)
	default:
		return m.spinner.View() + " Restoring session…"
	}
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m Model) authView() string {
	title := "Sign in"
	hint := "enter sign in • tab next field • ctrl+r create an account • esc quit"
	if m.auth.form == session.FormRegister {
		title = "Create account"
		hint = "enter register • tab next field • ctrl+r back to sign in • esc quit"
	}

	errText := m.auth.err
	if m.auth.busy {
		hint = m.spinner.View() + " Contacting server…"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.Title.Render("fintrack"),
		renderForm(title, m.auth.fields, errText, hint),
	)
}

func (m Model) headerView(s session.Authenticated) string {
	title := styles.Title.Render("fintrack") + styles.Muted.Render("  signed in as "+s.User.DisplayName())

	tabs := make([]string, 0, len(session.Pages()))
	for i, p := range session.Pages() {
		label := fmt.Sprintf("%d %s", i+1, p.Title())
		if p == s.Page {
			tabs = append(tabs, styles.TabActive.Render(label))
		} else {
			tabs = append(tabs, styles.TabInactive.Render(label))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		styles.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...)),
	)
}

func (m Model) footerView() string {
	status := ""
	if m.infoMessage != "" {
		status = styles.SuccessMsg.Render(m.infoMessage)
	}
	help := strings.Join(m.keymap.HelpLine(m.mode()), " • ")
	return lipgloss.JoinVertical(lipgloss.Left,
		status,
		styles.HelpBar.Render(util.Truncate(help, m.contentWidth())),
	)
}

// pageBody renders the viewport content of the current page.
func (m Model) pageBody() string {
	page := m.page()
	if m.form != nil {
		return renderForm(m.form.title, m.form.fields, m.formError(m.form.page),
			"enter save • tab next field • ←/→ change choice • esc cancel")
	}

	var body string
	switch page {
	case session.PageDashboard:
		body = m.dashboardBody()
	case session.PageTransactions:
		body = m.transactionsBody()
	case session.PageAccounts:
		body = m.accountsBody()
	case session.PageCategories:
		body = m.categoriesBody()
	case session.PageInsights:
		body = m.insightsBody()
	}

	if banner := m.confirmBanner(page); banner != "" {
		body = banner + "\n\n" + body
	}
	if m.showHelp {
		body += "\n\n" + m.helpView()
	}
	return body
}

func (m Model) confirmBanner(page session.Page) string {
	ed := m.editorFor(page)
	if ed == nil {
		return ""
	}
	id, ok := ed.PendingDelete()
	if !ok {
		return ""
	}

	var text string
	switch page {
	case session.PageAccounts:
		text = fmt.Sprintf("Delete account %q?", m.accountName(id))
	case session.PageCategories:
		text = fmt.Sprintf("Delete category %q? Its transactions are kept without a category.", m.categoryName(id))
	case session.PageTransactions:
		text = "Delete this transaction?"
	}
	return styles.ConfirmBanner.Render(text + " (y/n)")
}

func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(styles.Subtitle.Render("Keys"))
	for _, mode := range []keymap.Mode{keymap.ModeNormal, keymap.ModeForm, keymap.ModeConfirm} {
		b.WriteString("\n")
		b.WriteString(styles.Muted.Render(string(mode)))
		for _, line := range m.keymap.HelpLine(mode) {
			key, desc, _ := strings.Cut(line, " ")
			b.WriteString("\n  ")
			b.WriteString(styles.HelpKey.Render(util.PadRight(key, 16)))
			b.WriteString(desc)
		}
	}
	return b.String()
}

func (m Model) loadingLine(what string) string {
	return m.spinner.View() + " " + styles.Muted.Render(what+"…")
}

func (m Model) accountName(id int64) string {
	for _, a := range m.accounts.Items() {
		if a.ID == id {
			return a.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (m Model) categoryName(id int64) string {
	for _, c := range m.categories.Items() {
		if c.ID == id {
			return c.Name
		}
	}
	for _, c := range m.transactions.Data().Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}
