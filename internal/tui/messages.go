package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/views"
)

// Messages

// sessionMsg reports that a boot, login, register or logout call returned.
type sessionMsg struct {
	err error
}

// stateChangedMsg is sent by the session observer installed in App.Run.
type stateChangedMsg struct {
	state session.State
}

// loadedMsg carries a finished page load. apply must run on the Update
// goroutine because it writes view state.
type loadedMsg struct {
	page  session.Page
	apply func() error
}

type submitDoneMsg struct {
	page session.Page
	err  error
}

type deleteDoneMsg struct {
	page session.Page
	err  error
}

// Commands

func bootCmd(ctx context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Boot(ctx)
		return sessionMsg{}
	}
}

func loginCmd(ctx context.Context, ctrl *session.Controller, req models.LoginRequest) tea.Cmd {
	return func() tea.Msg {
		return sessionMsg{err: ctrl.Login(ctx, req)}
	}
}

func registerCmd(ctx context.Context, ctrl *session.Controller, req models.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		return sessionMsg{err: ctrl.Register(ctx, req)}
	}
}

func logoutCmd(ctx context.Context, ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Logout(ctx)
		return sessionMsg{}
	}
}

// loadCmd starts a view load on the calling goroutine and runs the fetches
// in the returned command.
func loadCmd[D any](ctx context.Context, page session.Page, start func() (views.Ticket, views.LoadFunc[D]), apply func(views.Ticket, D, error) error) tea.Cmd {
	t, run := start()
	return func() tea.Msg {
		data, err := run(ctx)
		return loadedMsg{page: page, apply: func() error { return apply(t, data, err) }}
	}
}

func submitCmd(ctx context.Context, page session.Page, run views.SubmitFunc) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{page: page, err: run(ctx)}
	}
}

func deleteCmd(ctx context.Context, page session.Page, run views.SubmitFunc) tea.Cmd {
	return func() tea.Msg {
		return deleteDoneMsg{page: page, err: run(ctx)}
	}
}
