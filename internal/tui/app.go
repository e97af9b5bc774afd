// Package tui is the interactive terminal front end of fintrack. A single
// Bubbletea program renders the login/register forms while signed out and
// the five resource pages while signed in.
package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/fintrack/internal/session"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	session *session.Controller
	alt     bool
}

// New creates a new TUI application
func New(ctx context.Context, opts Options) *App {
	return &App{
		model:   NewModel(ctx, opts),
		session: opts.Session,
		alt:     opts.AltScreen,
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	var programOpts []tea.ProgramOption
	if a.alt {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	a.program = tea.NewProgram(a.model, programOpts...)

	// Quit cleanly on termination signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	// Session changes made outside Update (a 401 seen by a load, a boot
	// finishing) reach the model as messages. Send blocks until Update
	// receives, and observers may run on the Update goroutine itself.
	a.session.OnChange(func(s session.State) {
		go a.program.Send(stateChangedMsg{state: s})
	})

	_, err := a.program.Run()

	signal.Stop(sigChan)

	return err
}
