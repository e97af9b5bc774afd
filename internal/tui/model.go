package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tui/keymap"
	"github.com/Iron-Ham/fintrack/internal/tui/styles"
	"github.com/Iron-Ham/fintrack/internal/views"
)

// Layout constants
const (
	headerHeight = 3 // title + tab row + margin
	footerHeight = 2 // status line + help bar
)

// Options configures the TUI.
type Options struct {
	Session *session.Controller
	Service views.Service
	Logger  *logging.Logger

	// Currency is the symbol prefixed to amounts.
	Currency string
	// AltScreen runs the program in the terminal's alternate screen.
	AltScreen bool
	// Now dates new transactions. Nil means time.Now.
	Now func() time.Time
}

// authState is the login/register form.
type authState struct {
	form   session.Form
	fields fieldSet
	err    string
	busy   bool
}

func newAuthState(form session.Form) authState {
	fields := loginFields()
	if form == session.FormRegister {
		fields = registerFields()
	}
	return authState{form: form, fields: fields}
}

// pageForm is the open create/edit form of a resource page.
type pageForm struct {
	page   session.Page
	title  string
	fields fieldSet
}

// editable is the form and delete flow shared by the resource views.
type editable interface {
	StartSubmit() (views.SubmitFunc, error)
	FinishSubmit(err error) bool
	CloseForm()
	RequestDelete(id int64)
	PendingDelete() (int64, bool)
	CancelDelete()
	StartDelete() (views.SubmitFunc, error)
	FinishDelete(err error) bool
}

// Model is the Bubbletea model of the fintrack TUI. It keeps a snapshot of
// the session state and reconciles it with the controller after every
// session message.
type Model struct {
	ctx      context.Context
	session  *session.Controller
	logger   *logging.Logger
	keymap   *keymap.Keymap
	currency string

	svc        views.Service
	viewLogger *logging.Logger
	now        func() time.Time

	dashboard    *views.Dashboard
	transactions *views.Transactions
	accounts     *views.Accounts
	categories   *views.Categories
	insights     *views.Insights

	state   session.State
	auth    authState
	form    *pageForm
	cursors map[session.Page]int

	viewport viewport.Model
	spinner  spinner.Model

	width    int
	height   int
	ready    bool
	showHelp bool
	quitting bool

	infoMessage string
}

// NewModel creates the model. ctx bounds every request the model issues.
func NewModel(ctx context.Context, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	currency := opts.Currency
	if currency == "" {
		currency = "$"
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Primary

	m := Model{
		ctx:        ctx,
		session:    opts.Session,
		logger:     logger.WithComponent("tui"),
		keymap:     keymap.DefaultKeymap(),
		currency:   currency,
		svc:        opts.Service,
		viewLogger: logger,
		now:        opts.Now,
		state:      opts.Session.State(),
		auth:       newAuthState(session.FormLogin),
		viewport:   viewport.New(80, 20),
		spinner:    sp,
	}
	m.resetViews()
	return m
}

// resetViews replaces every page with an empty one, dropping data, filters,
// cursors and staged deletes.
func (m *Model) resetViews() {
	m.dashboard = views.NewDashboard(m.svc, m.viewLogger)
	m.transactions = views.NewTransactions(m.svc, m.viewLogger, m.now)
	m.accounts = views.NewAccounts(m.svc, m.viewLogger)
	m.categories = views.NewCategories(m.svc, m.viewLogger)
	m.insights = views.NewInsights(m.svc, m.viewLogger)
	m.cursors = make(map[session.Page]int)
	m.form = nil
	m.infoMessage = ""
}

// Init restores the stored session.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, bootCmd(m.ctx, m.session))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.refreshViewport()
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 1)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionMsg:
		m.auth.busy = false
		if msg.err != nil {
			m.auth.err = errors.Reduce(msg.err)
		}
		return m.syncState()

	case stateChangedMsg:
		return m.syncState()

	case loadedMsg:
		if err := msg.apply(); err != nil {
			return m.handleError(err)
		}
		return m, nil

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	}
	return m, nil
}

// syncState reconciles the snapshot with the controller. Entering a page
// loads it. Leaving the authenticated state discards every page so the next
// user starts clean.
func (m Model) syncState() (Model, tea.Cmd) {
	next := m.session.State()
	if next == m.state {
		return m, nil
	}
	prev := m.state
	m.state = next

	switch s := next.(type) {
	case session.Unauthenticated:
		if _, ok := prev.(session.Authenticated); ok {
			m.resetViews()
		}
		m.form = nil
		if p, ok := prev.(session.Unauthenticated); !ok || p.Form != s.Form {
			m.auth = newAuthState(s.Form)
		}
		return m, m.auth.fields.focusField(m.auth.fields.focus)

	case session.Authenticated:
		if p, ok := prev.(session.Authenticated); ok && p.Page == s.Page {
			return m, nil
		}
		m.form = nil
		m.infoMessage = ""
		m.viewport.GotoTop()
		return m, m.loadPage(s.Page)
	}
	return m, nil
}

// handleError logs the user out when err is a rejected token.
func (m Model) handleError(err error) (Model, tea.Cmd) {
	if !m.session.HandleUnauthorized(err) {
		return m, nil
	}
	m, cmd := m.syncState()
	m.auth.err = "Your session has expired. Please sign in again."
	return m, cmd
}

// page returns the current page, or "" when signed out.
func (m Model) page() session.Page {
	if s, ok := m.state.(session.Authenticated); ok {
		return s.Page
	}
	return ""
}

func (m Model) mode() keymap.Mode {
	if _, ok := m.state.(session.Authenticated); !ok {
		return keymap.ModeAuth
	}
	if m.form != nil {
		return keymap.ModeForm
	}
	if ed := m.editorFor(m.page()); ed != nil {
		if _, ok := ed.PendingDelete(); ok {
			return keymap.ModeConfirm
		}
	}
	return keymap.ModeNormal
}

func (m Model) loadPage(page session.Page) tea.Cmd {
	switch page {
	case session.PageDashboard:
		return loadCmd(m.ctx, page, m.dashboard.StartLoad, m.dashboard.ApplyLoad)
	case session.PageTransactions:
		return loadCmd(m.ctx, page, m.transactions.StartLoad, m.transactions.ApplyLoad)
	case session.PageAccounts:
		return loadCmd(m.ctx, page, m.accounts.StartLoad, m.accounts.ApplyLoad)
	case session.PageCategories:
		return loadCmd(m.ctx, page, m.categories.StartLoad, m.categories.ApplyLoad)
	case session.PageInsights:
		return loadCmd(m.ctx, page, m.insights.StartLoad, m.insights.ApplyLoad)
	}
	return nil
}

func (m Model) editorFor(page session.Page) editable {
	switch page {
	case session.PageTransactions:
		return m.transactions
	case session.PageAccounts:
		return m.accounts
	case session.PageCategories:
		return m.categories
	}
	return nil
}

// formError returns the error line of page's form.
func (m Model) formError(page session.Page) string {
	switch page {
	case session.PageTransactions:
		return m.transactions.Form().Error
	case session.PageAccounts:
		return m.accounts.Form().Error
	case session.PageCategories:
		return m.categories.Form().Error
	}
	return ""
}

// itemCount is the number of selectable rows on page.
func (m Model) itemCount(page session.Page) int {
	switch page {
	case session.PageTransactions:
		return len(m.transactions.Data().Transactions)
	case session.PageAccounts:
		return len(m.accounts.Items())
	case session.PageCategories:
		return len(m.categories.Items())
	}
	return 0
}

// cursor returns page's cursor clamped to its rows.
func (m Model) cursor(page session.Page) int {
	n := m.itemCount(page)
	c := m.cursors[page]
	if c >= n {
		c = n - 1
	}
	return max(c, 0)
}

// selectedID returns the id of the row under the cursor.
func (m Model) selectedID(page session.Page) (int64, bool) {
	if m.itemCount(page) == 0 {
		return 0, false
	}
	i := m.cursor(page)
	switch page {
	case session.PageTransactions:
		return m.transactions.Data().Transactions[i].ID, true
	case session.PageAccounts:
		return m.accounts.Items()[i].ID, true
	case session.PageCategories:
		return m.categories.Items()[i].ID, true
	}
	return 0, false
}

// openForm opens page's create form, or its edit form for the selected row.
func (m Model) openForm(page session.Page, edit bool) (Model, tea.Cmd) {
	if edit && m.itemCount(page) == 0 {
		return m, nil
	}
	i := m.cursor(page)

	var fs fieldSet
	var title string
	switch page {
	case session.PageAccounts:
		title = "New account"
		if edit {
			m.accounts.OpenEdit(m.accounts.Items()[i])
			title = "Edit account"
		} else {
			m.accounts.OpenCreate()
		}
		fs = accountFields(m.accounts.Form().Values)

	case session.PageCategories:
		title = "New category"
		if edit {
			m.categories.OpenEdit(m.categories.Items()[i])
			title = "Edit category"
		} else {
			m.categories.OpenCreate()
		}
		fs = categoryFields(m.categories.Form().Values)

	case session.PageTransactions:
		data := m.transactions.Data()
		title = "New transaction"
		if edit {
			m.transactions.OpenEdit(data.Transactions[i])
			title = "Edit transaction"
		} else {
			m.transactions.OpenCreate()
		}
		fs = transactionFields(m.transactions.Form().Values, data.Accounts, data.Categories)

	default:
		return m, nil
	}

	m.infoMessage = ""
	m.form = &pageForm{page: page, title: title, fields: fs}
	return m, m.form.fields.focusField(0)
}

// writeForm copies the widget values into the view's form.
func (m Model) writeForm() {
	switch m.form.page {
	case session.PageAccounts:
		m.accounts.Form().Values = readAccount(m.form.fields)
	case session.PageCategories:
		m.categories.Form().Values = readCategory(m.form.fields)
	case session.PageTransactions:
		m.transactions.Form().Values = readTransaction(m.form.fields)
	}
}

func (m Model) submitForm() (Model, tea.Cmd) {
	page := m.form.page
	ed := m.editorFor(page)
	m.writeForm()
	run, err := ed.StartSubmit()
	if err != nil {
		return m, nil
	}
	return m, submitCmd(m.ctx, page, run)
}

func (m Model) closeForm() Model {
	if m.form != nil {
		if ed := m.editorFor(m.form.page); ed != nil {
			ed.CloseForm()
		}
	}
	m.form = nil
	return m
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (Model, tea.Cmd) {
	ed := m.editorFor(msg.page)
	if ed == nil {
		return m, nil
	}
	if !ed.FinishSubmit(msg.err) {
		return m.handleError(msg.err)
	}
	if m.form != nil && m.form.page == msg.page {
		m.form = nil
	}
	m.infoMessage = "Saved"
	return m, m.loadPage(msg.page)
}

func (m Model) handleDeleteDone(msg deleteDoneMsg) (Model, tea.Cmd) {
	ed := m.editorFor(msg.page)
	if ed == nil {
		return m, nil
	}
	if !ed.FinishDelete(msg.err) {
		return m.handleError(msg.err)
	}
	m.infoMessage = "Deleted"
	return m, m.loadPage(msg.page)
}

// cycleTypeFilter advances the transaction type filter through
// all -> income -> expense -> transfer -> all.
func (m Model) cycleTypeFilter() tea.Cmd {
	f := m.transactions.Filter()
	f.TransactionType = nextValue(append([]string{""}, models.TransactionTypes()...), f.TransactionType)
	if !m.transactions.SetFilter(f) {
		return nil
	}
	return m.loadPage(session.PageTransactions)
}

// cycleCategoryFilter advances the category filter through the loaded
// categories, starting and ending at "all".
func (m Model) cycleCategoryFilter() tea.Cmd {
	categories := m.transactions.Data().Categories
	ids := make([]int64, 0, len(categories)+1)
	ids = append(ids, 0)
	for _, c := range categories {
		ids = append(ids, c.ID)
	}
	f := m.transactions.Filter()
	f.Category = nextValue(ids, f.Category)
	if !m.transactions.SetFilter(f) {
		return nil
	}
	return m.loadPage(session.PageTransactions)
}

// nextValue returns the element after current, wrapping around. An unknown
// current yields the first element.
func nextValue[T comparable](values []T, current T) T {
	for i, v := range values {
		if v == current {
			return values[(i+1)%len(values)]
		}
	}
	return values[0]
}

func (m *Model) refreshViewport() {
	if _, ok := m.state.(session.Authenticated); !ok {
		return
	}
	m.viewport.SetContent(m.pageBody())
}
