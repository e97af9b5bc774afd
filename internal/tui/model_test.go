package tui

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/fintrack/internal/api"
	"github.com/Iron-Ham/fintrack/internal/apitest"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
	"github.com/Iron-Ham/fintrack/internal/tui/keymap"
)

type harness struct {
	server *apitest.Server
	store  *tokenstore.MemoryStore
	client *api.Client
	ctrl   *session.Controller
	user   models.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	server := apitest.New(t)
	store := tokenstore.NewMemoryStore("test")
	client := api.NewClient(server.URL(), store)
	user := server.AddUser(models.User{Username: "alice", Email: "a@b.com", FirstName: "Alice", LastName: "Doe"}, "secret123")
	return &harness{
		server: server,
		store:  store,
		client: client,
		ctrl:   session.New(session.Deps{Auth: api.NewAuthAPI(client), Store: store}),
		user:   user,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
}

// booted returns a model that has finished restoring the stored session.
func (h *harness) booted(t *testing.T) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{
		Session: h.ctrl,
		Service: api.NewExpensesAPI(h.client),
		Now:     fixedNow,
	})
	m = drive(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return drive(t, m, bootCmd(context.Background(), h.ctrl)())
}

// signedIn stores tokens for alice and boots onto the dashboard.
func (h *harness) signedIn(t *testing.T) Model {
	t.Helper()
	require.NoError(t, h.store.Save(context.Background(), h.server.IssueTokens(h.user.ID)))
	m := h.booted(t)
	require.IsType(t, session.Authenticated{}, m.state)
	return m
}

// drive feeds msg to the model and runs every command it returns until the
// chain settles.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("message chain did not settle")
		}
		next := queue[0]
		queue = queue[1:]

		if batch, ok := next.(tea.BatchMsg); ok {
			for _, cmd := range batch {
				if cmd == nil {
					continue
				}
				if out := cmd(); out != nil {
					queue = append(queue, out)
				}
			}
			continue
		}

		updated, cmd := m.Update(next)
		m = updated.(Model)
		if cmd != nil {
			if out := cmd(); out != nil {
				queue = append(queue, out)
			}
		}
	}
	return m
}

// press sends a sequence of keys. Named keys map to their key type; anything
// else is typed as runes.
func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = drive(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	named := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"esc":       tea.KeyEsc,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"down":      tea.KeyDown,
		"up":        tea.KeyUp,
		"ctrl+r":    tea.KeyCtrlR,
		"ctrl+c":    tea.KeyCtrlC,
	}
	if kt, ok := named[k]; ok {
		return tea.KeyMsg{Type: kt}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

// -----------------------------------------------------------------------------
// Auth
// -----------------------------------------------------------------------------

func TestModel_BootWithoutTokensShowsLogin(t *testing.T) {
	h := newHarness(t)
	m := h.booted(t)

	assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, m.state)
	assert.Equal(t, keymap.ModeAuth, m.mode())
	assert.Contains(t, m.View(), "Sign in")
	assert.Empty(t, h.server.Requests(), "no stored token means no profile call")
}

func TestModel_LoginLandsOnDashboard(t *testing.T) {
	h := newHarness(t)
	h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	m := h.booted(t)

	m = press(t, m, "a@b.com", "tab", "secret123", "enter")

	state, ok := m.state.(session.Authenticated)
	require.True(t, ok, "state = %v", m.state)
	assert.Equal(t, "alice", state.User.Username)
	assert.Equal(t, session.PageDashboard, state.Page)
	assert.True(t, m.dashboard.Loaded())
	assert.Equal(t, keymap.ModeNormal, m.mode())

	tokens, stored, err := h.store.Read(context.Background())
	require.NoError(t, err)
	assert.True(t, stored)
	assert.False(t, tokens.IsZero())

	view := m.View()
	assert.Contains(t, view, "signed in as Alice Doe")
	assert.Contains(t, view, "Wallet")
	assert.Contains(t, view, "Cash", "accounts are grouped by type")
}

func TestModel_LoginFailureKeepsForm(t *testing.T) {
	h := newHarness(t)
	m := h.booted(t)

	m = press(t, m, "a@b.com", "tab", "wrong-password", "enter")

	assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, m.state)
	assert.Equal(t, "non_field_errors: Invalid credentials", m.auth.err)
	assert.Equal(t, "a@b.com", m.auth.fields.value(keyEmail))
	assert.False(t, m.auth.busy)
	assert.Contains(t, m.View(), "Invalid credentials")
}

func TestModel_RegisterValidatesLocally(t *testing.T) {
	h := newHarness(t)
	m := h.booted(t)

	m = press(t, m, "ctrl+r")
	require.Equal(t, session.Unauthenticated{Form: session.FormRegister}, m.state)
	assert.Equal(t, session.FormRegister, m.auth.form)
	assert.Contains(t, m.View(), "Create account")

	m = press(t, m, "enter")
	assert.Equal(t, "Please fill in all required fields", m.auth.err)
	assert.Zero(t, h.server.Count(http.MethodPost, "/auth/register/"))

	m = press(t, m, "ctrl+r")
	assert.Equal(t, session.FormLogin, m.auth.form)
	assert.Empty(t, m.auth.err, "switching forms starts clean")
}

func TestModel_RegisterCreatesSession(t *testing.T) {
	h := newHarness(t)
	m := h.booted(t)

	m = press(t, m, "ctrl+r",
		"bob", "tab",
		"bob@example.com", "tab",
		"Bob", "tab",
		"Builder", "tab",
		"tab",
		"longpassword", "tab",
		"longpassword", "enter",
	)

	state, ok := m.state.(session.Authenticated)
	require.True(t, ok, "state = %v", m.state)
	assert.Equal(t, "bob", state.User.Username)
	assert.Equal(t, session.PageDashboard, state.Page)
}

func TestModel_Logout(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = press(t, m, "L")

	assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, m.state)
	_, ok, err := h.store.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, h.server.Count(http.MethodPost, "/auth/logout/"))
}

func TestModel_LogoutDiscardsPreviousUsersPages(t *testing.T) {
	h := newHarness(t)
	wallet := h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	h.server.AddTransaction(h.user.ID, models.TransactionInput{
		Account: wallet.ID, TransactionType: models.TransactionIncome, Amount: "100", Description: "Salary", Date: "2026-10-01",
	})
	bob := h.server.AddUser(models.User{Username: "bob", Email: "bob@example.com", FirstName: "Bob"}, "hunter22")
	bank := h.server.AddAccount(bob.ID, models.AccountInput{Name: "Bank", AccountType: models.AccountChecking})
	h.server.AddTransaction(bob.ID, models.TransactionInput{
		Account: bank.ID, TransactionType: models.TransactionExpense, Amount: "30", Description: "Groceries", Date: "2026-10-05",
	})

	m := h.signedIn(t)
	m = press(t, m, "2", "t", "down")
	require.Equal(t, models.TransactionIncome, m.transactions.Filter().TransactionType)

	m = press(t, m, "L")
	require.Equal(t, session.Unauthenticated{Form: session.FormLogin}, m.state)
	assert.True(t, m.transactions.Filter().IsZero())
	assert.False(t, m.transactions.Loaded(), "no cached rows survive logout")
	assert.False(t, m.dashboard.Loaded())
	assert.Empty(t, m.cursors)

	h.server.ResetRequests()
	m = press(t, m, "bob@example.com", "tab", "hunter22", "enter")
	state, ok := m.state.(session.Authenticated)
	require.True(t, ok, "state = %v", m.state)
	assert.Equal(t, "bob", state.User.Username)

	m = press(t, m, "2")
	assert.True(t, m.transactions.Filter().IsZero())
	require.Len(t, m.transactions.Data().Transactions, 1)
	assert.Equal(t, "Groceries", m.transactions.Data().Transactions[0].Description)
	assert.NotContains(t, m.View(), "Type: Income")
	for _, r := range h.server.Requests() {
		assert.NotContains(t, r.Query, "transaction_type=income", "%s %s", r.Method, r.Path)
	}
}

func TestModel_UnauthorizedLoadSignsOut(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	h.server.ExpireAccessTokens()
	m = press(t, m, "r")

	assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, m.state)
	assert.Equal(t, "Your session has expired. Please sign in again.", m.auth.err)
	_, ok, err := h.store.Read(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

// -----------------------------------------------------------------------------
// Navigation
// -----------------------------------------------------------------------------

func TestModel_Navigation(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)

	m = press(t, m, "3")
	assert.Equal(t, session.PageAccounts, m.page())
	assert.True(t, m.accounts.Loaded())

	m = press(t, m, "tab")
	assert.Equal(t, session.PageCategories, m.page())
	assert.True(t, m.categories.Loaded())

	m = press(t, m, "shift+tab", "shift+tab", "shift+tab", "shift+tab")
	assert.Equal(t, session.PageInsights, m.page(), "previous page wraps around")

	m = press(t, m, "9")
	assert.Equal(t, session.PageInsights, m.page(), "unknown page numbers are ignored")
}

func TestPageAfter(t *testing.T) {
	tests := []struct {
		name    string
		current session.Page
		cmd     keymap.Command
		key     string
		want    session.Page
	}{
		{"next", session.PageDashboard, keymap.CmdNextPage, "tab", session.PageTransactions},
		{"next wraps", session.PageInsights, keymap.CmdNextPage, "tab", session.PageDashboard},
		{"prev wraps", session.PageDashboard, keymap.CmdPrevPage, "shift+tab", session.PageInsights},
		{"jump", session.PageDashboard, keymap.CmdJumpToPage, "4", session.PageCategories},
		{"jump out of range", session.PageAccounts, keymap.CmdJumpToPage, "7", session.PageAccounts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageAfter(tt.current, tt.cmd, keyMsg(tt.key)))
		})
	}
}

func TestNextValue(t *testing.T) {
	types := []string{"", "income", "expense", "transfer"}
	assert.Equal(t, "income", nextValue(types, ""))
	assert.Equal(t, "", nextValue(types, "transfer"))
	assert.Equal(t, "", nextValue(types, "unknown"))
}

// -----------------------------------------------------------------------------
// Resource forms
// -----------------------------------------------------------------------------

func TestModel_CreateAccountThroughForm(t *testing.T) {
	h := newHarness(t)
	m := h.signedIn(t)
	m = press(t, m, "3", "n")

	require.NotNil(t, m.form)
	assert.Equal(t, keymap.ModeForm, m.mode())
	assert.Equal(t, models.AccountChecking, m.form.fields.value(keyAccountType))

	// checking -> savings -> credit_card -> cash
	m = press(t, m, "Wallet", "tab", "right", "right", "right", "enter")

	assert.Nil(t, m.form)
	assert.Equal(t, "Saved", m.infoMessage)
	require.Len(t, m.accounts.Items(), 1)
	assert.Equal(t, "Wallet", m.accounts.Items()[0].Name)
	assert.Equal(t, models.AccountCash, m.accounts.Items()[0].AccountType)
	assert.Equal(t, 1, h.server.Count(http.MethodPost, "/accounts/"))
}

func TestModel_FormErrorsKeepFormOpen(t *testing.T) {
	h := newHarness(t)
	h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	m := h.signedIn(t)
	m = press(t, m, "3", "n")

	m = press(t, m, "enter")
	require.NotNil(t, m.form)
	assert.Equal(t, "Please fill in all required fields", m.formError(session.PageAccounts))
	assert.Zero(t, h.server.Count(http.MethodPost, "/accounts/"))

	m = press(t, m, "Wallet", "enter")
	require.NotNil(t, m.form)
	assert.Equal(t, "name: You already have an account with this name.", m.formError(session.PageAccounts))
	assert.Equal(t, "Wallet", m.form.fields.value(keyName), "values survive a failed submit")
	assert.Contains(t, m.View(), "You already have an account with this name.")

	m = press(t, m, "esc")
	assert.Nil(t, m.form)
	assert.Equal(t, keymap.ModeNormal, m.mode())
}

func TestModel_EditCategoryPrefillsForm(t *testing.T) {
	h := newHarness(t)
	food := h.server.AddCategory(h.user.ID, models.CategoryInput{Name: "Food", Color: "#ff0000"})
	m := h.signedIn(t)
	m = press(t, m, "4", "e")

	require.NotNil(t, m.form)
	assert.Equal(t, "Edit category", m.form.title)
	assert.Equal(t, "Food", m.form.fields.value(keyName))
	assert.Equal(t, "#ff0000", m.form.fields.value(keyColor))

	m = press(t, m, " & Drink", "enter")
	assert.Nil(t, m.form)
	assert.Equal(t, 1, h.server.Count(http.MethodPut, "/categories/"+itoa(food.ID)+"/"))
	require.Len(t, m.categories.Items(), 1)
	assert.Equal(t, "Food & Drink", m.categories.Items()[0].Name)
}

func TestModel_CreateTransaction(t *testing.T) {
	h := newHarness(t)
	wallet := h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	m := h.signedIn(t)
	m = press(t, m, "2", "n")
	require.NotNil(t, m.form)
	assert.Equal(t, "2026-10-18", m.form.fields.value(keyDate))
	assert.Equal(t, models.TransactionExpense, m.form.fields.value(keyTransactionType))

	// Description, amount, type (kept), then the account picker.
	m = press(t, m, "Lunch", "tab", "12.5", "tab", "tab")
	m = press(t, m, "enter")
	assert.Equal(t, "Please fill in all required fields", m.formError(session.PageTransactions), "an account must be chosen")
	assert.Zero(t, h.server.Count(http.MethodPost, "/transactions/"))

	m = press(t, m, "right", "enter")
	assert.Nil(t, m.form)
	require.Len(t, m.transactions.Data().Transactions, 1)
	tx := m.transactions.Data().Transactions[0]
	assert.Equal(t, wallet.ID, tx.Account)
	assert.Equal(t, "12.50", tx.Amount)
	assert.Equal(t, "2026-10-18", tx.Date)
	assert.Nil(t, tx.Category)
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	wallet := h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	m := h.signedIn(t)
	m = press(t, m, "3", "d")

	assert.Equal(t, keymap.ModeConfirm, m.mode())
	assert.Contains(t, m.View(), `Delete account "Wallet"?`)

	m = press(t, m, "n")
	assert.Equal(t, keymap.ModeNormal, m.mode())
	assert.Len(t, m.accounts.Items(), 1)

	m = press(t, m, "d", "y")
	assert.Equal(t, keymap.ModeNormal, m.mode())
	assert.Empty(t, m.accounts.Items())
	assert.Equal(t, 1, h.server.Count(http.MethodDelete, "/accounts/"+itoa(wallet.ID)+"/"))
	assert.Equal(t, "Deleted", m.infoMessage)
}

// -----------------------------------------------------------------------------
// Transactions filter
// -----------------------------------------------------------------------------

func TestModel_TransactionFilters(t *testing.T) {
	h := newHarness(t)
	wallet := h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	food := h.server.AddCategory(h.user.ID, models.CategoryInput{Name: "Food"})
	h.server.AddTransaction(h.user.ID, models.TransactionInput{
		Account: wallet.ID, TransactionType: models.TransactionIncome, Amount: "100", Description: "Salary", Date: "2026-10-01",
	})
	h.server.AddTransaction(h.user.ID, models.TransactionInput{
		Account: wallet.ID, Category: &food.ID, TransactionType: models.TransactionExpense, Amount: "12", Description: "Lunch", Date: "2026-10-02",
	})
	m := h.signedIn(t)
	m = press(t, m, "2")
	require.Len(t, m.transactions.Data().Transactions, 2)

	m = press(t, m, "t")
	assert.Equal(t, models.TransactionIncome, m.transactions.Filter().TransactionType)
	require.Len(t, m.transactions.Data().Transactions, 1)
	assert.Equal(t, "Salary", m.transactions.Data().Transactions[0].Description)
	assert.Contains(t, m.View(), "Type: Income")

	m = press(t, m, "x", "c")
	assert.Equal(t, food.ID, m.transactions.Filter().Category)
	require.Len(t, m.transactions.Data().Transactions, 1)
	assert.Equal(t, "Lunch", m.transactions.Data().Transactions[0].Description)
	assert.Contains(t, m.View(), "Category: Food")

	var sawQuery bool
	for _, r := range h.server.Requests() {
		if r.Path == "/transactions/" && strings.Contains(r.Query, "category="+itoa(food.ID)) {
			sawQuery = true
		}
	}
	assert.True(t, sawQuery, "category filter is sent as a query parameter")

	m = press(t, m, "x")
	assert.True(t, m.transactions.Filter().IsZero())
	assert.Len(t, m.transactions.Data().Transactions, 2)
}

// -----------------------------------------------------------------------------
// Insights
// -----------------------------------------------------------------------------

func TestModel_InsightsFailureShowsMessage(t *testing.T) {
	h := newHarness(t)
	h.server.FailNext(http.MethodGet, "/insights/ai/", http.StatusServiceUnavailable, map[string]string{"error": "AI service unavailable"})
	m := h.signedIn(t)

	m = press(t, m, "5")
	assert.Equal(t, "AI service unavailable", m.insights.Err())
	assert.Equal(t, session.PageInsights, m.page(), "a failed insights load does not sign out")
	assert.Contains(t, m.View(), "AI service unavailable")

	h.server.SetInsights(models.InsightsReport{
		Insights: []models.Insight{{Title: "Dining out", Message: "You spent more on food this month."}},
	})
	m = press(t, m, "r")
	assert.Empty(t, m.insights.Err())
	assert.Contains(t, m.View(), "Dining out")
}
