// Package internal contains integration tests that run the token store, API
// client, session controller and views together against the fake API.
package internal

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/fintrack/internal/api"
	"github.com/Iron-Ham/fintrack/internal/apitest"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
	"github.com/Iron-Ham/fintrack/internal/views"
)

// stack is one client process: a store over a shared data directory, the
// API services and a controller.
type stack struct {
	store    tokenstore.Store
	expenses *api.ExpensesAPI
	ctrl     *session.Controller
}

func newStack(t *testing.T, server *apitest.Server, store tokenstore.Store, refresh bool) *stack {
	t.Helper()
	client := api.NewClient(server.URL(), store, api.WithRefreshOnUnauthorized(refresh))
	return &stack{
		store:    store,
		expenses: api.NewExpensesAPI(client),
		ctrl:     session.New(session.Deps{Auth: api.NewAuthAPI(client), Store: store}),
	}
}

func fileStore(t *testing.T, fs afero.Fs, dir, origin string) tokenstore.Store {
	t.Helper()
	store, err := tokenstore.NewFileStore(fs, dir, origin)
	require.NoError(t, err)
	return store
}

func sqliteStore(t *testing.T, dir, origin string) tokenstore.Store {
	t.Helper()
	store, err := tokenstore.NewSQLiteStore(tokenstore.SQLitePath(dir), origin)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	server := apitest.New(t)
	server.AddUser(models.User{Username: "alice", Email: "a@b.com", FirstName: "Alice"}, "secret123")
	origin := "http://fake"

	backends := map[string]func(dir string) tokenstore.Store{
		"file":   func(dir string) tokenstore.Store { return fileStore(t, afero.NewOsFs(), dir, origin) },
		"sqlite": func(dir string) tokenstore.Store { return sqliteStore(t, dir, origin) },
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()

			first := newStack(t, server, open(dir), false)
			assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, first.ctrl.Boot(ctx))
			require.NoError(t, first.ctrl.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "secret123"}))

			second := newStack(t, server, open(dir), false)
			state, ok := second.ctrl.Boot(ctx).(session.Authenticated)
			require.True(t, ok, "stored tokens restore the session")
			assert.Equal(t, "alice", state.User.Username)

			second.ctrl.Logout(ctx)
			third := newStack(t, server, open(dir), false)
			assert.IsType(t, session.Unauthenticated{}, third.ctrl.Boot(ctx))
		})
	}
}

func TestExpiredAccessTokenWithRefresh(t *testing.T) {
	ctx := context.Background()
	server := apitest.New(t)
	user := server.AddUser(models.User{Username: "alice", Email: "a@b.com"}, "secret123")
	wallet := server.AddAccount(user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})

	st := newStack(t, server, fileStore(t, afero.NewMemMapFs(), "/data", "http://fake"), true)
	require.NoError(t, st.ctrl.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "secret123"}))
	before, _, err := st.store.Read(ctx)
	require.NoError(t, err)

	now := func() time.Time { return time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC) }
	txns := views.NewTransactions(st.expenses, nil, now)
	require.NoError(t, txns.Load(ctx))
	require.Len(t, txns.Data().Accounts, 1)

	server.ExpireAccessTokens()

	txns.OpenCreate()
	txns.Form().Values.Account = wallet.ID
	txns.Form().Values.Amount = "4.20"
	txns.Form().Values.Description = "Coffee"
	require.NoError(t, txns.Submit(ctx))

	require.Len(t, txns.Data().Transactions, 1)
	assert.Equal(t, "2026-10-18", txns.Data().Transactions[0].Date)
	assert.Equal(t, 1, server.Count("POST", "/auth/token/refresh/"))

	after, _, err := st.store.Read(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Access, after.Access, "refreshed access token is stored")
	assert.IsType(t, session.Authenticated{}, st.ctrl.State())
}

func TestRevokedSessionSignsOut(t *testing.T) {
	ctx := context.Background()
	server := apitest.New(t)
	server.AddUser(models.User{Username: "alice", Email: "a@b.com"}, "secret123")

	for _, refresh := range []bool{false, true} {
		st := newStack(t, server, tokenstore.NewMemoryStore("http://fake"), refresh)
		require.NoError(t, st.ctrl.Login(ctx, models.LoginRequest{Email: "a@b.com", Password: "secret123"}))

		server.ExpireAccessTokens()
		server.RevokeRefreshTokens()

		dash := views.NewDashboard(st.expenses, nil)
		err := dash.Load(ctx)
		require.Error(t, err)
		assert.True(t, st.ctrl.HandleUnauthorized(err), "refresh=%v", refresh)
		assert.Equal(t, session.Unauthenticated{Form: session.FormLogin}, st.ctrl.State())

		_, ok, err := st.store.Read(ctx)
		require.NoError(t, err)
		assert.False(t, ok, "tokens are cleared after a 401")
	}
}
