package api

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/fintrack/internal/apitest"
	"github.com/Iron-Ham/fintrack/internal/errors"
	"github.com/Iron-Ham/fintrack/internal/logging"
	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/tokenstore"
)

type fixture struct {
	server   *apitest.Server
	store    *tokenstore.MemoryStore
	client   *Client
	auth     *AuthAPI
	expenses *ExpensesAPI
	user     models.User
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	server := apitest.New(t)
	store := tokenstore.NewMemoryStore("test")
	client := NewClient(server.URL(), store, opts...)
	user := server.AddUser(models.User{Username: "alice", Email: "a@b.com", FirstName: "Alice"}, "secret123")
	return &fixture{
		server:   server,
		store:    store,
		client:   client,
		auth:     NewAuthAPI(client),
		expenses: NewExpensesAPI(client),
		user:     user,
	}
}

// signIn stores a valid token pair for the fixture user.
func (f *fixture) signIn(t *testing.T) models.Tokens {
	t.Helper()
	tokens := f.server.IssueTokens(f.user.ID)
	require.NoError(t, f.store.Save(context.Background(), tokens))
	return tokens
}

func TestClient_AttachesBearerToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tokens := f.signIn(t)

	_, err := f.expenses.Accounts(ctx)
	require.NoError(t, err)

	reqs := f.server.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+tokens.Access, reqs[0].Authorization)
}

func TestClient_SendsUnauthenticatedWithoutToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.expenses.Accounts(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))

	reqs := f.server.Requests()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
}

func TestClient_LoginNeverSendsBearer(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	resp, err := f.auth.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.Access)
	assert.NotEmpty(t, resp.Tokens.Refresh)

	assert.Empty(t, f.server.Requests()[0].Authorization)
}

func TestClient_UnauthorizedClearsStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t)
	f.server.ExpireAccessTokens()

	_, err := f.auth.Profile(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsUnauthorized(err))

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.Unauthorized())

	_, ok, err := f.store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "a 401 must clear the token store")

	assert.Equal(t, 0, f.server.Count(http.MethodPost, "/auth/token/refresh/"), "refresh is off by default")
}

func TestClient_FieldErrorsAreReduced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t)

	_, err := f.expenses.CreateAccount(ctx, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	require.NoError(t, err)

	_, err = f.expenses.CreateAccount(ctx, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	require.Error(t, err)
	assert.Equal(t, "name: You already have an account with this name.", errors.Reduce(err))
	assert.False(t, errors.IsUnauthorized(err))

	_, ok, _ := f.store.Read(ctx)
	assert.True(t, ok, "non-401 failures leave the session alone")
}

func TestClient_ErrorBodies(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"detail", http.StatusForbidden, map[string]string{"detail": "You do not have permission."}, "You do not have permission."},
		{"message", http.StatusBadRequest, map[string]string{"message": "Bad input"}, "Bad input"},
		{"error key", http.StatusInternalServerError, map[string]string{"error": "boom"}, "boom"},
		{"no body", http.StatusBadGateway, nil, "request failed with status code 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.signIn(t)
			f.server.FailNext(http.MethodGet, "/categories/", tt.status, tt.body)

			_, err := f.expenses.Categories(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, errors.Reduce(err))
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.server.Close()

	_, err := f.expenses.Accounts(context.Background())
	require.Error(t, err)

	var transport *errors.TransportError
	require.ErrorAs(t, err, &transport)
	assert.Equal(t, http.MethodGet, transport.Method)
	assert.Equal(t, "/accounts/", transport.Path)
	assert.NotEmpty(t, errors.Reduce(err))
}

func TestClient_CanceledContext(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.expenses.Accounts(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_RefreshOnUnauthorized(t *testing.T) {
	t.Run("exchanges once and replays", func(t *testing.T) {
		f := newFixture(t, WithRefreshOnUnauthorized(true))
		ctx := context.Background()
		old := f.signIn(t)
		f.server.ExpireAccessTokens()

		user, err := f.auth.Profile(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		assert.Equal(t, 1, f.server.Count(http.MethodPost, "/auth/token/refresh/"))
		assert.Equal(t, 2, f.server.Count(http.MethodGet, "/auth/profile/"))

		tokens, ok, err := f.store.Read(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.NotEqual(t, old.Access, tokens.Access)
		assert.NotEqual(t, old.Refresh, tokens.Refresh, "rotated refresh token is saved")
	})

	t.Run("failed exchange logs out", func(t *testing.T) {
		f := newFixture(t, WithRefreshOnUnauthorized(true))
		ctx := context.Background()
		f.signIn(t)
		f.server.ExpireAccessTokens()
		f.server.RevokeRefreshTokens()

		_, err := f.auth.Profile(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsUnauthorized(err))

		_, ok, _ := f.store.Read(ctx)
		assert.False(t, ok)
		assert.Equal(t, 1, f.server.Count(http.MethodGet, "/auth/profile/"), "no replay after a failed exchange")
	})

	t.Run("login 4xx does not refresh", func(t *testing.T) {
		f := newFixture(t, WithRefreshOnUnauthorized(true))
		_, err := f.auth.Login(context.Background(), models.LoginRequest{Email: "a@b.com", Password: "wrong"})
		require.Error(t, err)
		assert.Equal(t, "non_field_errors: Invalid credentials", errors.Reduce(err))
		assert.Equal(t, 0, f.server.Count(http.MethodPost, "/auth/token/refresh/"))
	})
}

func TestClient_LogsRequests(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(dir, logging.LevelDebug, logging.DefaultRotationConfig())
	require.NoError(t, err)

	f := newFixture(t, WithLogger(logger))
	f.signIn(t)
	_, err = f.expenses.TransactionSummary(context.Background())
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	entries, err := logging.ReadLogs(filepath.Join(dir, logging.FileName))
	require.NoError(t, err)
	entries = logging.FilterLogs(entries, logging.LogFilter{Component: "api"})
	require.Len(t, entries, 1)
	assert.Equal(t, "/transactions/summary/", entries[0].Attrs["path"])
	assert.EqualValues(t, 200, entries[0].Attrs["status"])
	assert.NotEmpty(t, entries[0].Attrs["request_id"])
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	c := NewClient("http://localhost:8000/api/", tokenstore.NewMemoryStore("x"))
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL())
	assert.Zero(t, c.httpClient.Timeout, "no client-enforced timeout")
}
