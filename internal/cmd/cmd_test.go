package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iron-Ham/fintrack/internal/apitest"
	"github.com/Iron-Ham/fintrack/internal/models"
)

type cliHarness struct {
	server *apitest.Server
	user   models.User
}

// newCLIHarness points the CLI at a fake API with isolated config and data
// directories. Tokens persist across commands within one test.
func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	server := apitest.New(t)
	user := server.AddUser(models.User{Username: "alice", Email: "a@b.com", FirstName: "Alice", LastName: "Doe"}, "secret123")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FINTRACK_API_BASE_URL", server.URL())
	t.Setenv("FINTRACK_STORAGE_DATA_DIR", t.TempDir())
	t.Setenv("FINTRACK_AUTH_TOKEN_STORE", "file")
	t.Setenv("FINTRACK_TUI_CURRENCY_SYMBOL", "$")

	return &cliHarness{server: server, user: user}
}

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetGlobals()

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetGlobals() {
	viper.Reset()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))

	loginEmail, loginPassword = "", ""
	registerUsername, registerEmail, registerPassword = "", "", ""
	registerFirstName, registerLastName, registerPhone = "", "", ""
	txCategory, txType = 0, ""
	logsTail, logsLevel, logsSince, logsComponent, logsGrep = 50, "", "", "", ""
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newCLIHarness(t)

	out, err := run(t, "", "login", "--email", "a@b.com", "--password", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as Alice Doe (a@b.com)")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "API:      "+h.server.URL())

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.Equal(t, 1, h.server.Count("POST", "/auth/logout/"))

	_, err = run(t, "", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")

	out, err = run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")
}

func TestLoginPromptsForMissingValues(t *testing.T) {
	newCLIHarness(t)

	out, err := run(t, "a@b.com\nsecret123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Email: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Logged in as Alice Doe")
}

func TestLoginFailure(t *testing.T) {
	newCLIHarness(t)

	_, err := run(t, "", "login", "--email", "a@b.com", "--password", "wrong-password")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid credentials")

	_, err = run(t, "", "whoami")
	require.Error(t, err)
}

func TestRegister(t *testing.T) {
	newCLIHarness(t)

	out, err := run(t, "hunter22\nhunter22\n", "register",
		"--username", "bob", "--email", "bob@example.com",
		"--first-name", "Bob", "--last-name", "Ray")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered and logged in as bob")

	out, err = run(t, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:     Bob Ray")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	h := newCLIHarness(t)

	_, err := run(t, "hunter22\nhunter23\n", "register",
		"--username", "bob", "--email", "bob@example.com",
		"--first-name", "Bob", "--last-name", "Ray")
	require.Error(t, err)
	assert.Equal(t, 0, h.server.Count("POST", "/auth/register/"))
}

func TestListCommands(t *testing.T) {
	h := newCLIHarness(t)
	wallet := h.server.AddAccount(h.user.ID, models.AccountInput{Name: "Wallet", AccountType: models.AccountCash})
	food := h.server.AddCategory(h.user.ID, models.CategoryInput{Name: "Food", Color: "#ff0000"})
	h.server.AddTransaction(h.user.ID, models.TransactionInput{
		Account: wallet.ID, Category: &food.ID, TransactionType: models.TransactionExpense,
		Amount: "12.50", Description: "Lunch", Date: "2026-10-17",
	})
	h.server.AddTransaction(h.user.ID, models.TransactionInput{
		Account: wallet.ID, TransactionType: models.TransactionIncome,
		Amount: "100.00", Description: "Refund", Date: "2026-10-16",
	})

	_, err := run(t, "", "login", "--email", "a@b.com", "--password", "secret123")
	require.NoError(t, err)

	t.Run("accounts", func(t *testing.T) {
		out, err := run(t, "", "accounts")
		require.NoError(t, err)
		assert.Contains(t, out, "Wallet")
		assert.Contains(t, out, "Cash")
	})

	t.Run("categories", func(t *testing.T) {
		out, err := run(t, "", "categories")
		require.NoError(t, err)
		assert.Contains(t, out, "Food")
		assert.Contains(t, out, "#ff0000")
	})

	t.Run("transactions", func(t *testing.T) {
		out, err := run(t, "", "transactions")
		require.NoError(t, err)
		lunch := strings.Index(out, "Lunch")
		refund := strings.Index(out, "Refund")
		require.NotEqual(t, -1, lunch)
		require.NotEqual(t, -1, refund)
		assert.Less(t, lunch, refund, "newest first")
		assert.Contains(t, out, "$12.50")
	})

	t.Run("transactions filtered by type", func(t *testing.T) {
		out, err := run(t, "", "transactions", "--type", "income")
		require.NoError(t, err)
		assert.Contains(t, out, "Refund")
		assert.NotContains(t, out, "Lunch")
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := run(t, "", "transactions", "--type", "gift")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid --type")
	})

	t.Run("summary", func(t *testing.T) {
		out, err := run(t, "", "summary")
		require.NoError(t, err)
		assert.Contains(t, out, "$100.00")
		assert.Contains(t, out, "$12.50")
		assert.Contains(t, out, "$87.50")
	})

	t.Run("insights unavailable", func(t *testing.T) {
		_, err := run(t, "", "insights")
		require.Error(t, err)
	})

	t.Run("insights", func(t *testing.T) {
		h.server.SetInsights(models.InsightsReport{
			Insights: []models.Insight{{Title: "Eating out", Message: "Lunch is your top expense."}},
		})
		out, err := run(t, "", "insights")
		require.NoError(t, err)
		assert.Contains(t, out, "* Eating out")
		assert.Contains(t, out, "This month")
	})
}

func TestListRequiresLogin(t *testing.T) {
	h := newCLIHarness(t)

	for _, name := range []string{"accounts", "categories", "transactions", "summary", "insights"} {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, "", name)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "run 'fintrack login' first")
		})
	}
	assert.Equal(t, 0, h.server.Count("GET", "/accounts/"))
}

func TestLogsAfterLogin(t *testing.T) {
	newCLIHarness(t)

	out, err := run(t, "", "logs")
	require.NoError(t, err)
	assert.Contains(t, out, "No logs found.")

	_, err = run(t, "", "login", "--email", "a@b.com", "--password", "secret123")
	require.NoError(t, err)

	out, err = run(t, "", "logs", "--component", "session", "--grep", "signed in")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in")

	_, err = run(t, "", "logs", "--level", "loud")
	require.Error(t, err)
}
