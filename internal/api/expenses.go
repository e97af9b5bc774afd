package api

import (
	"context"
	"fmt"

	"github.com/Iron-Ham/fintrack/internal/models"
)

// ExpensesAPI wraps the category, account, transaction and insights endpoints.
type ExpensesAPI struct {
	client *Client
}

// NewExpensesAPI creates an ExpensesAPI over client.
func NewExpensesAPI(client *Client) *ExpensesAPI {
	return &ExpensesAPI{client: client}
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

// Categories lists all categories.
func (e *ExpensesAPI) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := e.client.Get(ctx, "/categories/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category.
func (e *ExpensesAPI) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := e.client.Post(ctx, "/categories/", in.Normalize(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory replaces category id.
func (e *ExpensesAPI) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	var out models.Category
	if err := e.client.Put(ctx, fmt.Sprintf("/categories/%d/", id), in.Normalize(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory deletes category id.
func (e *ExpensesAPI) DeleteCategory(ctx context.Context, id int64) error {
	return e.client.Delete(ctx, fmt.Sprintf("/categories/%d/", id))
}

// CategoryTransactions lists the transactions of category id.
func (e *ExpensesAPI) CategoryTransactions(ctx context.Context, id int64) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := e.client.Get(ctx, fmt.Sprintf("/categories/%d/transactions/", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

// Accounts lists all accounts.
func (e *ExpensesAPI) Accounts(ctx context.Context) ([]models.Account, error) {
	var out []models.Account
	if err := e.client.Get(ctx, "/accounts/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAccount creates an account.
func (e *ExpensesAPI) CreateAccount(ctx context.Context, in models.AccountInput) (*models.Account, error) {
	var out models.Account
	if err := e.client.Post(ctx, "/accounts/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAccount replaces account id.
func (e *ExpensesAPI) UpdateAccount(ctx context.Context, id int64, in models.AccountInput) (*models.Account, error) {
	var out models.Account
	if err := e.client.Put(ctx, fmt.Sprintf("/accounts/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount deletes account id.
func (e *ExpensesAPI) DeleteAccount(ctx context.Context, id int64) error {
	return e.client.Delete(ctx, fmt.Sprintf("/accounts/%d/", id))
}

// AccountTransactions lists the transactions of account id.
func (e *ExpensesAPI) AccountTransactions(ctx context.Context, id int64) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := e.client.Get(ctx, fmt.Sprintf("/accounts/%d/transactions/", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AccountBalance returns the server-computed balance of account id.
func (e *ExpensesAPI) AccountBalance(ctx context.Context, id int64) (*models.AccountBalance, error) {
	var out models.AccountBalance
	if err := e.client.Get(ctx, fmt.Sprintf("/accounts/%d/balance/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -----------------------------------------------------------------------------
// Transactions
// -----------------------------------------------------------------------------

// Transactions lists transactions narrowed by filter.
func (e *ExpensesAPI) Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	if err := e.client.Get(ctx, "/transactions/", filter.Query(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTransaction creates a transaction.
func (e *ExpensesAPI) CreateTransaction(ctx context.Context, in models.TransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := e.client.Post(ctx, "/transactions/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTransaction replaces transaction id.
func (e *ExpensesAPI) UpdateTransaction(ctx context.Context, id int64, in models.TransactionInput) (*models.Transaction, error) {
	var out models.Transaction
	if err := e.client.Put(ctx, fmt.Sprintf("/transactions/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTransaction deletes transaction id.
func (e *ExpensesAPI) DeleteTransaction(ctx context.Context, id int64) error {
	return e.client.Delete(ctx, fmt.Sprintf("/transactions/%d/", id))
}

// TransactionSummary returns the server-computed totals.
func (e *ExpensesAPI) TransactionSummary(ctx context.Context) (*models.TransactionSummary, error) {
	var out models.TransactionSummary
	if err := e.client.Get(ctx, "/transactions/summary/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// -----------------------------------------------------------------------------
// Insights
// -----------------------------------------------------------------------------

// Insights fetches the AI-generated spending report.
func (e *ExpensesAPI) Insights(ctx context.Context) (*models.InsightsReport, error) {
	var out models.InsightsReport
	if err := e.client.Get(ctx, "/insights/ai/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
