package views

import (
	"context"

	"github.com/Iron-Ham/fintrack/internal/models"
)

// Service is the finance API as used by the views.
type Service interface {
	Categories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	Accounts(ctx context.Context) ([]models.Account, error)
	CreateAccount(ctx context.Context, in models.AccountInput) (*models.Account, error)
	UpdateAccount(ctx context.Context, id int64, in models.AccountInput) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	Transactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id int64, in models.TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	TransactionSummary(ctx context.Context) (*models.TransactionSummary, error)

	Insights(ctx context.Context) (*models.InsightsReport, error)
}
