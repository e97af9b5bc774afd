package models

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/fintrack/internal/errors"
)

// DateLayout is the wire format of Transaction.Date.
const DateLayout = "2006-01-02"

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#007bff"

// Account types accepted by the API.
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountCreditCard = "credit_card"
	AccountCash       = "cash"
	AccountInvestment = "investment"
	AccountOther      = "other"
)

// Transaction types accepted by the API.
const (
	TransactionIncome   = "income"
	TransactionExpense  = "expense"
	TransactionTransfer = "transfer"
)

// AccountTypes returns the account types in display order.
func AccountTypes() []string {
	return []string{AccountChecking, AccountSavings, AccountCreditCard, AccountCash, AccountInvestment, AccountOther}
}

// TransactionTypes returns the transaction types in display order.
func TransactionTypes() []string {
	return []string{TransactionIncome, TransactionExpense, TransactionTransfer}
}

// Account is a financial account. Balance and TransactionCount are computed
// by the server.
type Account struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	AccountType        string `json:"account_type"`
	AccountTypeDisplay string `json:"account_type_display,omitempty"`
	Balance            string `json:"balance"`
	Description        string `json:"description"`
	IsActive           bool   `json:"is_active"`
	TransactionCount   int    `json:"transaction_count"`
	CreatedAt          string `json:"created_at,omitempty"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

// Category groups transactions.
type Category struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Color            string          `json:"color"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
	CreatedAt        string          `json:"created_at,omitempty"`
	UpdatedAt        string          `json:"updated_at,omitempty"`
}

// Transaction is a single money movement on an account.
type Transaction struct {
	ID                     int64  `json:"id"`
	Account                int64  `json:"account"`
	AccountName            string `json:"account_name,omitempty"`
	Category               *int64 `json:"category"`
	CategoryName           string `json:"category_name,omitempty"`
	CategoryColor          string `json:"category_color,omitempty"`
	TransactionType        string `json:"transaction_type"`
	TransactionTypeDisplay string `json:"transaction_type_display,omitempty"`
	Amount                 string `json:"amount"`
	Description            string `json:"description"`
	Notes                  string `json:"notes"`
	Date                   string `json:"date"`
	CreatedAt              string `json:"created_at,omitempty"`
	UpdatedAt              string `json:"updated_at,omitempty"`
}

// TransactionSummary is the server's aggregate over the user's transactions.
type TransactionSummary struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetAmount        decimal.Decimal `json:"net_amount"`
	TransactionCount int             `json:"transaction_count"`
	IncomeCount      int             `json:"income_count"`
	ExpenseCount     int             `json:"expense_count"`
}

// AccountBalance is the per-account aggregate.
type AccountBalance struct {
	AccountName      string          `json:"account_name"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	TransactionCount int             `json:"transaction_count"`
}

// AccountInput is the create/update payload for accounts.
type AccountInput struct {
	Name        string `json:"name"`
	AccountType string `json:"account_type"`
	Description string `json:"description"`
}

// NewAccountInput returns a blank account form.
func NewAccountInput() AccountInput {
	return AccountInput{AccountType: AccountChecking}
}

// AccountInputFrom populates a form from an existing account.
func AccountInputFrom(a Account) AccountInput {
	return AccountInput{Name: a.Name, AccountType: a.AccountType, Description: a.Description}
}

// Validate checks the required name and the account type.
func (in AccountInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || in.AccountType == "" {
		return errors.NewValidationError("Please fill in all required fields")
	}
	if !slices.Contains(AccountTypes(), in.AccountType) {
		return errors.NewValidationError("Invalid account type").WithField("account_type")
	}
	return nil
}

// CategoryInput is the create/update payload for categories.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// NewCategoryInput returns a blank category form.
func NewCategoryInput() CategoryInput {
	return CategoryInput{Color: DefaultCategoryColor}
}

// CategoryInputFrom populates a form from an existing category.
func CategoryInputFrom(c Category) CategoryInput {
	return CategoryInput{Name: c.Name, Description: c.Description, Color: c.Color}
}

// Validate checks the required name. An empty color is replaced with
// DefaultCategoryColor by Normalize.
func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.NewValidationError("Please fill in all required fields")
	}
	return nil
}

// Normalize fills defaults.
func (in CategoryInput) Normalize() CategoryInput {
	if in.Color == "" {
		in.Color = DefaultCategoryColor
	}
	return in
}

// TransactionInput is the create/update payload for transactions.
type TransactionInput struct {
	Account         int64  `json:"account"`
	Category        *int64 `json:"category,omitempty"`
	TransactionType string `json:"transaction_type"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	Notes           string `json:"notes"`
	Date            string `json:"date"`
}

// NewTransactionInput returns a blank transaction form dated today.
func NewTransactionInput(now time.Time) TransactionInput {
	return TransactionInput{
		TransactionType: TransactionExpense,
		Date:            now.Format(DateLayout),
	}
}

// TransactionInputFrom populates a form from an existing transaction.
func TransactionInputFrom(t Transaction) TransactionInput {
	return TransactionInput{
		Account:         t.Account,
		Category:        t.Category,
		TransactionType: t.TransactionType,
		Amount:          t.Amount,
		Description:     t.Description,
		Notes:           t.Notes,
		Date:            t.Date,
	}
}

// Validate checks the required fields, a positive amount, a known type and
// the date layout.
func (in TransactionInput) Validate() error {
	if in.Account == 0 || strings.TrimSpace(in.Amount) == "" || strings.TrimSpace(in.Description) == "" || in.Date == "" {
		return errors.NewValidationError("Please fill in all required fields")
	}
	if _, err := ParseAmount(in.Amount); err != nil {
		return err
	}
	if !slices.Contains(TransactionTypes(), in.TransactionType) {
		return errors.NewValidationError("Invalid transaction type").WithField("transaction_type")
	}
	if _, err := time.Parse(DateLayout, in.Date); err != nil {
		return errors.NewValidationError("Date must be in YYYY-MM-DD format").WithField("date")
	}
	return nil
}

// ParseAmount parses a user-entered amount and requires it to be positive.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.NewValidationError("Amount must be a number").WithField("amount")
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.NewValidationError("Amount must be greater than zero").WithField("amount")
	}
	return d, nil
}

// FormatAmount renders a server decimal string with two places and the
// currency symbol. Unparseable input is returned unchanged after the symbol.
func FormatAmount(symbol, amount string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return symbol + amount
	}
	return FormatDecimal(symbol, d)
}

// FormatDecimal renders d with two places and the currency symbol. Negative
// values put the sign before the symbol.
func FormatDecimal(symbol string, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + symbol + d.Neg().StringFixed(2)
	}
	return symbol + d.StringFixed(2)
}

// TransactionFilter narrows the transaction list. Zero values mean no filter.
type TransactionFilter struct {
	Category        int64
	TransactionType string
}

// IsZero reports whether no filter is set.
func (f TransactionFilter) IsZero() bool {
	return f.Category == 0 && f.TransactionType == ""
}

// Query encodes the filter as the list endpoint's query parameters.
func (f TransactionFilter) Query() url.Values {
	q := url.Values{}
	if f.Category != 0 {
		q.Set("category", strconv.FormatInt(f.Category, 10))
	}
	if f.TransactionType != "" {
		q.Set("transaction_type", f.TransactionType)
	}
	return q
}
