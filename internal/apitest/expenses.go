package apitest

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/fintrack/internal/models"
)

var accountTypeLabels = map[string]string{
	models.AccountChecking:   "Checking",
	models.AccountSavings:    "Savings",
	models.AccountCreditCard: "Credit Card",
	models.AccountCash:       "Cash",
	models.AccountInvestment: "Investment",
	models.AccountOther:      "Other",
}

var transactionTypeLabels = map[string]string{
	models.TransactionIncome:   "Income",
	models.TransactionExpense:  "Expense",
	models.TransactionTransfer: "Transfer",
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		notFound(c)
		return 0, false
	}
	return id, true
}

// -----------------------------------------------------------------------------
// Seeding
// -----------------------------------------------------------------------------

// AddAccount stores an account for owner and returns it as the API renders it.
func (s *Server) AddAccount(owner int64, in models.AccountInput) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.insertAccount(owner, in)
	return s.renderAccount(a)
}

// AddCategory stores a category for owner.
func (s *Server) AddCategory(owner int64, in models.CategoryInput) models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.insertCategory(owner, in)
	return s.renderCategory(cat)
}

// AddTransaction stores a transaction for owner. The input is not validated.
func (s *Server) AddTransaction(owner int64, in models.TransactionInput) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.insertTransaction(owner, in)
	return s.renderTransaction(tx)
}

func (s *Server) insertAccount(owner int64, in models.AccountInput) *account {
	stamp := s.stamp()
	a := &account{owner: owner, Account: models.Account{
		ID:          s.id(),
		Name:        in.Name,
		AccountType: in.AccountType,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}}
	s.accounts = append(s.accounts, a)
	return a
}

func (s *Server) insertCategory(owner int64, in models.CategoryInput) *category {
	in = in.Normalize()
	stamp := s.stamp()
	cat := &category{owner: owner, Category: models.Category{
		ID:          s.id(),
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}}
	s.categories = append(s.categories, cat)
	return cat
}

func (s *Server) insertTransaction(owner int64, in models.TransactionInput) *transaction {
	stamp := s.stamp()
	tx := &transaction{owner: owner, Transaction: models.Transaction{
		ID:        s.id(),
		CreatedAt: stamp,
	}}
	applyTransactionInput(&tx.Transaction, in, stamp)
	s.transactions = append(s.transactions, tx)
	return tx
}

func applyTransactionInput(tx *models.Transaction, in models.TransactionInput, stamp string) {
	tx.Account = in.Account
	tx.Category = in.Category
	tx.TransactionType = in.TransactionType
	if d, err := decimal.NewFromString(in.Amount); err == nil {
		tx.Amount = d.StringFixed(2)
	} else {
		tx.Amount = in.Amount
	}
	tx.Description = in.Description
	tx.Notes = in.Notes
	tx.Date = in.Date
	tx.UpdatedAt = stamp
}

// -----------------------------------------------------------------------------
// Rendering (server-computed fields)
// -----------------------------------------------------------------------------

func (s *Server) renderAccount(a *account) models.Account {
	out := a.Account
	out.AccountTypeDisplay = accountTypeLabels[a.AccountType]

	income, expenses := decimal.Zero, decimal.Zero
	count := 0
	for _, tx := range s.transactions {
		if tx.Account != a.ID {
			continue
		}
		count++
		amount, _ := decimal.NewFromString(tx.Amount)
		switch tx.TransactionType {
		case models.TransactionIncome:
			income = income.Add(amount)
		case models.TransactionExpense:
			expenses = expenses.Add(amount)
		}
	}
	out.Balance = income.Sub(expenses).StringFixed(2)
	out.TransactionCount = count
	return out
}

func (s *Server) renderCategory(cat *category) models.Category {
	out := cat.Category
	spent := decimal.Zero
	count := 0
	for _, tx := range s.transactions {
		if tx.Category == nil || *tx.Category != cat.ID {
			continue
		}
		count++
		if tx.TransactionType == models.TransactionExpense {
			amount, _ := decimal.NewFromString(tx.Amount)
			spent = spent.Add(amount)
		}
	}
	out.TransactionCount = count
	out.TotalSpent = spent
	return out
}

func (s *Server) renderTransaction(tx *transaction) models.Transaction {
	out := tx.Transaction
	out.TransactionTypeDisplay = transactionTypeLabels[tx.TransactionType]
	if a := s.findAccount(tx.owner, tx.Account); a != nil {
		out.AccountName = a.Name
	}
	if tx.Category != nil {
		if cat := s.findCategory(tx.owner, *tx.Category); cat != nil {
			out.CategoryName = cat.Name
			out.CategoryColor = cat.Color
		}
	}
	return out
}

func (s *Server) findAccount(owner, id int64) *account {
	for _, a := range s.accounts {
		if a.owner == owner && a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Server) findCategory(owner, id int64) *category {
	for _, cat := range s.categories {
		if cat.owner == owner && cat.ID == id {
			return cat
		}
	}
	return nil
}

func (s *Server) findTransaction(owner, id int64) *transaction {
	for _, tx := range s.transactions {
		if tx.owner == owner && tx.ID == id {
			return tx
		}
	}
	return nil
}

func (s *Server) transactionsWhere(owner int64, keep func(*transaction) bool) []models.Transaction {
	out := []models.Transaction{}
	for i := len(s.transactions) - 1; i >= 0; i-- {
		tx := s.transactions[i]
		if tx.owner == owner && keep(tx) {
			out = append(out, s.renderTransaction(tx))
		}
	}
	// Newest date first, then newest id.
	slices.SortStableFunc(out, func(a, b models.Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

func (s *Server) validateAccount(owner, selfID int64, in models.AccountInput) map[string][]string {
	errs := map[string][]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = []string{"This field may not be blank."}
	}
	if _, ok := accountTypeLabels[in.AccountType]; !ok {
		errs["account_type"] = []string{`"` + in.AccountType + `" is not a valid choice.`}
	}
	for _, a := range s.accounts {
		if a.owner == owner && a.ID != selfID && strings.EqualFold(a.Name, in.Name) {
			errs["name"] = append(errs["name"], "You already have an account with this name.")
		}
	}
	return errs
}

func (s *Server) validateCategory(owner, selfID int64, in models.CategoryInput) map[string][]string {
	errs := map[string][]string{}
	if strings.TrimSpace(in.Name) == "" {
		errs["name"] = []string{"This field may not be blank."}
	}
	for _, cat := range s.categories {
		if cat.owner == owner && cat.ID != selfID && strings.EqualFold(cat.Name, in.Name) {
			errs["name"] = append(errs["name"], "You already have a category with this name.")
		}
	}
	return errs
}

func (s *Server) validateTransaction(owner int64, in models.TransactionInput) map[string][]string {
	errs := map[string][]string{}
	if s.findAccount(owner, in.Account) == nil {
		errs["account"] = []string{"You can only create transactions for your own accounts."}
	}
	if in.Category != nil && s.findCategory(owner, *in.Category) == nil {
		errs["category"] = []string{"You can only use your own categories."}
	}
	if _, ok := transactionTypeLabels[in.TransactionType]; !ok {
		errs["transaction_type"] = []string{`"` + in.TransactionType + `" is not a valid choice.`}
	}
	if amount, err := decimal.NewFromString(in.Amount); err != nil {
		errs["amount"] = []string{"A valid number is required."}
	} else if !amount.IsPositive() {
		errs["amount"] = []string{"Amount must be greater than zero."}
	}
	if strings.TrimSpace(in.Description) == "" {
		errs["description"] = []string{"This field may not be blank."}
	}
	if _, err := time.Parse(models.DateLayout, in.Date); err != nil {
		errs["date"] = []string{"Date has wrong format. Use one of these formats instead: YYYY-MM-DD."}
	}
	return errs
}

// -----------------------------------------------------------------------------
// Categories
// -----------------------------------------------------------------------------

func (s *Server) listCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Category{}
	for _, cat := range s.categories {
		if cat.owner == currentUser(c) {
			out = append(out, s.renderCategory(cat))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createCategory(c *gin.Context) {
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if errs := s.validateCategory(currentUser(c), 0, in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	cat := s.insertCategory(currentUser(c), in)
	c.JSON(http.StatusCreated, s.renderCategory(cat))
}

func (s *Server) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.findCategory(currentUser(c), id)
	if cat == nil {
		notFound(c)
		return
	}
	if errs := s.validateCategory(currentUser(c), id, in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	in = in.Normalize()
	cat.Name, cat.Description, cat.Color = in.Name, in.Description, in.Color
	cat.UpdatedAt = s.stamp()
	c.JSON(http.StatusOK, s.renderCategory(cat))
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findCategory(currentUser(c), id) == nil {
		notFound(c)
		return
	}
	s.categories = slices.DeleteFunc(s.categories, func(cat *category) bool { return cat.ID == id })
	// Transactions keep existing with no category.
	for _, tx := range s.transactions {
		if tx.Category != nil && *tx.Category == id {
			tx.Category = nil
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) categoryTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findCategory(currentUser(c), id) == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.transactionsWhere(currentUser(c), func(tx *transaction) bool {
		return tx.Category != nil && *tx.Category == id
	}))
}

// -----------------------------------------------------------------------------
// Accounts
// -----------------------------------------------------------------------------

func (s *Server) listAccounts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Account{}
	for _, a := range s.accounts {
		if a.owner == currentUser(c) {
			out = append(out, s.renderAccount(a))
		}
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createAccount(c *gin.Context) {
	var in models.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if errs := s.validateAccount(currentUser(c), 0, in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	a := s.insertAccount(currentUser(c), in)
	c.JSON(http.StatusCreated, s.renderAccount(a))
}

func (s *Server) updateAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.AccountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findAccount(currentUser(c), id)
	if a == nil {
		notFound(c)
		return
	}
	if errs := s.validateAccount(currentUser(c), id, in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	a.Name, a.AccountType, a.Description = in.Name, in.AccountType, in.Description
	a.UpdatedAt = s.stamp()
	c.JSON(http.StatusOK, s.renderAccount(a))
}

func (s *Server) deleteAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findAccount(currentUser(c), id) == nil {
		notFound(c)
		return
	}
	s.accounts = slices.DeleteFunc(s.accounts, func(a *account) bool { return a.ID == id })
	// Deleting an account cascades to its transactions.
	s.transactions = slices.DeleteFunc(s.transactions, func(tx *transaction) bool { return tx.Account == id })
	c.Status(http.StatusNoContent)
}

func (s *Server) accountTransactions(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findAccount(currentUser(c), id) == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, s.transactionsWhere(currentUser(c), func(tx *transaction) bool {
		return tx.Account == id
	}))
}

func (s *Server) accountBalance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findAccount(currentUser(c), id)
	if a == nil {
		notFound(c)
		return
	}

	out := models.AccountBalance{AccountName: a.Name}
	for _, tx := range s.transactions {
		if tx.Account != id {
			continue
		}
		out.TransactionCount++
		amount, _ := decimal.NewFromString(tx.Amount)
		switch tx.TransactionType {
		case models.TransactionIncome:
			out.TotalIncome = out.TotalIncome.Add(amount)
		case models.TransactionExpense:
			out.TotalExpenses = out.TotalExpenses.Add(amount)
		}
	}
	out.CurrentBalance = out.TotalIncome.Sub(out.TotalExpenses)
	c.JSON(http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// Transactions
// -----------------------------------------------------------------------------

func (s *Server) listTransactions(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"category": []string{"Enter a number."}})
			return
		}
		categoryID = id
	}
	txType := c.Query("transaction_type")

	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.transactionsWhere(currentUser(c), func(tx *transaction) bool {
		if categoryID != 0 && (tx.Category == nil || *tx.Category != categoryID) {
			return false
		}
		return txType == "" || tx.TransactionType == txType
	}))
}

func (s *Server) createTransaction(c *gin.Context) {
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if errs := s.validateTransaction(currentUser(c), in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	tx := s.insertTransaction(currentUser(c), in)
	c.JSON(http.StatusCreated, s.renderTransaction(tx))
}

func (s *Server) updateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.TransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.findTransaction(currentUser(c), id)
	if tx == nil {
		notFound(c)
		return
	}
	if errs := s.validateTransaction(currentUser(c), in); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, errs)
		return
	}
	applyTransactionInput(&tx.Transaction, in, s.stamp())
	c.JSON(http.StatusOK, s.renderTransaction(tx))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findTransaction(currentUser(c), id) == nil {
		notFound(c)
		return
	}
	s.transactions = slices.DeleteFunc(s.transactions, func(tx *transaction) bool { return tx.ID == id })
	c.Status(http.StatusNoContent)
}

func (s *Server) summary(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out models.TransactionSummary
	for _, tx := range s.transactions {
		if tx.owner != currentUser(c) {
			continue
		}
		out.TransactionCount++
		amount, _ := decimal.NewFromString(tx.Amount)
		switch tx.TransactionType {
		case models.TransactionIncome:
			out.IncomeCount++
			out.TotalIncome = out.TotalIncome.Add(amount)
		case models.TransactionExpense:
			out.ExpenseCount++
			out.TotalExpenses = out.TotalExpenses.Add(amount)
		}
	}
	out.NetAmount = out.TotalIncome.Sub(out.TotalExpenses)
	c.JSON(http.StatusOK, out)
}

// -----------------------------------------------------------------------------
// Insights
// -----------------------------------------------------------------------------

func (s *Server) getInsights(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.insights == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI insights are not configured"})
		return
	}
	report := *s.insights
	if report.GeneratedAt == "" {
		report.GeneratedAt = s.stamp()
	}
	c.JSON(http.StatusOK, report)
}
