package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/shopspring/decimal"

	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/session"
	"github.com/Iron-Ham/fintrack/internal/tui/styles"
	"github.com/Iron-Ham/fintrack/internal/util"
)

// column is one table column. Right-aligned columns hold amounts.
type column struct {
	title string
	width int
	right bool
}

func (c column) cell(s string) string {
	if c.right {
		return util.PadLeft(s, c.width)
	}
	return util.PadRight(s, c.width)
}

// renderTable draws a header and rows, highlighting the cursor row.
func renderTable(cols []column, rows [][]string, cursor int) string {
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.cell(c.title)
	}

	lines := []string{styles.ColumnHeader.Render(strings.Join(header, " "))}
	for r, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.cell(row[i])
		}
		line := strings.Join(cells, " ")
		if r == cursor {
			lines = append(lines, styles.RowSelected.Render(line))
		} else {
			lines = append(lines, styles.Row.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func card(label, value string) string {
	return styles.Card.Render(styles.CardLabel.Render(label) + "\n" + styles.CardValue.Render(value))
}

func signedStyle(d decimal.Decimal) lipgloss.Style {
	if d.IsNegative() {
		return styles.Expense
	}
	return styles.Income
}

func (m Model) summaryCards(s models.TransactionSummary) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Income", styles.Income.Render(models.FormatDecimal(m.currency, s.TotalIncome))),
		card("Expenses", styles.Expense.Render(models.FormatDecimal(m.currency, s.TotalExpenses))),
		card("Net", signedStyle(s.NetAmount).Render(models.FormatDecimal(m.currency, s.NetAmount))),
		card("Transactions", strconv.Itoa(s.TransactionCount)),
	)
}

// Dashboard

func (m Model) dashboardBody() string {
	v := m.dashboard
	if !v.Loaded() {
		if v.Loading() {
			return m.loadingLine("Loading dashboard")
		}
		return styles.Muted.Render("Nothing loaded yet. Press r to refresh.")
	}

	data := v.Data()
	return lipgloss.JoinVertical(lipgloss.Left,
		m.summaryCards(data.Summary),
		"",
		m.accountTree(data.Accounts),
	)
}

// accountTree groups accounts by type under a single root.
func (m Model) accountTree(accounts []models.Account) string {
	if len(accounts) == 0 {
		return styles.Muted.Render("No accounts yet. Add one on the Accounts page.")
	}

	root := tree.Root(styles.TreeRoot.Render("Accounts")).
		Enumerator(tree.RoundedEnumerator)
	for _, accountType := range models.AccountTypes() {
		var children []any
		for _, a := range accounts {
			if a.AccountType != accountType {
				continue
			}
			children = append(children,
				styles.TreeAccount.Render(a.Name)+"  "+models.FormatAmount(m.currency, a.Balance))
		}
		if len(children) == 0 {
			continue
		}
		branch := tree.Root(styles.TreeBranch.Render(util.Label(accountType))).Child(children...)
		root.Child(branch)
	}
	return root.String()
}

// Transactions

var transactionColumns = []column{
	{title: "Date", width: 10},
	{title: "Description", width: 28},
	{title: "Category", width: 16},
	{title: "Account", width: 16},
	{title: "Amount", width: 14, right: true},
}

func (m Model) transactionsBody() string {
	v := m.transactions
	data := v.Data()
	filter := styles.FilterBar.Render(m.filterLine(v.Filter(), data.Categories))

	if !v.Loaded() {
		if v.Loading() {
			return filter + "\n" + m.loadingLine("Loading transactions")
		}
		return filter + "\n" + styles.Muted.Render("Nothing loaded yet. Press r to refresh.")
	}

	var list string
	switch {
	case len(data.Transactions) > 0:
		rows := make([][]string, len(data.Transactions))
		for i, t := range data.Transactions {
			category := t.CategoryName
			if category == "" {
				category = "-"
			}
			amount := styles.TypeSign(t.TransactionType) + models.FormatAmount(m.currency, t.Amount)
			rows[i] = []string{t.Date, t.Description, category, t.AccountName, amount}
		}
		list = renderTable(transactionColumns, rows, m.cursor(session.PageTransactions))
	case v.Filter().IsZero():
		list = styles.Muted.Render("No transactions yet. Press n to add one.")
	default:
		list = styles.Muted.Render("No transactions match the filter. Press x to clear it.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, filter, m.summaryCards(data.Summary), "", list)
}

func (m Model) filterLine(f models.TransactionFilter, categories []models.Category) string {
	typeLabel := "All"
	if f.TransactionType != "" {
		typeLabel = util.Label(f.TransactionType)
	}
	categoryLabel := "All"
	if f.Category != 0 {
		categoryLabel = fmt.Sprintf("#%d", f.Category)
		for _, c := range categories {
			if c.ID == f.Category {
				categoryLabel = c.Name
			}
		}
	}
	return fmt.Sprintf("Type: %s  Category: %s", typeLabel, categoryLabel)
}

// Accounts

var accountColumns = []column{
	{title: "Name", width: 24},
	{title: "Type", width: 14},
	{title: "Balance", width: 14, right: true},
	{title: "Txns", width: 6, right: true},
	{title: "Description", width: 30},
}

func (m Model) accountsBody() string {
	v := m.accounts
	if !v.Loaded() {
		if v.Loading() {
			return m.loadingLine("Loading accounts")
		}
		return styles.Muted.Render("Nothing loaded yet. Press r to refresh.")
	}
	items := v.Items()
	if len(items) == 0 {
		return styles.Muted.Render("No accounts yet. Press n to add one.")
	}

	rows := make([][]string, len(items))
	for i, a := range items {
		rows[i] = []string{
			a.Name,
			util.Label(a.AccountType),
			models.FormatAmount(m.currency, a.Balance),
			strconv.Itoa(a.TransactionCount),
			a.Description,
		}
	}
	return renderTable(accountColumns, rows, m.cursor(session.PageAccounts))
}

// Categories

var categoryColumns = []column{
	{title: "", width: 1},
	{title: "Name", width: 22},
	{title: "Txns", width: 6, right: true},
	{title: "Spent", width: 14, right: true},
	{title: "Description", width: 30},
}

func (m Model) categoriesBody() string {
	v := m.categories
	if !v.Loaded() {
		if v.Loading() {
			return m.loadingLine("Loading categories")
		}
		return styles.Muted.Render("Nothing loaded yet. Press r to refresh.")
	}
	items := v.Items()
	if len(items) == 0 {
		return styles.Muted.Render("No categories yet. Press n to add one.")
	}

	rows := make([][]string, len(items))
	for i, c := range items {
		rows[i] = []string{
			styles.Swatch(c.Color),
			c.Name,
			strconv.Itoa(c.TransactionCount),
			models.FormatDecimal(m.currency, c.TotalSpent),
			c.Description,
		}
	}
	return renderTable(categoryColumns, rows, m.cursor(session.PageCategories))
}

// Insights

func (m Model) insightsBody() string {
	v := m.insights
	if v.Loading() {
		return m.loadingLine("Generating insights")
	}
	if msg := v.Err(); msg != "" {
		return styles.ErrorMsg.Render(msg) + "\n\n" + styles.Muted.Render("Press r to try again.")
	}
	if !v.Loaded() {
		return styles.Muted.Render("Press r to generate insights.")
	}

	report := v.Report()
	wrap := lipgloss.NewStyle().Width(max(m.contentWidth()-4, 20))

	var b strings.Builder
	if report.GeneratedAt != "" {
		b.WriteString(styles.Muted.Render("Generated " + report.GeneratedAt))
		b.WriteString("\n\n")
	}
	if len(report.Insights) == 0 {
		b.WriteString(styles.Muted.Render("No insights yet. Add some transactions first."))
		b.WriteString("\n\n")
	}
	for _, in := range report.Insights {
		b.WriteString(styles.Subtitle.Render(in.Title))
		b.WriteString("\n")
		b.WriteString(wrap.Render(in.Message))
		b.WriteString("\n\n")
	}

	spending := report.SpendingData
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.monthCard("This month", spending.CurrentMonth),
		m.monthCard("Last month", spending.PreviousMonth),
	))

	if len(spending.TopCategories) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.Subtitle.Render("Top categories"))
		for _, c := range spending.TopCategories {
			b.WriteString("\n  ")
			b.WriteString(util.PadRight(c.Category, 22))
			b.WriteString(util.PadLeft(models.FormatDecimal(m.currency, c.Amount), 14))
		}
	}
	return b.String()
}

func (m Model) monthCard(label string, t models.MonthTotals) string {
	lines := []string{
		styles.CardLabel.Render(label),
		"Income   " + styles.Income.Render(models.FormatDecimal(m.currency, t.Income)),
		"Expenses " + styles.Expense.Render(models.FormatDecimal(m.currency, t.Expenses)),
		"Balance  " + signedStyle(t.Balance).Render(models.FormatDecimal(m.currency, t.Balance)),
	}
	return styles.Card.Render(strings.Join(lines, "\n"))
}
