package cmd

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Iron-Ham/fintrack/internal/models"
	"github.com/Iron-Ham/fintrack/internal/util"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts with their balances",
	Args:  cobra.NoArgs,
	RunE:  runAccounts,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runTransactions,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show income, expenses and net totals",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show generated spending insights",
	Args:  cobra.NoArgs,
	RunE:  runInsights,
}

var (
	txCategory int64
	txType     string
)

func init() {
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(transactionsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(insightsCmd)

	transactionsCmd.Flags().Int64Var(&txCategory, "category", 0, "Only transactions in this category ID")
	transactionsCmd.Flags().StringVar(&txType, "type", "", "Only this transaction type (income/expense/transfer)")
}

// table writes fixed-width rows. Columns with right set are right-aligned.
type table struct {
	out    io.Writer
	widths []int
	right  []bool
}

func (t table) row(cells ...string) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if i < len(t.right) && t.right[i] {
			parts[i] = util.PadLeft(c, t.widths[i])
		} else {
			parts[i] = util.PadRight(c, t.widths[i])
		}
	}
	fmt.Fprintln(t.out, strings.TrimRight(strings.Join(parts, "  "), " "))
}

func runAccounts(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		if _, err := e.requireUser(cmd.Context()); err != nil {
			return err
		}
		accounts, err := e.expenses.Accounts(cmd.Context())
		if err != nil {
			return userMessage(err)
		}
		out := cmd.OutOrStdout()
		if len(accounts) == 0 {
			fmt.Fprintln(out, "No accounts yet.")
			return nil
		}

		t := table{out: out, widths: []int{6, 24, 12, 14, 6}, right: []bool{true, false, false, true, true}}
		t.row("ID", "NAME", "TYPE", "BALANCE", "TXNS")
		for _, a := range accounts {
			t.row(
				strconv.FormatInt(a.ID, 10),
				a.Name,
				util.Label(a.AccountType),
				models.FormatAmount(e.cfg.TUI.CurrencySymbol, a.Balance),
				strconv.Itoa(a.TransactionCount),
			)
		}
		return nil
	})
}

func runCategories(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		if _, err := e.requireUser(cmd.Context()); err != nil {
			return err
		}
		categories, err := e.expenses.Categories(cmd.Context())
		if err != nil {
			return userMessage(err)
		}
		out := cmd.OutOrStdout()
		if len(categories) == 0 {
			fmt.Fprintln(out, "No categories yet.")
			return nil
		}

		t := table{out: out, widths: []int{6, 24, 8, 14, 6}, right: []bool{true, false, false, true, true}}
		t.row("ID", "NAME", "COLOR", "SPENT", "TXNS")
		for _, c := range categories {
			t.row(
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Color,
				models.FormatDecimal(e.cfg.TUI.CurrencySymbol, c.TotalSpent),
				strconv.Itoa(c.TransactionCount),
			)
		}
		return nil
	})
}

func runTransactions(cmd *cobra.Command, args []string) error {
	if txType != "" && !slices.Contains(models.TransactionTypes(), txType) {
		return fmt.Errorf("invalid --type %q (valid: %s)", txType, strings.Join(models.TransactionTypes(), ", "))
	}

	return withEnv(func(e *env) error {
		if _, err := e.requireUser(cmd.Context()); err != nil {
			return err
		}
		filter := models.TransactionFilter{Category: txCategory, TransactionType: txType}
		txns, err := e.expenses.Transactions(cmd.Context(), filter)
		if err != nil {
			return userMessage(err)
		}
		out := cmd.OutOrStdout()
		if len(txns) == 0 {
			if filter.IsZero() {
				fmt.Fprintln(out, "No transactions yet.")
			} else {
				fmt.Fprintln(out, "No transactions match the filter.")
			}
			return nil
		}

		t := table{out: out, widths: []int{6, 10, 28, 18, 16, 8, 14}, right: []bool{true, false, false, false, false, false, true}}
		t.row("ID", "DATE", "DESCRIPTION", "ACCOUNT", "CATEGORY", "TYPE", "AMOUNT")
		for _, tx := range txns {
			category := tx.CategoryName
			if category == "" {
				category = "-"
			}
			t.row(
				strconv.FormatInt(tx.ID, 10),
				tx.Date,
				tx.Description,
				tx.AccountName,
				category,
				tx.TransactionType,
				models.FormatAmount(e.cfg.TUI.CurrencySymbol, tx.Amount),
			)
		}
		return nil
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		if _, err := e.requireUser(cmd.Context()); err != nil {
			return err
		}
		s, err := e.expenses.TransactionSummary(cmd.Context())
		if err != nil {
			return userMessage(err)
		}
		sym := e.cfg.TUI.CurrencySymbol
		t := table{out: cmd.OutOrStdout(), widths: []int{14, 16}, right: []bool{false, true}}
		t.row("Income", models.FormatDecimal(sym, s.TotalIncome))
		t.row("Expenses", models.FormatDecimal(sym, s.TotalExpenses))
		t.row("Net", models.FormatDecimal(sym, s.NetAmount))
		t.row("Transactions", strconv.Itoa(s.TransactionCount))
		return nil
	})
}

func runInsights(cmd *cobra.Command, args []string) error {
	return withEnv(func(e *env) error {
		if _, err := e.requireUser(cmd.Context()); err != nil {
			return err
		}
		report, err := e.expenses.Insights(cmd.Context())
		if err != nil {
			return userMessage(err)
		}
		out := cmd.OutOrStdout()
		sym := e.cfg.TUI.CurrencySymbol

		if len(report.Insights) == 0 {
			fmt.Fprintln(out, "No insights yet.")
		}
		for _, in := range report.Insights {
			fmt.Fprintf(out, "* %s\n  %s\n", in.Title, in.Message)
		}

		data := report.SpendingData
		fmt.Fprintln(out)
		t := table{out: out, widths: []int{16, 14, 14, 14}, right: []bool{false, true, true, true}}
		t.row("", "INCOME", "EXPENSES", "BALANCE")
		for _, m := range []struct {
			label  string
			totals models.MonthTotals
		}{
			{"This month", data.CurrentMonth},
			{"Last month", data.PreviousMonth},
		} {
			t.row(m.label,
				models.FormatDecimal(sym, m.totals.Income),
				models.FormatDecimal(sym, m.totals.Expenses),
				models.FormatDecimal(sym, m.totals.Balance),
			)
		}

		if len(data.TopCategories) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Top categories")
			top := table{out: out, widths: []int{24, 14}, right: []bool{false, true}}
			for _, c := range data.TopCategories {
				top.row(c.Category, models.FormatDecimal(sym, c.Amount))
			}
		}
		if report.GeneratedAt != "" {
			fmt.Fprintf(out, "\nGenerated %s\n", report.GeneratedAt)
		}
		return nil
	})
}
