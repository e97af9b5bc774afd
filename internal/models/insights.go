package models

import "github.com/shopspring/decimal"

// Insight is one generated observation.
type Insight struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// MonthTotals summarizes one calendar month.
type MonthTotals struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

// CategorySpend is one entry of the top spending categories.
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// SpendingData is the numeric context the insights were generated from.
type SpendingData struct {
	CurrentMonth  MonthTotals     `json:"current_month"`
	PreviousMonth MonthTotals     `json:"previous_month"`
	TopCategories []CategorySpend `json:"top_categories"`
}

// InsightsReport is displayed as received.
type InsightsReport struct {
	Insights     []Insight    `json:"insights"`
	SpendingData SpendingData `json:"spending_data"`
	GeneratedAt  string       `json:"generated_at"`
}
