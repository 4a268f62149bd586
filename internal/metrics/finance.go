package metrics

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
)

// Period is a named date range ending now.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	}

	return false
}

// PeriodStart returns the inclusive lower bound of p. The bool is false for PeriodAll.
func PeriodStart(p Period, now time.Time) (time.Time, bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	}

	return time.Time{}, false
}

// InPeriod returns the transactions dated on or after the period start.
func InPeriod(txs []*transaction.Transaction, p Period, now time.Time) []*transaction.Transaction {
	start, ok := PeriodStart(p, now)
	if !ok {
		return txs
	}

	out := make([]*transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.Date.Before(start) {
			out = append(out, tx)
		}
	}

	return out
}

type Financial struct {
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

func FinancialSummary(txs []*transaction.Transaction, p Period, now time.Time) Financial {
	income, expenses := decimal.Zero, decimal.Zero

	for _, tx := range InPeriod(txs, p, now) {
		switch tx.Type {
		case transaction.TypeIncome:
			income = income.Add(tx.Amount)
		case transaction.TypeExpense:
			expenses = expenses.Add(tx.Amount)
		}
	}

	return Financial{Income: income, Expenses: expenses, Balance: income.Sub(expenses)}
}

type CategoryTotal struct {
	Category transaction.Category `json:"category"`
	Amount   decimal.Decimal      `json:"amount"`
}

// CategoryBreakdown sums expenses per category, largest first. Ties are ordered by category name.
func CategoryBreakdown(txs []*transaction.Transaction) []CategoryTotal {
	totals := make(map[transaction.Category]decimal.Decimal)

	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}

		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, amount := range totals {
		out = append(out, CategoryTotal{Category: c, Amount: amount})
	}

	slices.SortFunc(out, func(a, b CategoryTotal) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}

type TransactionStats struct {
	Count          int             `json:"count"`
	Average        decimal.Decimal `json:"average"`
	BiggestIncome  decimal.Decimal `json:"biggestIncome"`
	BiggestExpense decimal.Decimal `json:"biggestExpense"`
}

func SummarizeTransactions(txs []*transaction.Transaction) TransactionStats {
	stats := TransactionStats{
		Count:          len(txs),
		Average:        decimal.Zero,
		BiggestIncome:  decimal.Zero,
		BiggestExpense: decimal.Zero,
	}
	if len(txs) == 0 {
		return stats
	}

	total := decimal.Zero

	for _, tx := range txs {
		total = total.Add(tx.Amount)

		switch tx.Type {
		case transaction.TypeIncome:
			stats.BiggestIncome = decimal.Max(stats.BiggestIncome, tx.Amount)
		case transaction.TypeExpense:
			stats.BiggestExpense = decimal.Max(stats.BiggestExpense, tx.Amount)
		}
	}

	stats.Average = total.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)

	return stats
}
