// Package report builds financial period reports from the signed-in user's transactions.
package report

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
	"github.com/MrJamesThe3rd/lifemanager/internal/validation"
)

// Session is the part of session.Manager a report reads.
type Session interface {
	Snapshot() (*user.User, *userdata.Data, error)
}

// Service builds reports for the active session.
type Service struct {
	sess Session
	now  func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(sess Session, opts ...Option) *Service {
	s := &Service{sess: sess, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Line is one transaction as it appears in a report.
type Line struct {
	ID          int                  `json:"id"`
	Date        time.Time            `json:"date"`
	Type        transaction.Type     `json:"type"`
	Description string               `json:"description"`
	Category    transaction.Category `json:"category"`
	Amount      decimal.Decimal      `json:"amount"`
}

type DayTotal struct {
	Date    time.Time       `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type Financial struct {
	Period       metrics.Period           `json:"period"`
	GeneratedAt  time.Time                `json:"generatedAt"`
	Owner        string                   `json:"user"`
	Summary      metrics.Financial        `json:"summary"`
	Stats        metrics.TransactionStats `json:"stats"`
	Transactions []Line                   `json:"transactions"`
	Categories   []metrics.CategoryTotal  `json:"categories"`
	Daily        []DayTotal               `json:"daily"`
}

// Financial reports every transaction in period, newest first.
func (s *Service) Financial(period metrics.Period) (*Financial, error) {
	if period == "" {
		period = metrics.PeriodMonth
	}

	if !period.Valid() {
		return nil, validation.New("period", "must be one of: week, month, year, all")
	}

	u, data, err := s.sess.Snapshot()
	if err != nil {
		return nil, err
	}

	now := s.now()
	txs := metrics.InPeriod(data.Transactions, period, now)

	lines := make([]Line, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, Line{
			ID:          tx.ID,
			Date:        tx.Date,
			Type:        tx.Type,
			Description: tx.Description,
			Category:    tx.Category,
			Amount:      tx.Amount,
		})
	}

	slices.SortStableFunc(lines, func(a, b Line) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}

		return cmp.Compare(b.ID, a.ID)
	})

	return &Financial{
		Period:       period,
		GeneratedAt:  now,
		Owner:        u.Name,
		Summary:      metrics.FinancialSummary(data.Transactions, period, now),
		Stats:        metrics.SummarizeTransactions(txs),
		Transactions: lines,
		Categories:   metrics.CategoryBreakdown(txs),
		Daily:        LastDays(data.Transactions, 30, now),
	}, nil
}

// LastDays totals income and expenses per calendar day for the n days ending today, oldest first.
func LastDays(txs []*transaction.Transaction, n int, now time.Time) []DayTotal {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	out := make([]DayTotal, n)
	for i := range out {
		out[i] = DayTotal{
			Date:    today.AddDate(0, 0, i-n+1),
			Income:  decimal.Zero,
			Expense: decimal.Zero,
		}
	}

	for _, tx := range txs {
		d := tx.Date.In(now.Location())
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())

		i := n - 1 - int(math.Round(today.Sub(day).Hours()/24))
		if i < 0 || i >= n {
			continue
		}

		switch tx.Type {
		case transaction.TypeIncome:
			out[i].Income = out[i].Income.Add(tx.Amount)
		case transaction.TypeExpense:
			out[i].Expense = out[i].Expense.Add(tx.Amount)
		}
	}

	for i := range out {
		out[i].Balance = out[i].Income.Sub(out[i].Expense)
	}

	return out
}

// Text renders r as a plain-text statement, one transaction per line.
func (r *Financial) Text() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Financial report (%s) for %s, generated %s\n", r.Period, r.Owner, r.GeneratedAt.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Income: %s | Expenses: %s | Balance: %s | Transactions: %d\n\n",
		r.Summary.Income.StringFixed(2), r.Summary.Expenses.StringFixed(2), r.Summary.Balance.StringFixed(2), r.Stats.Count)

	for _, l := range r.Transactions {
		sign := "-"
		if l.Type == transaction.TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n", l.Date.Format(time.DateOnly), l.Description, sign, l.Amount.StringFixed(2), l.Category)
	}

	if len(r.Categories) > 0 {
		sb.WriteString("\nExpenses by category:\n")

		for _, c := range r.Categories {
			fmt.Fprintf(&sb, "* %s: %s\n", c.Category, c.Amount.StringFixed(2))
		}
	}

	return sb.String()
}

// Filename is the suggested download name for r.
func (r *Financial) Filename() string {
	return fmt.Sprintf("financial-report-%s-%s.json", r.Period, r.GeneratedAt.Format(time.DateOnly))
}
