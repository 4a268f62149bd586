package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifemanager/internal/metrics"
	"github.com/MrJamesThe3rd/lifemanager/internal/report"
	"github.com/MrJamesThe3rd/lifemanager/internal/transaction"
	"github.com/MrJamesThe3rd/lifemanager/internal/user"
	"github.com/MrJamesThe3rd/lifemanager/internal/userdata"
)

var fixedNow = time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)

type fakeSession struct {
	data *userdata.Data
	err  error
}

func (f *fakeSession) Snapshot() (*user.User, *userdata.Data, error) {
	if f.err != nil {
		return nil, nil, f.err
	}

	return &user.User{Name: "Ana", Email: "ana@x.com"}, f.data, nil
}

func tx(id int, typ transaction.Type, amount string, category transaction.Category, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID: id, Type: typ, Description: string(category), Amount: decimal.RequireFromString(amount), Category: category, Date: date,
	}
}

func TestFinancial(t *testing.T) {
	d := userdata.New()
	d.Transactions = []*transaction.Transaction{
		tx(1, transaction.TypeIncome, "3000", transaction.CategorySalary, fixedNow.AddDate(0, 0, -10)),
		tx(2, transaction.TypeExpense, "120.50", transaction.CategoryFood, fixedNow.AddDate(0, 0, -1)),
		tx(3, transaction.TypeExpense, "900", transaction.CategoryHousing, fixedNow),
		tx(4, transaction.TypeExpense, "50", transaction.CategoryFood, fixedNow.AddDate(0, -2, 0)),
	}

	svc := report.NewService(&fakeSession{data: d}, report.WithClock(func() time.Time { return fixedNow }))

	r, err := svc.Financial(metrics.PeriodMonth)
	require.NoError(t, err)

	assert.Equal(t, "Ana", r.Owner)
	assert.True(t, decimal.NewFromInt(3000).Equal(r.Summary.Income))
	assert.True(t, decimal.RequireFromString("1020.50").Equal(r.Summary.Expenses))
	assert.True(t, decimal.RequireFromString("1979.50").Equal(r.Summary.Balance))

	require.Len(t, r.Transactions, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{r.Transactions[0].ID, r.Transactions[1].ID, r.Transactions[2].ID})

	require.Len(t, r.Categories, 2)
	assert.Equal(t, transaction.CategoryHousing, r.Categories[0].Category)

	require.Len(t, r.Daily, 30)
	assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), r.Daily[29].Date)
	assert.True(t, decimal.NewFromInt(-900).Equal(r.Daily[29].Balance))
	assert.True(t, decimal.NewFromInt(3000).Equal(r.Daily[19].Income))

	text := r.Text()
	assert.Contains(t, text, "Income: 3000.00 | Expenses: 1020.50 | Balance: 1979.50 | Transactions: 3")
	assert.Contains(t, text, "* 2024-03-13 | food | -120.50 | food")
	assert.Contains(t, text, "* housing: 900.00")
	assert.Equal(t, "financial-report-month-2024-03-14.json", r.Filename())
}

func TestFinancial_Errors(t *testing.T) {
	svc := report.NewService(&fakeSession{data: userdata.New()})

	_, err := svc.Financial("decade")
	require.Error(t, err)

	r, err := svc.Financial("")
	require.NoError(t, err)
	assert.Equal(t, metrics.PeriodMonth, r.Period)
	assert.Empty(t, r.Transactions)
}

func TestLastDays_SkipsOutOfRange(t *testing.T) {
	txs := []*transaction.Transaction{
		tx(1, transaction.TypeIncome, "10", transaction.CategorySalary, fixedNow.AddDate(0, 0, 1)),
		tx(2, transaction.TypeIncome, "10", transaction.CategorySalary, fixedNow.AddDate(0, 0, -7)),
	}

	got := report.LastDays(txs, 7, fixedNow)

	require.Len(t, got, 7)
	for _, d := range got {
		assert.True(t, d.Income.IsZero(), d.Date)
	}
}
