package transaction

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category groups transactions; the allowed set depends on the Type.
type Category string

const (
	CategorySalary     Category = "salary"
	CategoryFreelance  Category = "freelance"
	CategoryBusiness   Category = "business"
	CategoryInvestment Category = "investment"
	CategoryGift       Category = "gift"

	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHousing       Category = "housing"
	CategoryHealth        Category = "health"
	CategoryEntertainment Category = "entertainment"
	CategoryEducation     Category = "education"
	CategoryShopping      Category = "shopping"
	CategoryBills         Category = "bills"

	CategoryOther Category = "other"
)

var (
	incomeCategories = []Category{
		CategorySalary, CategoryFreelance, CategoryBusiness, CategoryInvestment, CategoryGift, CategoryOther,
	}
	expenseCategories = []Category{
		CategoryFood, CategoryTransport, CategoryHousing, CategoryHealth, CategoryEntertainment,
		CategoryEducation, CategoryShopping, CategoryBills, CategoryOther,
	}
	essentialCategories = []Category{CategoryHousing, CategoryHealth, CategoryFood, CategoryBills}
)

// Categories lists the categories allowed for t.
func (t Type) Categories() []Category {
	switch t {
	case TypeIncome:
		return slices.Clone(incomeCategories)
	case TypeExpense:
		return slices.Clone(expenseCategories)
	}

	return nil
}

func (t Type) Allows(c Category) bool {
	return slices.Contains(t.Categories(), c)
}

// Essential reports whether c is a living cost (housing, health, food or bills).
func (c Category) Essential() bool {
	return slices.Contains(essentialCategories, c)
}

// Transaction represents a financial transaction. Amount is always positive; Type carries the sign.
type Transaction struct {
	ID          int             `json:"id"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	OwnerID     string          `json:"userId"`
}

// Signed returns the amount with expenses negated.
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}

func (t *Transaction) Clone() *Transaction {
	c := *t
	return &c
}
