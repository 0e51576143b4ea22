package ledger

import (
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// DateLayout is the canonical stored and accepted transaction date format.
const DateLayout = "2006-01-02"

// Type decides the sign of a transaction's contribution to the balance.
type Type string

const (
	TypeIncome  Type = "Income"
	TypeExpense Type = "Expense"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category groups transactions for statistics. It is independent of Type.
type Category string

const (
	CategoryIncome            Category = "Income"
	CategoryMainExpenses      Category = "Main expenses"
	CategoryProducts          Category = "Products"
	CategoryCar               Category = "Car"
	CategorySelfCare          Category = "Self care"
	CategoryChildCare         Category = "Child care"
	CategoryHouseholdProducts Category = "Household products"
	CategoryEducation         Category = "Education"
	CategoryLeisure           Category = "Leisure"
	CategoryOtherExpenses     Category = "Other expenses"
	CategoryEntertainment     Category = "Entertainment"
)

var categories = []Category{
	CategoryIncome,
	CategoryMainExpenses,
	CategoryProducts,
	CategoryCar,
	CategorySelfCare,
	CategoryChildCare,
	CategoryHouseholdProducts,
	CategoryEducation,
	CategoryLeisure,
	CategoryOtherExpenses,
	CategoryEntertainment,
}

// Categories returns the fixed category list in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is one accepted ledger entry.
type Transaction struct {
	ID       uuid.UUID
	Type     Type
	Category Category
	Value    decimal.Decimal
	Date     time.Time
	Comment  null.Val[string]
}

// Effect is the signed contribution of t to the balance.
func Effect(t Transaction) decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Value.Neg()
	}
	return t.Value
}
