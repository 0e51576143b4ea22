// Package statistics folds a month of ledger transactions into type and
// category totals.
package statistics

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/ledger"
)

// Statistics is the fixed-shape aggregate for one calendar month. Income and
// Expenses total by type; the remaining fields total by category, so an
// Income-category income transaction is counted in both Income and
// CategoryIncome.
type Statistics struct {
	Income            decimal.Decimal
	Expenses          decimal.Decimal
	CategoryIncome    decimal.Decimal
	MainExpenses      decimal.Decimal
	Products          decimal.Decimal
	Car               decimal.Decimal
	SelfCare          decimal.Decimal
	ChildCare         decimal.Decimal
	HouseholdProducts decimal.Decimal
	Education         decimal.Decimal
	Leisure           decimal.Decimal
	OtherExpenses     decimal.Decimal
	Entertainment     decimal.Decimal
}

// Zero returns statistics with every field explicitly zero.
func Zero() Statistics {
	return Statistics{
		Income:            decimal.Zero,
		Expenses:          decimal.Zero,
		CategoryIncome:    decimal.Zero,
		MainExpenses:      decimal.Zero,
		Products:          decimal.Zero,
		Car:               decimal.Zero,
		SelfCare:          decimal.Zero,
		ChildCare:         decimal.Zero,
		HouseholdProducts: decimal.Zero,
		Education:         decimal.Zero,
		Leisure:           decimal.Zero,
		OtherExpenses:     decimal.Zero,
		Entertainment:     decimal.Zero,
	}
}

// Category returns the total for c.
func (s Statistics) Category(c ledger.Category) decimal.Decimal {
	if bucket := s.bucket(c); bucket != nil {
		return *bucket
	}
	return decimal.Zero
}

func (s *Statistics) bucket(c ledger.Category) *decimal.Decimal {
	switch c {
	case ledger.CategoryIncome:
		return &s.CategoryIncome
	case ledger.CategoryMainExpenses:
		return &s.MainExpenses
	case ledger.CategoryProducts:
		return &s.Products
	case ledger.CategoryCar:
		return &s.Car
	case ledger.CategorySelfCare:
		return &s.SelfCare
	case ledger.CategoryChildCare:
		return &s.ChildCare
	case ledger.CategoryHouseholdProducts:
		return &s.HouseholdProducts
	case ledger.CategoryEducation:
		return &s.Education
	case ledger.CategoryLeisure:
		return &s.Leisure
	case ledger.CategoryOtherExpenses:
		return &s.OtherExpenses
	case ledger.CategoryEntertainment:
		return &s.Entertainment
	default:
		return nil
	}
}

// Period is a calendar month.
type Period struct {
	Month int
	Year  int
}

// ParsePeriod reads month and year path values. A malformed pair is not an
// error: ok is false and callers report zero statistics.
func ParsePeriod(month, year string) (Period, bool) {
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return Period{}, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil || y < 1 {
		return Period{}, false
	}
	return Period{Month: m, Year: y}, true
}

// Contains reports whether t is dated inside p. Dates are compared on their
// stored calendar components without timezone conversion.
func (p Period) Contains(t ledger.Transaction) bool {
	return int(t.Date.Month()) == p.Month && t.Date.Year() == p.Year
}

// Aggregate totals the transactions dated inside p.
func Aggregate(transactions []ledger.Transaction, p Period) Statistics {
	stats := Zero()
	for _, t := range transactions {
		if !p.Contains(t) {
			continue
		}
		switch t.Type {
		case ledger.TypeIncome:
			stats.Income = stats.Income.Add(t.Value)
		case ledger.TypeExpense:
			stats.Expenses = stats.Expenses.Add(t.Value)
		}
		if bucket := stats.bucket(t.Category); bucket != nil {
			*bucket = bucket.Add(t.Value)
		}
	}
	return stats
}
