package ledger

import (
	"strings"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/validation"
)

// Draft is an unvalidated transaction as submitted by a client. Any id the
// client sends is carried for completeness but never trusted.
type Draft struct {
	ID       string  `json:"id"`
	Type     string  `json:"type" validate:"required,txtype"`
	Category string  `json:"category" validate:"required,category"`
	Value    string  `json:"value" validate:"required,decimal,nonnegative,money"`
	Date     string  `json:"date" validate:"required,ledgerdate"`
	Comment  *string `json:"comment" validate:"omitempty,max=500"`
}

var reasons = map[string]string{
	"txtype":      "must be one of Income, Expense",
	"category":    "must be one of " + categoryList(),
	"decimal":     "must be a number",
	"nonnegative": "must not be negative",
	"money":       "must have at most 2 decimal places and 12 integer digits",
	"ledgerdate":  "must be a date formatted as YYYY-MM-DD",
}

// maxValue keeps values and balances storable as numeric(14,2).
var maxValue = decimal.New(1, 12)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validation.New()
	_ = v.RegisterValidation("txtype", func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("decimal", func(fl validator.FieldLevel) bool {
		_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && d.Equal(d.Truncate(2)) && d.Abs().LessThan(maxValue)
	})
	_ = v.RegisterValidation("ledgerdate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks d against the transaction schema and returns the accepted
// transaction with id. It never partially succeeds.
func Validate(d Draft, id uuid.UUID) (Transaction, error) {
	if err := validation.Struct(validate, d, "invalid transaction", reasons); err != nil {
		return Transaction{}, err
	}

	value, err := decimal.NewFromString(strings.TrimSpace(d.Value))
	if err != nil {
		return Transaction{}, apperr.Validation("invalid transaction", apperr.Violation{Field: "value", Reason: reasons["decimal"]})
	}
	date, err := time.Parse(DateLayout, d.Date)
	if err != nil {
		return Transaction{}, apperr.Validation("invalid transaction", apperr.Violation{Field: "date", Reason: reasons["ledgerdate"]})
	}

	return Transaction{
		ID:       id,
		Type:     Type(d.Type),
		Category: Category(d.Category),
		Value:    value,
		Date:     date,
		Comment:  null.FromPtr(d.Comment),
	}, nil
}

func categoryList() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
