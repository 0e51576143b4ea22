package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("transaction not found")

// Transaction represents a transaction record. Type and Category hold the
// ledger's textual values.
type Transaction struct {
	ID        uuid.UUID        `db:"id"`
	AccountID uuid.UUID        `db:"account_id"`
	Type      string           `db:"type"`
	Category  string           `db:"category"`
	Value     decimal.Decimal  `db:"value"`
	Date      time.Time        `db:"date"`
	Comment   null.Val[string] `db:"comment"`
	CreatedAt time.Time        `db:"created_at"`
}

// IReader defines the read side of transaction storage.
type IReader interface {
	// ListByAccount returns every transaction of the account in insertion order.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*Transaction, error)
}

// IWriter is only valid inside a storage unit of work whose account row is
// already locked.
type IWriter interface {
	IReader
	Insert(ctx context.Context, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, accountID, id uuid.UUID) error
}

const dateLayout = "2006-01-02"

var columns = []any{
	"id", "account_id", "type", "category", "value", "date", "comment", "created_at",
}
