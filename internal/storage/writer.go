package storage

import (
	"context"

	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// Tx ends a unit of work.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Writer is one unit of work. Exactly one of Commit or Rollback must be
// called; nothing it wrote is visible to others before Commit.
type Writer struct {
	tx          Tx
	Account     account.IWriter
	Transaction transaction.IWriter
}

func NewWriter(tx Tx, accounts account.IWriter, transactions transaction.IWriter) *Writer {
	return &Writer{
		tx:          tx,
		Account:     accounts,
		Transaction: transactions,
	}
}

func (w *Writer) Commit(ctx context.Context) error {
	return w.tx.Commit(ctx)
}

func (w *Writer) Rollback(ctx context.Context) error {
	return w.tx.Rollback(ctx)
}
