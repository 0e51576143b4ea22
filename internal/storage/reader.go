package storage

import (
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// Reader runs outside any unit of work and takes no locks.
type Reader struct {
	Accounts     account.IReader
	Transactions transaction.IReader
}

func NewReader(accounts account.IReader, transactions transaction.IReader) *Reader {
	return &Reader{
		Accounts:     accounts,
		Transactions: transactions,
	}
}
