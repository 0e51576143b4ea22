package actions

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// LedgerFromRows builds the ledger value for stored rows and the stored
// balance.
func LedgerFromRows(balance decimal.Decimal, rows []*transaction.Transaction) ledger.Ledger {
	l := ledger.Ledger{
		Balance:      balance,
		Transactions: make([]ledger.Transaction, len(rows)),
	}
	for i, row := range rows {
		l.Transactions[i] = ToLedgerTransaction(row)
	}
	return l
}

// ToLedgerTransaction drops any zone the driver attached to the date.
func ToLedgerTransaction(row *transaction.Transaction) ledger.Transaction {
	year, month, day := row.Date.Date()
	return ledger.Transaction{
		ID:       row.ID,
		Type:     ledger.Type(row.Type),
		Category: ledger.Category(row.Category),
		Value:    row.Value,
		Date:     time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Comment:  row.Comment,
	}
}

func toRow(accountID uuid.UUID, t ledger.Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        t.ID,
		AccountID: accountID,
		Type:      string(t.Type),
		Category:  string(t.Category),
		Value:     t.Value,
		Date:      t.Date,
		Comment:   t.Comment,
	}
}
