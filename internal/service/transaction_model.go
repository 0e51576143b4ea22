package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/ledger"
)

// LedgerState is the balance and full transaction set after a ledger
// operation.
type LedgerState struct {
	Balance      decimal.Decimal
	Transactions []ledger.Transaction
}

func ledgerState(l ledger.Ledger) LedgerState {
	return LedgerState{Balance: l.Balance, Transactions: l.Transactions}
}
