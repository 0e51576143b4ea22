// Package ledger keeps an account balance consistent with its transaction log.
//
// A Ledger is a value: every operation returns a new Ledger and leaves the
// receiver untouched, so a failed operation can never leave a half-applied
// change behind. The balance is maintained incrementally and must always
// equal Sum of the transaction effects.
package ledger

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/apperr"
)

// ErrTransactionNotFound is the message for unknown or mistyped transaction ids.
const ErrTransactionNotFound = "Transaction does not exist or wrong Id"

// ErrBalanceOutOfRange is the reason given when an operation would move the
// balance past what a numeric(14,2) column holds.
const ErrBalanceOutOfRange = "would take the balance beyond 999999999999.99 in either direction"

// Ledger is one account's balance and transaction set.
type Ledger struct {
	Balance      decimal.Decimal
	Transactions []Transaction
}

// Sum recomputes the balance from scratch.
func Sum(transactions []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		total = total.Add(Effect(t))
	}
	return total
}

// Consistent reports whether the cached balance matches the transaction log.
func (l Ledger) Consistent() bool {
	return l.Balance.Equal(Sum(l.Transactions))
}

// Find returns the position of the transaction with id.
func (l Ledger) Find(id uuid.UUID) (int, bool) {
	for i, t := range l.Transactions {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Add validates d, assigns it id and appends it.
func (l Ledger) Add(d Draft, id uuid.UUID) (Ledger, Transaction, error) {
	t, err := Validate(d, id)
	if err != nil {
		return l, Transaction{}, err
	}

	balance := l.Balance.Add(Effect(t))
	if err := checkBalance(balance); err != nil {
		return l, Transaction{}, err
	}

	next := Ledger{
		Balance:      balance,
		Transactions: make([]Transaction, 0, len(l.Transactions)+1),
	}
	next.Transactions = append(next.Transactions, l.Transactions...)
	next.Transactions = append(next.Transactions, t)
	return next, t, nil
}

// Delete removes the transaction with id and reverses its contribution.
func (l Ledger) Delete(id uuid.UUID) (Ledger, Transaction, error) {
	idx, ok := l.Find(id)
	if !ok {
		return l, Transaction{}, apperr.NotFound(ErrTransactionNotFound)
	}
	removed := l.Transactions[idx]
	balance := l.Balance.Sub(Effect(removed))
	if err := checkBalance(balance); err != nil {
		return l, Transaction{}, err
	}

	next := Ledger{
		Balance:      balance,
		Transactions: make([]Transaction, 0, len(l.Transactions)-1),
	}
	next.Transactions = append(next.Transactions, l.Transactions[:idx]...)
	next.Transactions = append(next.Transactions, l.Transactions[idx+1:]...)
	return next, removed, nil
}

// Update replaces the transaction with id by d. The stored id always wins
// over any id inside d. When neither value nor type changes the balance is
// left as is.
func (l Ledger) Update(id uuid.UUID, d Draft) (Ledger, Transaction, error) {
	idx, ok := l.Find(id)
	if !ok {
		return l, Transaction{}, apperr.NotFound(ErrTransactionNotFound)
	}
	updated, err := Validate(d, id)
	if err != nil {
		return l, Transaction{}, err
	}
	old := l.Transactions[idx]

	balance := l.Balance
	if !old.Value.Equal(updated.Value) || old.Type != updated.Type {
		balance = balance.Sub(Effect(old)).Add(Effect(updated))
		if err := checkBalance(balance); err != nil {
			return l, Transaction{}, err
		}
	}

	next := Ledger{
		Balance:      balance,
		Transactions: make([]Transaction, len(l.Transactions)),
	}
	copy(next.Transactions, l.Transactions)
	next.Transactions[idx] = updated
	return next, updated, nil
}

func checkBalance(balance decimal.Decimal) error {
	if balance.Abs().LessThan(maxValue) {
		return nil
	}
	return apperr.Validation("invalid transaction", apperr.Violation{Field: "value", Reason: ErrBalanceOutOfRange})
}
