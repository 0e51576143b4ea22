package common

import (
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/service"
)

// Transaction is the API response model for a ledger transaction.
type Transaction struct {
	ID       string  `json:"id" doc:"Transaction UUID"`
	Type     string  `json:"type" enum:"Income,Expense" doc:"Transaction type"`
	Category string  `json:"category" doc:"Transaction category"`
	Value    string  `json:"value" doc:"Non-negative decimal amount"`
	Date     string  `json:"date" doc:"Date formatted as YYYY-MM-DD"`
	Comment  *string `json:"comment,omitempty" doc:"Optional free text"`
}

// LedgerBody is the balance and full transaction set after a ledger
// operation.
type LedgerBody struct {
	Balance      string        `json:"balance" doc:"Signed decimal balance"`
	Transactions []Transaction `json:"transactions"`
}

func FromTransaction(t ledger.Transaction) Transaction {
	return Transaction{
		ID:       t.ID.String(),
		Type:     string(t.Type),
		Category: string(t.Category),
		Value:    t.Value.StringFixed(2),
		Date:     t.Date.Format(ledger.DateLayout),
		Comment:  t.Comment.Ptr(),
	}
}

func FromTransactions(transactions []ledger.Transaction) []Transaction {
	out := make([]Transaction, len(transactions))
	for i, t := range transactions {
		out[i] = FromTransaction(t)
	}
	return out
}

func FromLedgerState(state service.LedgerState) LedgerBody {
	return LedgerBody{
		Balance:      state.Balance.StringFixed(2),
		Transactions: FromTransactions(state.Transactions),
	}
}
