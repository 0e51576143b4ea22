package transaction

import (
	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/ledger"
)

const basePath = "/v1/users"

// TransactionBody is a submitted transaction. Fields are optional in the
// schema so that missing values reach ledger validation and come back as
// field violations.
type TransactionBody struct {
	ID       string  `json:"id,omitempty" doc:"Ignored; ids are assigned by the server"`
	Type     string  `json:"type,omitempty" doc:"Income or Expense"`
	Category string  `json:"category,omitempty" doc:"One of the fixed categories"`
	Value    string  `json:"value,omitempty" doc:"Non-negative decimal amount"`
	Date     string  `json:"date,omitempty" doc:"Date formatted as YYYY-MM-DD"`
	Comment  *string `json:"comment,omitempty" doc:"Optional free text"`
}

func (b TransactionBody) draft() ledger.Draft {
	return ledger.Draft{
		ID:       b.ID,
		Type:     b.Type,
		Category: b.Category,
		Value:    b.Value,
		Date:     b.Date,
		Comment:  b.Comment,
	}
}

// LedgerOutput is returned by every ledger mutation.
type LedgerOutput struct {
	Body common.LedgerBody
}
