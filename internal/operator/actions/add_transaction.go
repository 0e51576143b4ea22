package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/storage"
)

type AddTransaction struct {
	AccountID   uuid.UUID
	AccessToken string
	Draft       ledger.Draft
	NewID       uuid.UUID

	Ledger      ledger.Ledger
	Transaction ledger.Transaction
}

func (a *AddTransaction) Name() string { return "AddTransaction" }

func (a *AddTransaction) ShardKey() string { return accountShard(a.AccountID) }

func (a *AddTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	acct, err := lockAuthorized(ctx, writer, a.AccountID, a.AccessToken)
	if err != nil {
		return err
	}
	current, err := loadLedger(ctx, writer, acct)
	if err != nil {
		return err
	}

	next, added, err := current.Add(a.Draft, a.NewID)
	if err != nil {
		return err
	}

	if err := writer.Transaction.Insert(ctx, toRow(acct.ID, added)); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	if err := saveBalance(ctx, writer, acct.ID, next); err != nil {
		return err
	}

	a.Ledger = next
	a.Transaction = added
	return nil
}
