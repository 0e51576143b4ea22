package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/storage"
)

type UpdateTransaction struct {
	AccountID     uuid.UUID
	AccessToken   string
	TransactionID uuid.UUID
	Draft         ledger.Draft

	Ledger      ledger.Ledger
	Transaction ledger.Transaction
}

func (u *UpdateTransaction) Name() string { return "UpdateTransaction" }

func (u *UpdateTransaction) ShardKey() string { return accountShard(u.AccountID) }

func (u *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	acct, err := lockAuthorized(ctx, writer, u.AccountID, u.AccessToken)
	if err != nil {
		return err
	}
	current, err := loadLedger(ctx, writer, acct)
	if err != nil {
		return err
	}

	next, updated, err := current.Update(u.TransactionID, u.Draft)
	if err != nil {
		return err
	}

	if err := writer.Transaction.Update(ctx, toRow(acct.ID, updated)); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if err := saveBalance(ctx, writer, acct.ID, next); err != nil {
		return err
	}

	u.Ledger = next
	u.Transaction = updated
	return nil
}
