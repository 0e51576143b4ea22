package actions

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/storage"
)

type DeleteTransaction struct {
	AccountID     uuid.UUID
	AccessToken   string
	TransactionID uuid.UUID

	Ledger ledger.Ledger
}

func (d *DeleteTransaction) Name() string { return "DeleteTransaction" }

func (d *DeleteTransaction) ShardKey() string { return accountShard(d.AccountID) }

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	acct, err := lockAuthorized(ctx, writer, d.AccountID, d.AccessToken)
	if err != nil {
		return err
	}
	current, err := loadLedger(ctx, writer, acct)
	if err != nil {
		return err
	}

	next, removed, err := current.Delete(d.TransactionID)
	if err != nil {
		return err
	}

	if err := writer.Transaction.Delete(ctx, acct.ID, removed.ID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := saveBalance(ctx, writer, acct.ID, next); err != nil {
		return err
	}

	d.Ledger = next
	return nil
}
