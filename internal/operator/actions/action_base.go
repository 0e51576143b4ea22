package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
)

// IAction is one write performed inside a storage unit of work. Actions that
// touch the same ShardKey are processed one at a time.
type IAction interface {
	Name() string
	ShardKey() string
	Perform(ctx context.Context, writer *storage.Writer) error
}

// TokenIssuer signs new session token pairs.
type TokenIssuer interface {
	Issue(accountID uuid.UUID) (session.Pair, error)
}

func accountShard(accountID uuid.UUID) string {
	return "account:" + accountID.String()
}

// lockAccount locks the account row. A vanished account is reported as
// unauthorized since the caller's credential no longer names anyone.
func lockAccount(ctx context.Context, writer *storage.Writer, accountID uuid.UUID) (*account.Account, error) {
	a, err := writer.Account.FindByIDForUpdate(ctx, accountID)
	if errors.Is(err, account.ErrNotFound) {
		return nil, apperr.Unauthorized(session.ErrNotAuthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("lock account: %w", err)
	}
	return a, nil
}

// lockAuthorized locks the account and checks accessToken against the
// stored one while the lock is held, so a concurrent rotation cannot slip
// between check and write.
func lockAuthorized(ctx context.Context, writer *storage.Writer, accountID uuid.UUID, accessToken string) (*account.Account, error) {
	a, err := lockAccount(ctx, writer, accountID)
	if err != nil {
		return nil, err
	}
	if !session.Matches(a.AccessToken, accessToken) {
		return nil, apperr.Unauthorized(session.ErrNotAuthorized)
	}
	return a, nil
}

func loadLedger(ctx context.Context, writer *storage.Writer, a *account.Account) (ledger.Ledger, error) {
	rows, err := writer.Transaction.ListByAccount(ctx, a.ID)
	if err != nil {
		return ledger.Ledger{}, fmt.Errorf("list transactions: %w", err)
	}
	return LedgerFromRows(a.Balance, rows), nil
}

func saveBalance(ctx context.Context, writer *storage.Writer, accountID uuid.UUID, l ledger.Ledger) error {
	if err := writer.Account.UpdateBalance(ctx, accountID, l.Balance); err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return nil
}
