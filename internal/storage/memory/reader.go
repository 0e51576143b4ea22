package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// committedReader sees only committed state.
type committedReader struct {
	store *Store
}

var (
	_ account.IReader     = (*committedReader)(nil)
	_ transaction.IReader = (*committedReader)(nil)
)

func (r *committedReader) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.store.committedAccount(id)
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (r *committedReader) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	a, ok := r.store.committedAccountByEmail(email)
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (r *committedReader) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return pointers(r.store.committedTransactions(accountID)), nil
}

// snapshotReader is handed out by View, which already holds the read lock.
type snapshotReader struct {
	store *Store
}

var (
	_ account.IReader     = (*snapshotReader)(nil)
	_ transaction.IReader = (*snapshotReader)(nil)
)

func (r *snapshotReader) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := r.store.accountLocked(id)
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (r *snapshotReader) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	a, ok := r.store.accountByEmailLocked(email)
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (r *snapshotReader) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return pointers(r.store.transactionsLocked(accountID)), nil
}
