package memory

import (
	"context"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// unitOfWork stages changes on top of the committed state. Staged accounts
// and modified transaction lists replace their committed counterparts on
// Commit.
type unitOfWork struct {
	store        *Store
	accounts     map[uuid.UUID]account.Account
	created      map[uuid.UUID]bool
	transactions map[uuid.UUID][]transaction.Transaction
	locked       []uuid.UUID
	finished     bool
}

var (
	_ storage.Tx          = (*unitOfWork)(nil)
	_ account.IWriter     = (*unitOfWork)(nil)
	_ transaction.IWriter = (*unitOfWork)(nil)
)

func (u *unitOfWork) account(id uuid.UUID) (account.Account, bool) {
	if a, ok := u.accounts[id]; ok {
		return a, true
	}
	return u.store.committedAccount(id)
}

func (u *unitOfWork) FindByID(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := u.account(id)
	if !ok {
		return nil, account.ErrNotFound
	}
	return &a, nil
}

func (u *unitOfWork) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, a := range u.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	a, ok := u.store.committedAccountByEmail(email)
	if !ok {
		return nil, account.ErrNotFound
	}
	return u.FindByID(context.Background(), a.ID)
}

func (u *unitOfWork) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	if u.finished {
		return nil, errFinished
	}
	if !u.holds(id) {
		if err := u.store.lock(ctx, id); err != nil {
			return nil, err
		}
		u.locked = append(u.locked, id)
	}
	return u.FindByID(ctx, id)
}

func (u *unitOfWork) holds(id uuid.UUID) bool {
	for _, held := range u.locked {
		if held == id {
			return true
		}
	}
	return false
}

func (u *unitOfWork) Create(ctx context.Context, create *account.AccountCreate) (*account.Account, error) {
	if u.finished {
		return nil, errFinished
	}
	if existing, err := u.FindByEmail(ctx, create.Email); err == nil && existing != nil {
		return nil, account.ErrEmailTaken
	}
	created := account.Account{
		ID:           create.ID,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		FirstName:    create.FirstName,
		Balance:      decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
	u.accounts[created.ID] = created
	u.created[created.ID] = true
	return &created, nil
}

func (u *unitOfWork) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return u.modify(id, func(a *account.Account) {
		a.Balance = balance
	})
}

func (u *unitOfWork) SetTokens(_ context.Context, id uuid.UUID, accessToken, refreshToken null.Val[string]) error {
	return u.modify(id, func(a *account.Account) {
		a.AccessToken = accessToken
		a.RefreshToken = refreshToken
	})
}

func (u *unitOfWork) modify(id uuid.UUID, apply func(*account.Account)) error {
	if u.finished {
		return errFinished
	}
	a, ok := u.account(id)
	if !ok {
		return account.ErrNotFound
	}
	apply(&a)
	u.accounts[id] = a
	return nil
}

func (u *unitOfWork) stagedTransactions(accountID uuid.UUID) []transaction.Transaction {
	if rows, ok := u.transactions[accountID]; ok {
		return rows
	}
	return u.store.committedTransactions(accountID)
}

func (u *unitOfWork) ListByAccount(_ context.Context, accountID uuid.UUID) ([]*transaction.Transaction, error) {
	return pointers(u.stagedTransactions(accountID)), nil
}

func (u *unitOfWork) Insert(_ context.Context, row *transaction.Transaction) error {
	if u.finished {
		return errFinished
	}
	if _, ok := u.account(row.AccountID); !ok {
		return account.ErrNotFound
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	u.transactions[row.AccountID] = append(u.stagedTransactions(row.AccountID), *row)
	return nil
}

func (u *unitOfWork) Update(_ context.Context, row *transaction.Transaction) error {
	if u.finished {
		return errFinished
	}
	rows := u.stagedTransactions(row.AccountID)
	for i := range rows {
		if rows[i].ID == row.ID {
			updated := *row
			updated.CreatedAt = rows[i].CreatedAt
			rows[i] = updated
			u.transactions[row.AccountID] = rows
			return nil
		}
	}
	return transaction.ErrNotFound
}

func (u *unitOfWork) Delete(_ context.Context, accountID, id uuid.UUID) error {
	if u.finished {
		return errFinished
	}
	rows := u.stagedTransactions(accountID)
	for i := range rows {
		if rows[i].ID == id {
			next := make([]transaction.Transaction, 0, len(rows)-1)
			next = append(next, rows[:i]...)
			next = append(next, rows[i+1:]...)
			u.transactions[accountID] = next
			return nil
		}
	}
	return transaction.ErrNotFound
}

// Commit applies every staged change at once. A registration that lost a
// race for its email fails with account.ErrEmailTaken and applies nothing.
func (u *unitOfWork) Commit(context.Context) error {
	if u.finished {
		return errFinished
	}
	defer u.release()

	s := u.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range u.created {
		if _, taken := s.emails[u.accounts[id].Email]; taken {
			return account.ErrEmailTaken
		}
	}
	for id, a := range u.accounts {
		s.accounts[id] = a
		s.emails[a.Email] = id
	}
	for accountID, rows := range u.transactions {
		s.transactions[accountID] = rows
	}
	return nil
}

// Rollback discards staged changes. It is a no-op after Commit so callers
// can defer it.
func (u *unitOfWork) Rollback(context.Context) error {
	if u.finished {
		return nil
	}
	u.release()
	return nil
}

func (u *unitOfWork) release() {
	u.finished = true
	for _, id := range u.locked {
		u.store.unlock(id)
	}
	u.locked = nil
}
