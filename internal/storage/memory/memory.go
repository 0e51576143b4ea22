// Package memory is an in-process storage backend. It keeps the same unit of
// work contract as Postgres: FindByIDForUpdate holds a per-account lock until
// the unit of work ends, and writes become visible only on Commit.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

var errFinished = errors.New("memory: unit of work already finished")

type Store struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]account.Account
	emails       map[string]uuid.UUID
	transactions map[uuid.UUID][]transaction.Transaction

	locksMu sync.Mutex
	locks   map[uuid.UUID]chan struct{}
}

var _ storage.Backend = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		accounts:     make(map[uuid.UUID]account.Account),
		emails:       make(map[string]uuid.UUID),
		transactions: make(map[uuid.UUID][]transaction.Transaction),
		locks:        make(map[uuid.UUID]chan struct{}),
	}
}

func (s *Store) Reader() *storage.Reader {
	r := &committedReader{store: s}
	return storage.NewReader(r, r)
}

func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	uow := &unitOfWork{
		store:        s,
		accounts:     make(map[uuid.UUID]account.Account),
		created:      make(map[uuid.UUID]bool),
		transactions: make(map[uuid.UUID][]transaction.Transaction),
	}
	return storage.NewWriter(uow, uow, uow), nil
}

// View holds the read lock for all of fn. fn must only use the Reader it is
// given.
func (s *Store) View(ctx context.Context, fn func(*storage.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := &snapshotReader{store: s}
	return fn(storage.NewReader(r, r))
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

// lock blocks until the account lock is free or ctx is done.
func (s *Store) lock(ctx context.Context, id uuid.UUID) error {
	s.locksMu.Lock()
	ch, ok := s.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		s.locks[id] = ch
	}
	s.locksMu.Unlock()

	select {
	case ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock(id uuid.UUID) {
	s.locksMu.Lock()
	ch := s.locks[id]
	s.locksMu.Unlock()
	<-ch
}

func (s *Store) committedAccount(id uuid.UUID) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountLocked(id)
}

func (s *Store) committedAccountByEmail(email string) (account.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountByEmailLocked(email)
}

func (s *Store) committedTransactions(accountID uuid.UUID) []transaction.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactionsLocked(accountID)
}

// The *Locked helpers expect s.mu to be held.

func (s *Store) accountLocked(id uuid.UUID) (account.Account, bool) {
	a, ok := s.accounts[id]
	return a, ok
}

func (s *Store) accountByEmailLocked(email string) (account.Account, bool) {
	id, ok := s.emails[email]
	if !ok {
		return account.Account{}, false
	}
	return s.accountLocked(id)
}

func (s *Store) transactionsLocked(accountID uuid.UUID) []transaction.Transaction {
	return append([]transaction.Transaction(nil), s.transactions[accountID]...)
}

func pointers(rows []transaction.Transaction) []*transaction.Transaction {
	out := make([]*transaction.Transaction, len(rows))
	for i := range rows {
		row := rows[i]
		out[i] = &row
	}
	return out
}
