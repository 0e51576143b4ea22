package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

// Backend is a store of account documents. Reads go through Reader; every
// mutation happens inside a Writer obtained from Write.
type Backend interface {
	Reader() *Reader
	// View runs fn against a single consistent snapshot, so an account and
	// its transactions read inside fn always belong together.
	View(ctx context.Context, fn func(*Reader) error) error
	Write(ctx context.Context) (*Writer, error)
	Ping(ctx context.Context) error
	Close() error
}

// Storage is the Postgres backend.
type Storage struct {
	DB     *sql.DB
	bobDB  bob.DB
	reader *Reader
}

var _ Backend = (*Storage)(nil)

// NewStorage opens a connection pool for connStr. The connection is not
// verified until first use or Ping.
func NewStorage(connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewStorageFromDB(db), nil
}

func NewStorageFromDB(db *sql.DB) *Storage {
	bobDB := bob.NewDB(db)
	return &Storage{
		DB:    db,
		bobDB: bobDB,
		reader: &Reader{
			Accounts:     account.NewReader(bobDB),
			Transactions: transaction.NewReader(bobDB),
		},
	}
}

func (s *Storage) Reader() *Reader {
	return s.reader
}

// Write begins a database transaction.
func (s *Storage) Write(ctx context.Context) (*Writer, error) {
	tx, err := s.bobDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return NewWriter(tx, account.NewWriter(tx), transaction.NewWriter(tx)), nil
}

// View reads inside a read-only repeatable read transaction.
func (s *Storage) View(ctx context.Context, fn func(*Reader) error) error {
	tx, err := s.bobDB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	if err := fn(NewReader(account.NewReader(tx), transaction.NewReader(tx))); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.DB.Close()
}
