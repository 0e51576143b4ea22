package storage

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/transaction"
)

func newPostgresStorage(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres integration test skipped in -short mode")
	}
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("wallet"),
		tcpostgres.WithUsername("wallet"),
		tcpostgres.WithPassword("wallet"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	store, err := NewStorage(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	result, err := Migrate(store.DB)
	require.NoError(t, err)
	require.Equal(t, uint(2), result.PostMigrationVersion)
	return store
}

func TestPostgres_AccountAndTransactionRoundTrip(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	w, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := w.Account.Create(ctx, &account.AccountCreate{
		ID: uuid.Must(uuid.NewV4()), Email: "a@x.com", PasswordHash: "hash", FirstName: "Ann",
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	w, err = store.Write(ctx)
	require.NoError(t, err)
	locked, err := w.Account.FindByIDForUpdate(ctx, created.ID)
	require.NoError(t, err)
	txID := uuid.Must(uuid.NewV4())
	require.NoError(t, w.Transaction.Insert(ctx, &transaction.Transaction{
		ID: txID, AccountID: locked.ID, Type: "Income", Category: "Income",
		Value: decimal.RequireFromString("500.25"), Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Comment: null.From("salary"),
	}))
	require.NoError(t, w.Account.UpdateBalance(ctx, locked.ID, decimal.RequireFromString("500.25")))
	require.NoError(t, w.Account.SetTokens(ctx, locked.ID, null.From("access"), null.From("refresh")))
	require.NoError(t, w.Commit(ctx))

	found, err := store.Reader().Accounts.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, found.Balance.Equal(decimal.RequireFromString("500.25")))
	assert.Equal(t, "access", found.AccessToken.GetOr(""))

	rows, err := store.Reader().Transactions.ListByAccount(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, txID, rows[0].ID)
	assert.Equal(t, "2024-01-05", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, "salary", rows[0].Comment.GetOr(""))

	w, err = store.Write(ctx)
	require.NoError(t, err)
	require.NoError(t, w.Transaction.Delete(ctx, created.ID, txID))
	assert.ErrorIs(t, w.Transaction.Delete(ctx, created.ID, txID), transaction.ErrNotFound)
	require.NoError(t, w.Account.SetTokens(ctx, created.ID, null.Val[string]{}, null.Val[string]{}))
	require.NoError(t, w.Commit(ctx))

	found, err = store.Reader().Accounts.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.AccessToken.IsNull())
	assert.True(t, found.RefreshToken.IsNull())
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()

	for i, want := range []error{nil, account.ErrEmailTaken} {
		w, err := store.Write(ctx)
		require.NoError(t, err)
		_, err = w.Account.Create(ctx, &account.AccountCreate{
			ID: uuid.Must(uuid.NewV4()), Email: "dup@x.com", PasswordHash: "hash", FirstName: "Ann",
		})
		if want == nil {
			require.NoError(t, err, "attempt %d", i)
			require.NoError(t, w.Commit(ctx))
			continue
		}
		assert.ErrorIs(t, err, want)
		require.NoError(t, w.Rollback(ctx))
	}
}

func TestPostgres_MissingAccount(t *testing.T) {
	store := newPostgresStorage(t)

	_, err := store.Reader().Accounts.FindByID(context.Background(), uuid.Must(uuid.NewV4()))

	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestPostgres_LargestBalanceRoundTrips(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()

	w, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := w.Account.Create(ctx, &account.AccountCreate{
		ID: uuid.Must(uuid.NewV4()), Email: "rich@x.com", PasswordHash: "hash", FirstName: "Ann",
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	for _, balance := range []string{"999999999999.99", "-999999999999.99"} {
		w, err = store.Write(ctx)
		require.NoError(t, err)
		require.NoError(t, w.Account.UpdateBalance(ctx, created.ID, decimal.RequireFromString(balance)))
		require.NoError(t, w.Commit(ctx))

		found, err := store.Reader().Accounts.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.Balance.Equal(decimal.RequireFromString(balance)), "got %s", found.Balance)
	}

	w, err = store.Write(ctx)
	require.NoError(t, err)
	assert.Error(t, w.Account.UpdateBalance(ctx, created.ID, decimal.New(1, 12)), "one past the column limit")
	require.NoError(t, w.Rollback(ctx))
}

func TestPostgres_ViewSeesOneSnapshot(t *testing.T) {
	store := newPostgresStorage(t)
	ctx := context.Background()

	w, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := w.Account.Create(ctx, &account.AccountCreate{
		ID: uuid.Must(uuid.NewV4()), Email: "a@x.com", PasswordHash: "hash", FirstName: "Ann",
	})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	err = store.View(ctx, func(r *Reader) error {
		before, err := r.Accounts.FindByID(ctx, created.ID)
		require.NoError(t, err)

		w, err := store.Write(ctx)
		require.NoError(t, err)
		require.NoError(t, w.Transaction.Insert(ctx, &transaction.Transaction{
			ID: uuid.Must(uuid.NewV4()), AccountID: created.ID, Type: "Income", Category: "Income",
			Value: decimal.RequireFromString("5"), Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		}))
		require.NoError(t, w.Account.UpdateBalance(ctx, created.ID, decimal.RequireFromString("5")))
		require.NoError(t, w.Commit(ctx))

		after, err := r.Accounts.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, after.Balance.Equal(before.Balance))
		rows, err := r.Transactions.ListByAccount(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)
		return nil
	})
	require.NoError(t, err)

	rows, err := store.Reader().Transactions.ListByAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
