package actions

import (
	"context"
	"strconv"
	"testing"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/memory"
)

type counterIssuer struct {
	n int
}

func (c *counterIssuer) Issue(accountID uuid.UUID) (session.Pair, error) {
	c.n++
	suffix := accountID.String() + "-" + strconv.Itoa(c.n)
	return session.Pair{AccessToken: "access-" + suffix, RefreshToken: "refresh-" + suffix}, nil
}

// perform runs action in one unit of work the way the operator does.
func perform(t *testing.T, store *memory.Store, action IAction) error {
	t.Helper()
	ctx := context.Background()
	w, err := store.Write(ctx)
	require.NoError(t, err)
	if err := action.Perform(ctx, w); err != nil {
		require.NoError(t, w.Rollback(ctx))
		return err
	}
	return w.Commit(ctx)
}

func loggedIn(t *testing.T, store *memory.Store) (uuid.UUID, session.Pair) {
	t.Helper()
	create := &CreateAccount{ID: uuid.Must(uuid.NewV4()), Email: "a@x.com", PasswordHash: "hash", FirstName: "Ann"}
	require.NoError(t, perform(t, store, create))
	issue := &IssueTokens{AccountID: create.ID, Issuer: &counterIssuer{}}
	require.NoError(t, perform(t, store, issue))
	return create.ID, issue.Pair
}

func draft(txType ledger.Type, category ledger.Category, value, date string) ledger.Draft {
	return ledger.Draft{Type: string(txType), Category: string(category), Value: value, Date: date}
}

func storedLedger(t *testing.T, store *memory.Store, id uuid.UUID) ledger.Ledger {
	t.Helper()
	ctx := context.Background()
	a, err := store.Reader().Accounts.FindByID(ctx, id)
	require.NoError(t, err)
	rows, err := store.Reader().Transactions.ListByAccount(ctx, id)
	require.NoError(t, err)
	return LedgerFromRows(a.Balance, rows)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, perform(t, store, &CreateAccount{ID: uuid.Must(uuid.NewV4()), Email: "a@x.com"}))

	err := perform(t, store, &CreateAccount{ID: uuid.Must(uuid.NewV4()), Email: "a@x.com"})

	assert.ErrorIs(t, err, account.ErrEmailTaken)
}

func TestIssueTokens_RefreshRequiresStoredToken(t *testing.T) {
	store := memory.NewStore()
	id, first := loggedIn(t, store)
	issuer := &counterIssuer{n: 10}

	rotate := &IssueTokens{AccountID: id, PresentedRefresh: first.RefreshToken, Issuer: issuer}
	require.NoError(t, perform(t, store, rotate))
	assert.NotEqual(t, first, rotate.Pair)
	assert.Equal(t, "RefreshTokens", rotate.Name())

	replay := &IssueTokens{AccountID: id, PresentedRefresh: first.RefreshToken, Issuer: issuer}
	err := perform(t, store, replay)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	a, err := store.Reader().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, rotate.Pair.AccessToken, a.AccessToken.GetOr(""))
	assert.Equal(t, rotate.Pair.RefreshToken, a.RefreshToken.GetOr(""))
}

func TestRevokeTokens_ClearsBothSlots(t *testing.T) {
	store := memory.NewStore()
	id, pair := loggedIn(t, store)

	require.NoError(t, perform(t, store, &RevokeTokens{AccountID: id, AccessToken: pair.AccessToken}))

	a, err := store.Reader().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, a.AccessToken.IsNull())
	assert.True(t, a.RefreshToken.IsNull())

	err = perform(t, store, &RevokeTokens{AccountID: id, AccessToken: pair.AccessToken})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestLedgerActions_PersistBalanceAndRows(t *testing.T) {
	store := memory.NewStore()
	id, pair := loggedIn(t, store)

	add := &AddTransaction{AccountID: id, AccessToken: pair.AccessToken, NewID: uuid.Must(uuid.NewV4()),
		Draft: draft(ledger.TypeIncome, ledger.CategoryIncome, "500", "2024-01-05")}
	require.NoError(t, perform(t, store, add))
	expense := &AddTransaction{AccountID: id, AccessToken: pair.AccessToken, NewID: uuid.Must(uuid.NewV4()),
		Draft: draft(ledger.TypeExpense, ledger.CategoryCar, "120", "2024-01-10")}
	require.NoError(t, perform(t, store, expense))

	stored := storedLedger(t, store, id)
	assert.True(t, expense.Ledger.Balance.Equal(stored.Balance))
	assert.Equal(t, []uuid.UUID{add.Transaction.ID, expense.Transaction.ID},
		[]uuid.UUID{stored.Transactions[0].ID, stored.Transactions[1].ID})
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("380")))

	update := &UpdateTransaction{AccountID: id, AccessToken: pair.AccessToken, TransactionID: expense.Transaction.ID,
		Draft: draft(ledger.TypeExpense, ledger.CategoryLeisure, "100", "2024-01-11")}
	require.NoError(t, perform(t, store, update))
	stored = storedLedger(t, store, id)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("400")))
	assert.Equal(t, ledger.CategoryLeisure, stored.Transactions[1].Category)

	del := &DeleteTransaction{AccountID: id, AccessToken: pair.AccessToken, TransactionID: add.Transaction.ID}
	require.NoError(t, perform(t, store, del))
	stored = storedLedger(t, store, id)
	assert.True(t, stored.Balance.Equal(decimal.RequireFromString("-100")))
	assert.Len(t, stored.Transactions, 1)
	assert.True(t, stored.Consistent())
}

func TestLedgerActions_RejectStaleAccessToken(t *testing.T) {
	store := memory.NewStore()
	id, stale := loggedIn(t, store)
	require.NoError(t, perform(t, store, &IssueTokens{AccountID: id, Issuer: &counterIssuer{n: 5}}))

	for _, action := range []IAction{
		&AddTransaction{AccountID: id, AccessToken: stale.AccessToken, NewID: uuid.Must(uuid.NewV4()),
			Draft: draft(ledger.TypeIncome, ledger.CategoryIncome, "1", "2024-01-01")},
		&UpdateTransaction{AccountID: id, AccessToken: stale.AccessToken, TransactionID: uuid.Must(uuid.NewV4())},
		&DeleteTransaction{AccountID: id, AccessToken: stale.AccessToken, TransactionID: uuid.Must(uuid.NewV4())},
		&RevokeTokens{AccountID: id, AccessToken: stale.AccessToken},
	} {
		t.Run(action.Name(), func(t *testing.T) {
			err := perform(t, store, action)
			assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		})
	}
	assert.Empty(t, storedLedger(t, store, id).Transactions)
}

func TestLedgerActions_FailuresLeaveStorageUntouched(t *testing.T) {
	store := memory.NewStore()
	id, pair := loggedIn(t, store)
	require.NoError(t, perform(t, store, &AddTransaction{AccountID: id, AccessToken: pair.AccessToken, NewID: uuid.Must(uuid.NewV4()),
		Draft: draft(ledger.TypeIncome, ledger.CategoryIncome, "10", "2024-01-01")}))
	before := storedLedger(t, store, id)

	invalid := perform(t, store, &AddTransaction{AccountID: id, AccessToken: pair.AccessToken, NewID: uuid.Must(uuid.NewV4()),
		Draft: draft(ledger.TypeIncome, "Travel", "10", "2024-01-01")})
	missing := perform(t, store, &DeleteTransaction{AccountID: id, AccessToken: pair.AccessToken, TransactionID: uuid.Must(uuid.NewV4())})

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(invalid))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(missing))
	assert.Equal(t, before, storedLedger(t, store, id))
}

func TestLockAccount_UnknownAccountIsUnauthorized(t *testing.T) {
	store := memory.NewStore()

	err := perform(t, store, &IssueTokens{AccountID: uuid.Must(uuid.NewV4()), Issuer: &counterIssuer{}})

	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestToLedgerTransaction_NormalizesDateZone(t *testing.T) {
	tx := ToLedgerTransaction(toRow(uuid.Nil, ledger.Transaction{Comment: null.From("x")}))
	assert.Equal(t, "UTC", tx.Date.Location().String())
	assert.Equal(t, "x", tx.Comment.GetOr(""))
}
