package operator

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/wallet-server/internal/metrics"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/storage/memory"
)

// bumpBalance is a read-modify-write without its own locking, so lost
// updates show up unless the operator and storage serialize it.
type bumpBalance struct {
	accountID uuid.UUID
	fail      bool
}

func (b *bumpBalance) Name() string     { return "BumpBalance" }
func (b *bumpBalance) ShardKey() string { return b.accountID.String() }

func (b *bumpBalance) Perform(ctx context.Context, writer *storage.Writer) error {
	a, err := writer.Account.FindByIDForUpdate(ctx, b.accountID)
	if err != nil {
		return err
	}
	if err := writer.Account.UpdateBalance(ctx, b.accountID, a.Balance.Add(decimal.NewFromInt(1))); err != nil {
		return err
	}
	if b.fail {
		return errors.New("fail after write")
	}
	return nil
}

type blockingAction struct {
	release chan struct{}
}

func (b *blockingAction) Name() string     { return "Blocking" }
func (b *blockingAction) ShardKey() string { return "block" }

func (b *blockingAction) Perform(context.Context, *storage.Writer) error {
	<-b.release
	return nil
}

func newTestDelegator(t *testing.T, workers int) (*OperatorDelegator, *memory.Store, *metrics.Metrics, uuid.UUID) {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()
	w, err := store.Write(ctx)
	require.NoError(t, err)
	created, err := w.Account.Create(ctx, &account.AccountCreate{ID: uuid.Must(uuid.NewV4()), Email: "a@x.com"})
	require.NoError(t, err)
	require.NoError(t, w.Commit(ctx))

	logger := logrus.New()
	logger.Out = io.Discard
	m := metrics.NewMetrics()
	d := NewOperatorDelegator(store, workers, m, logger)
	d.Start()
	t.Cleanup(d.Stop)
	return d, store, m, created.ID
}

func TestProcess_ConcurrentSameAccountActionsDoNotLoseUpdates(t *testing.T) {
	d, store, _, id := newTestDelegator(t, 4)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.Process(context.Background(), &bumpBalance{accountID: id}))
		}()
	}
	wg.Wait()

	a, err := store.Reader().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, a.Balance.Equal(decimal.NewFromInt(n)))
}

func TestProcess_FailedActionRollsBack(t *testing.T) {
	d, store, m, id := newTestDelegator(t, 1)

	err := d.Process(context.Background(), &bumpBalance{accountID: id, fail: true})

	assert.EqualError(t, err, "fail after write")
	a, err := store.Reader().Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionCounter("BumpBalance", metrics.ResultError)))
}

func TestProcess_RecordsSuccessMetric(t *testing.T) {
	d, _, m, id := newTestDelegator(t, 2)

	require.NoError(t, d.Process(context.Background(), &bumpBalance{accountID: id}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ActionCounter("BumpBalance", metrics.ResultOK)))
}

func TestProcess_ContextEndsWhileWaiting(t *testing.T) {
	d, _, _, _ := newTestDelegator(t, 1)
	blocker := &blockingAction{release: make(chan struct{})}
	defer close(blocker.release)

	go func() { _ = d.Process(context.Background(), blocker) }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := d.Process(ctx, &blockingAction{release: blocker.release})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcess_AfterStop(t *testing.T) {
	d, _, _, id := newTestDelegator(t, 2)
	d.Stop()

	err := d.Process(context.Background(), &bumpBalance{accountID: id})

	assert.ErrorIs(t, err, ErrStopped)
}

func TestShard_StableAndInRange(t *testing.T) {
	d := NewOperatorDelegator(memory.NewStore(), 3, nil, logrus.New())

	for _, key := range []string{"", "account:1", "email:a@x.com"} {
		s := d.shard(key)
		assert.Equal(t, s, d.shard(key))
		assert.GreaterOrEqual(t, s, 0)
		assert.Less(t, s, 3)
	}
}
