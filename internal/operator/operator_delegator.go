package operator

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/metrics"
	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/storage"
)

// ErrStopped is returned by Process once Stop has been called.
var ErrStopped = errors.New("operator: stopped")

const queueSize = 256

// OperatorDelegator owns one queue per Operator and routes every action to
// the queue chosen by its shard key. Actions on the same account therefore
// run one after another in this process; the storage lock covers the rest.
type OperatorDelegator struct {
	storage    storage.Backend
	metrics    *metrics.Metrics
	logger     *logrus.Logger
	queues     []chan ActionItem
	numWorkers int

	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewOperatorDelegator(s storage.Backend, numWorkers int, m *metrics.Metrics, logger *logrus.Logger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	queues := make([]chan ActionItem, numWorkers)
	for i := range queues {
		queues[i] = make(chan ActionItem, queueSize)
	}
	return &OperatorDelegator{
		storage:    s,
		metrics:    m,
		logger:     logger,
		queues:     queues,
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queues[i], i, d.metrics, d.logger)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop rejects new actions and waits for queued ones to finish.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		for _, queue := range d.queues {
			close(queue)
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
}

func (d *OperatorDelegator) shard(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(d.numWorkers))
}

// Process queues the action and waits for its result or for ctx to end.
// An action whose ctx ended before a worker reached it is not performed.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	if err := d.enqueue(ctx, d.shard(action.ShardKey()), item); err != nil {
		return err
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OperatorDelegator) enqueue(ctx context.Context, shard int, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queues[shard] <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
