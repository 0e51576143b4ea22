package operator

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/metrics"
	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/storage"
)

// Operator is the worker that processes items from one shard queue.
type Operator struct {
	storage storage.Backend
	queue   chan ActionItem
	shard   int
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

func NewOperator(s storage.Backend, queue chan ActionItem, shard int, m *metrics.Metrics, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		shard:   shard,
		metrics: m,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		start := time.Now()
		err := o.processItem(item)
		o.observe(item.action, err, time.Since(start))
		item.response <- ActionItemResponse{err: err}
	}
}

// processItem runs one action in its own unit of work. The unit of work
// commits only when Perform succeeds.
func (o *Operator) processItem(item ActionItem) error {
	if err := item.ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		return err
	}

	if err := item.action.Perform(item.ctx, writer); err != nil {
		_ = writer.Rollback(item.ctx)
		return err
	}

	return writer.Commit(item.ctx)
}

func (o *Operator) observe(action actions.IAction, err error, elapsed time.Duration) {
	o.metrics.ObserveAction(action.Name(), err, elapsed)

	entry := o.logger.WithFields(logrus.Fields{
		"action":     action.Name(),
		"shard":      o.shard,
		"durationMs": elapsed.Milliseconds(),
	})
	switch {
	case err == nil:
		entry.Debug("Operator.Action.Complete")
	case apperr.KindOf(err) == apperr.KindUnexpected:
		entry.WithError(err).Error("Operator.Action.Error")
	default:
		entry.WithField("kind", apperr.KindOf(err).String()).Info("Operator.Action.Rejected")
	}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
