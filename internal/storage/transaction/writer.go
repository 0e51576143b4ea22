package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

type Writer struct {
	tx bob.Executor
	Reader
}

var _ IWriter = (*Writer)(nil)

func NewWriter(tx bob.Executor) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

func (w *Writer) Insert(ctx context.Context, transaction *Transaction) error {
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}
	query := psql.Insert(
		im.Into("transactions", "id", "account_id", "type", "category", "value", "date", "comment", "created_at"),
		im.Values(
			psql.Arg(transaction.ID),
			psql.Arg(transaction.AccountID),
			psql.Arg(transaction.Type),
			psql.Arg(transaction.Category),
			psql.Arg(transaction.Value),
			psql.Arg(transaction.Date.Format(dateLayout)),
			psql.Arg(transaction.Comment),
			psql.Arg(transaction.CreatedAt),
		),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Update replaces every mutable column. The id, owner and creation time
// never change.
func (w *Writer) Update(ctx context.Context, transaction *Transaction) error {
	query := psql.Update(
		um.Table("transactions"),
		um.SetCol("type").ToArg(transaction.Type),
		um.SetCol("category").ToArg(transaction.Category),
		um.SetCol("value").ToArg(transaction.Value),
		um.SetCol("date").ToArg(transaction.Date.Format(dateLayout)),
		um.SetCol("comment").ToArg(transaction.Comment),
		um.Where(psql.Quote("id").EQ(psql.Arg(transaction.ID))),
		um.Where(psql.Quote("account_id").EQ(psql.Arg(transaction.AccountID))),
	)
	return w.expectOne(ctx, query, "update")
}

func (w *Writer) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	query := psql.Delete(
		dm.From("transactions"),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("account_id").EQ(psql.Arg(accountID))),
	)
	return w.expectOne(ctx, query, "delete")
}

func (w *Writer) expectOne(ctx context.Context, query bob.Query, verb string) error {
	result, err := bob.Exec(ctx, w.tx, query)
	if err != nil {
		return fmt.Errorf("%s transaction: %w", verb, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
