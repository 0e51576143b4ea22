package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
)

const uniqueViolation = "23505"

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

// FindByIDForUpdate locks the account row until the unit of work ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error) {
	return w.findOne(ctx,
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		sm.ForUpdate(),
	)
}

func (w *Writer) Create(ctx context.Context, create *AccountCreate) (*Account, error) {
	created := &Account{
		ID:           create.ID,
		Email:        create.Email,
		PasswordHash: create.PasswordHash,
		FirstName:    create.FirstName,
		Balance:      decimal.Zero,
		CreatedAt:    time.Now().UTC(),
	}
	query := psql.Insert(
		im.Into("accounts", "id", "email", "password_hash", "first_name", "balance", "created_at"),
		im.Values(
			psql.Arg(created.ID),
			psql.Arg(created.Email),
			psql.Arg(created.PasswordHash),
			psql.Arg(created.FirstName),
			psql.Arg(created.Balance),
			psql.Arg(created.CreatedAt),
		),
	)
	if _, err := bob.Exec(ctx, w.tx, query); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return created, nil
}

func (w *Writer) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	return w.update(ctx, id, um.SetCol("balance").ToArg(balance))
}

// SetTokens overwrites both token slots. A null value clears the slot.
func (w *Writer) SetTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken null.Val[string]) error {
	return w.update(ctx, id,
		um.SetCol("access_token").ToArg(accessToken),
		um.SetCol("refresh_token").ToArg(refreshToken),
	)
}

func (w *Writer) update(ctx context.Context, id uuid.UUID, sets ...bob.Mod[*dialect.UpdateQuery]) error {
	mods := append([]bob.Mod[*dialect.UpdateQuery]{um.Table("accounts")}, sets...)
	mods = append(mods, um.Where(psql.Quote("id").EQ(psql.Arg(id))))

	result, err := bob.Exec(ctx, w.tx, psql.Update(mods...))
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
