package account

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

// Account represents an account record.
type Account struct {
	ID           uuid.UUID        `db:"id"`
	Email        string           `db:"email"`
	PasswordHash string           `db:"password_hash"`
	FirstName    string           `db:"first_name"`
	Balance      decimal.Decimal  `db:"balance"`
	AccessToken  null.Val[string] `db:"access_token"`
	RefreshToken null.Val[string] `db:"refresh_token"`
	CreatedAt    time.Time        `db:"created_at"`
}

// AccountCreate is the input for registering a new account. Balance starts
// at zero and both token slots start empty.
type AccountCreate struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string
}

// IReader defines the read side of account storage.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
}

// IWriter is only valid inside a storage unit of work.
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	Create(ctx context.Context, create *AccountCreate) (*Account, error)
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	SetTokens(ctx context.Context, id uuid.UUID, accessToken, refreshToken null.Val[string]) error
}

var columns = []any{
	"id", "email", "password_hash", "first_name", "balance",
	"access_token", "refresh_token", "created_at",
}
