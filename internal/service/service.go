package service

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/statistics"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
)

// Processor runs write actions in a unit of work.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Tokens signs and verifies session tokens.
type Tokens interface {
	Issue(accountID uuid.UUID) (session.Pair, error)
	Parse(token string, kind session.Kind) (uuid.UUID, error)
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
}

// NewService creates a new Service. cache may be nil.
func NewService(store storage.Backend, op Processor, tokens Tokens, cache *statistics.Cache, bcryptCost int) *Service {
	accounts := NewAccountService(store, op, tokens, bcryptCost)
	return &Service{
		Transaction: NewTransactionService(store, op, accounts, cache),
		Account:     accounts,
	}
}

// translate maps storage sentinels onto the error taxonomy. Anything not
// already classified is unexpected.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, account.ErrEmailTaken):
		return apperr.Conflict(ErrEmailInUse)
	default:
		return apperr.Unexpected(err)
	}
}
