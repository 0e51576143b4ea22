package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/statistics"
	"github.com/carson-networks/wallet-server/internal/storage"
)

// TransactionService applies ledger operations and answers statistics.
type TransactionService struct {
	storage  storage.Backend
	operator Processor
	accounts *AccountService
	cache    *statistics.Cache
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store storage.Backend, op Processor, accounts *AccountService, cache *statistics.Cache) *TransactionService {
	return &TransactionService{
		storage:  store,
		operator: op,
		accounts: accounts,
		cache:    cache,
	}
}

// Add validates the draft and appends it to the caller's ledger.
func (s *TransactionService) Add(ctx context.Context, accessToken string, draft ledger.Draft) (LedgerState, error) {
	accountID, err := s.accounts.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return LedgerState{}, err
	}
	newID, err := uuid.NewV4()
	if err != nil {
		return LedgerState{}, apperr.Unexpected(err)
	}

	action := &actions.AddTransaction{AccountID: accountID, AccessToken: accessToken, Draft: draft, NewID: newID}
	if err := s.mutate(ctx, accountID, action); err != nil {
		return LedgerState{}, err
	}
	logging.GetLogData(ctx).AddData("transactionID", newID.String())
	return ledgerState(action.Ledger), nil
}

// Update replaces the transaction named by transactionID with draft.
func (s *TransactionService) Update(ctx context.Context, accessToken, transactionID string, draft ledger.Draft) (LedgerState, error) {
	accountID, err := s.accounts.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return LedgerState{}, err
	}
	id, err := parseTransactionID(transactionID)
	if err != nil {
		return LedgerState{}, s.authorizeThen(ctx, accessToken, err)
	}

	action := &actions.UpdateTransaction{AccountID: accountID, AccessToken: accessToken, TransactionID: id, Draft: draft}
	if err := s.mutate(ctx, accountID, action); err != nil {
		return LedgerState{}, err
	}
	return ledgerState(action.Ledger), nil
}

// Delete removes the transaction named by transactionID.
func (s *TransactionService) Delete(ctx context.Context, accessToken, transactionID string) (LedgerState, error) {
	accountID, err := s.accounts.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return LedgerState{}, err
	}
	id, err := parseTransactionID(transactionID)
	if err != nil {
		return LedgerState{}, s.authorizeThen(ctx, accessToken, err)
	}

	action := &actions.DeleteTransaction{AccountID: accountID, AccessToken: accessToken, TransactionID: id}
	if err := s.mutate(ctx, accountID, action); err != nil {
		return LedgerState{}, err
	}
	return ledgerState(action.Ledger), nil
}

// Categories returns the fixed category list.
func (s *TransactionService) Categories(ctx context.Context, accessToken string) ([]ledger.Category, error) {
	if _, err := s.accounts.Authenticate(ctx, accessToken); err != nil {
		return nil, err
	}
	return ledger.Categories(), nil
}

// Statistics totals the caller's transactions dated in month/year. A
// malformed month or year yields all zero totals.
func (s *TransactionService) Statistics(ctx context.Context, accessToken, month, year string) (statistics.Statistics, error) {
	a, err := s.accounts.Authenticate(ctx, accessToken)
	if err != nil {
		return statistics.Statistics{}, err
	}
	period, ok := statistics.ParsePeriod(month, year)
	if !ok {
		return statistics.Zero(), nil
	}

	stats, err := s.cache.Fetch(ctx, a.ID, period, func(ctx context.Context) (statistics.Statistics, error) {
		rows, err := s.storage.Reader().Transactions.ListByAccount(ctx, a.ID)
		if err != nil {
			return statistics.Statistics{}, err
		}
		return statistics.Aggregate(actions.LedgerFromRows(a.Balance, rows).Transactions, period), nil
	})
	if err != nil {
		return statistics.Statistics{}, translate(err)
	}
	return stats, nil
}

func (s *TransactionService) mutate(ctx context.Context, accountID uuid.UUID, action actions.IAction) error {
	logData := logging.GetLogData(ctx)
	logData.AddData("accountID", accountID.String())

	err := s.operator.Process(ctx, action)
	// A caller that gives up does not stop the worker, which may still
	// commit, so the cached statistics are dropped in that case too.
	if err == nil || ctx.Err() != nil {
		if invErr := s.cache.Invalidate(context.WithoutCancel(ctx), accountID); invErr != nil {
			logData.AddData("cacheInvalidateError", invErr.Error())
		}
	}
	return translate(err)
}

// authorizeThen reports an unauthorized caller before err, so a bad path
// id never tells a stranger anything.
func (s *TransactionService) authorizeThen(ctx context.Context, accessToken string, err error) error {
	if _, authErr := s.accounts.Authenticate(ctx, accessToken); authErr != nil {
		return authErr
	}
	return err
}

func parseTransactionID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, apperr.NotFound(ledger.ErrTransactionNotFound)
	}
	return id, nil
}
