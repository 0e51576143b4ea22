package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
	"github.com/carson-networks/wallet-server/internal/validation"
)

const (
	ErrEmailInUse         = "Email in use"
	ErrWrongCredentials   = "Email or password is wrong"
	invalidRegistration   = "invalid registration"
	invalidCredentialsMsg = "invalid credentials"
)

// AccountService handles registration and the session state machine.
type AccountService struct {
	storage    storage.Backend
	operator   Processor
	tokens     Tokens
	bcryptCost int
	validate   *validator.Validate
}

// NewAccountService creates a new AccountService.
func NewAccountService(store storage.Backend, op Processor, tokens Tokens, bcryptCost int) *AccountService {
	return &AccountService{
		storage:    store,
		operator:   op,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		validate:   validation.New(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a logged out account with a zero balance.
func (s *AccountService) Register(ctx context.Context, reg Registration) (Account, error) {
	reg.Email = normalizeEmail(reg.Email)
	if err := validation.Struct(s.validate, reg, invalidRegistration, nil); err != nil {
		return Account{}, err
	}

	hash, err := session.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return Account{}, apperr.Unexpected(err)
	}
	id, err := uuid.NewV4()
	if err != nil {
		return Account{}, apperr.Unexpected(err)
	}

	action := &actions.CreateAccount{
		ID:           id,
		Email:        reg.Email,
		PasswordHash: hash,
		FirstName:    reg.FirstName,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return Account{}, translate(err)
	}
	logging.GetLogData(ctx).AddData("accountID", id.String())

	return Account{
		ID:        action.Created.ID,
		Email:     action.Created.Email,
		FirstName: action.Created.FirstName,
		Balance:   action.Created.Balance,
	}, nil
}

// Login checks the credentials and replaces the account's token pair. An
// unknown email and a wrong password fail identically.
func (s *AccountService) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validation.Struct(s.validate, creds, invalidCredentialsMsg, nil); err != nil {
		return Session{}, err
	}

	found, err := s.storage.Reader().Accounts.FindByEmail(ctx, creds.Email)
	if err != nil && !errors.Is(err, account.ErrNotFound) {
		return Session{}, translate(err)
	}
	hash := ""
	if found != nil {
		hash = found.PasswordHash
	}
	ok, err := session.CheckPassword(hash, creds.Password)
	if err != nil {
		return Session{}, apperr.Unexpected(err)
	}
	if !ok {
		return Session{}, apperr.Unauthorized(ErrWrongCredentials)
	}

	action := &actions.IssueTokens{AccountID: found.ID, Issuer: s.tokens}
	if err := s.operator.Process(ctx, action); err != nil {
		return Session{}, translate(err)
	}
	logging.GetLogData(ctx).AddData("accountID", found.ID.String())

	return Session{Tokens: action.Pair, Account: summarize(action.Account, action.Ledger)}, nil
}

// Refresh rotates both tokens. The presented refresh token must be the one
// currently stored, so a rotated-out token is rejected even before expiry.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (session.Pair, error) {
	accountID, err := s.tokens.Parse(refreshToken, session.KindRefresh)
	if err != nil {
		return session.Pair{}, err
	}

	action := &actions.IssueTokens{AccountID: accountID, PresentedRefresh: refreshToken, Issuer: s.tokens}
	if err := s.operator.Process(ctx, action); err != nil {
		return session.Pair{}, translate(err)
	}
	logging.GetLogData(ctx).AddData("accountID", accountID.String())
	return action.Pair, nil
}

// Logout clears both stored tokens.
func (s *AccountService) Logout(ctx context.Context, accessToken string) error {
	accountID, err := s.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return err
	}
	logging.GetLogData(ctx).AddData("accountID", accountID.String())
	return translate(s.operator.Process(ctx, &actions.RevokeTokens{AccountID: accountID, AccessToken: accessToken}))
}

// Current returns the summary of the account owning accessToken. The token
// check, the balance and the history all come from one read snapshot.
func (s *AccountService) Current(ctx context.Context, accessToken string) (Account, error) {
	accountID, err := s.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return Account{}, err
	}

	var current Account
	err = s.storage.View(ctx, func(r *storage.Reader) error {
		a, err := checkAccessToken(ctx, r, accountID, accessToken)
		if err != nil {
			return err
		}
		rows, err := r.Transactions.ListByAccount(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		current = summarize(a, actions.LedgerFromRows(a.Balance, rows))
		return nil
	})
	if err != nil {
		return Account{}, translate(err)
	}
	logging.GetLogData(ctx).AddData("accountID", accountID.String())
	return current, nil
}

// Authenticate resolves a presented access token to its account. The token
// must verify and must equal the one stored for the account.
func (s *AccountService) Authenticate(ctx context.Context, accessToken string) (*account.Account, error) {
	accountID, err := s.tokens.Parse(accessToken, session.KindAccess)
	if err != nil {
		return nil, err
	}
	a, err := checkAccessToken(ctx, s.storage.Reader(), accountID, accessToken)
	if err != nil {
		return nil, err
	}
	logging.GetLogData(ctx).AddData("accountID", a.ID.String())
	return a, nil
}

func checkAccessToken(ctx context.Context, r *storage.Reader, accountID uuid.UUID, accessToken string) (*account.Account, error) {
	a, err := r.Accounts.FindByID(ctx, accountID)
	if errors.Is(err, account.ErrNotFound) {
		return nil, apperr.Unauthorized(session.ErrNotAuthorized)
	}
	if err != nil {
		return nil, translate(err)
	}
	if !session.Matches(a.AccessToken, accessToken) {
		return nil, apperr.Unauthorized(session.ErrNotAuthorized)
	}
	return a, nil
}

func summarize(a *account.Account, l ledger.Ledger) Account {
	return Account{
		ID:           a.ID,
		Email:        a.Email,
		FirstName:    a.FirstName,
		Balance:      l.Balance,
		Transactions: l.Transactions,
	}
}
