package actions

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
)

// IssueTokens replaces the account's token pair with a freshly signed one.
// Login leaves PresentedRefresh empty. Refresh sets it, and the stored
// refresh token must equal it exactly. Logins also get the ledger, read under
// the same lock as the account.
type IssueTokens struct {
	AccountID        uuid.UUID
	PresentedRefresh string
	Issuer           TokenIssuer

	Pair    session.Pair
	Account *account.Account
	Ledger  ledger.Ledger
}

func (i *IssueTokens) Name() string {
	if i.PresentedRefresh != "" {
		return "RefreshTokens"
	}
	return "IssueTokens"
}

func (i *IssueTokens) ShardKey() string { return accountShard(i.AccountID) }

func (i *IssueTokens) Perform(ctx context.Context, writer *storage.Writer) error {
	a, err := lockAccount(ctx, writer, i.AccountID)
	if err != nil {
		return err
	}
	if i.PresentedRefresh != "" && !session.Matches(a.RefreshToken, i.PresentedRefresh) {
		return apperr.Unauthorized(session.ErrNotAuthorized)
	}

	pair, err := i.Issuer.Issue(a.ID)
	if err != nil {
		return fmt.Errorf("issue tokens: %w", err)
	}
	a.AccessToken = null.From(pair.AccessToken)
	a.RefreshToken = null.From(pair.RefreshToken)
	if err := writer.Account.SetTokens(ctx, a.ID, a.AccessToken, a.RefreshToken); err != nil {
		return fmt.Errorf("store tokens: %w", err)
	}

	if i.PresentedRefresh == "" {
		if i.Ledger, err = loadLedger(ctx, writer, a); err != nil {
			return err
		}
	}

	i.Pair = pair
	i.Account = a
	return nil
}
