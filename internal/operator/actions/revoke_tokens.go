package actions

import (
	"context"
	"fmt"

	"github.com/aarondl/opt/null"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/storage"
)

// RevokeTokens logs the account out by clearing both token slots.
type RevokeTokens struct {
	AccountID   uuid.UUID
	AccessToken string
}

func (r *RevokeTokens) Name() string { return "RevokeTokens" }

func (r *RevokeTokens) ShardKey() string { return accountShard(r.AccountID) }

func (r *RevokeTokens) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := lockAuthorized(ctx, writer, r.AccountID, r.AccessToken); err != nil {
		return err
	}
	if err := writer.Account.SetTokens(ctx, r.AccountID, null.Val[string]{}, null.Val[string]{}); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	return nil
}
