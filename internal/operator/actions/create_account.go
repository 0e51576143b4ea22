package actions

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/wallet-server/internal/storage"
	"github.com/carson-networks/wallet-server/internal/storage/account"
)

// CreateAccount registers a new account with a zero balance and no session.
type CreateAccount struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FirstName    string

	Created *account.Account
}

func (c *CreateAccount) Name() string { return "CreateAccount" }

// ShardKey serializes registrations for the same email.
func (c *CreateAccount) ShardKey() string { return "email:" + strings.ToLower(c.Email) }

func (c *CreateAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Account.Create(ctx, &account.AccountCreate{
		ID:           c.ID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
	})
	if err != nil {
		return err
	}

	c.Created = created
	return nil
}
