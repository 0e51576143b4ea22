package service

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/session"
)

// Account is the account summary returned to callers. Transactions is nil
// when the summary is returned from registration.
type Account struct {
	ID           uuid.UUID
	Email        string
	FirstName    string
	Balance      decimal.Decimal
	Transactions []ledger.Transaction
}

// Registration is the input for creating an account. Passwords are limited
// to 72 bytes, the most bcrypt accepts.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,maxbytes=72"`
	FirstName string `json:"firstName" validate:"required,min=3"`
}

// Credentials is the input for logging in.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// Session is the result of a successful login.
type Session struct {
	Tokens  session.Pair
	Account Account
}
