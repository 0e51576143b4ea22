package account

import (
	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/service"
)

const basePath = "/v1/users"

// User is the API response model for an account summary.
type User struct {
	Email     string `json:"email" doc:"Account email"`
	FirstName string `json:"firstName" doc:"Display name"`
}

// UserWithLedger is an account summary including balance and transactions.
type UserWithLedger struct {
	User
	Balance      string               `json:"balance" doc:"Signed decimal balance"`
	Transactions []common.Transaction `json:"transactions"`
}

// Tokens is an issued access and refresh token pair.
type Tokens struct {
	AccessToken  string `json:"accessToken" doc:"Short lived bearer token for wallet operations"`
	RefreshToken string `json:"refreshToken" doc:"Long lived bearer token for GET /v1/users/tokens"`
}

func fromAccount(a service.Account) User {
	return User{Email: a.Email, FirstName: a.FirstName}
}

func fromAccountWithLedger(a service.Account) UserWithLedger {
	return UserWithLedger{
		User:         fromAccount(a),
		Balance:      a.Balance.StringFixed(2),
		Transactions: common.FromTransactions(a.Transactions),
	}
}
