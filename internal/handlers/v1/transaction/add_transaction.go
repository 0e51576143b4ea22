package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/ledger"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type transactionAdder interface {
	Add(ctx context.Context, accessToken string, draft ledger.Draft) (service.LedgerState, error)
}

type AddTransactionInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Body          TransactionBody
}

// AddTransactionHandler handles POST /v1/users/transactions.
type AddTransactionHandler struct {
	Service transactionAdder
}

func NewAddTransactionHandler(svc transactionAdder) *AddTransactionHandler {
	return &AddTransactionHandler{Service: svc}
}

func (h *AddTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-transaction",
		Method:        http.MethodPost,
		Path:          basePath + "/transactions",
		Summary:       "Add transaction",
		Description:   "Validates and appends a transaction, returning the new balance and transaction set.",
		Tags:          []string{"Transactions"},
		Security:      common.BearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *AddTransactionHandler) handle(ctx context.Context, input *AddTransactionInput) (*LedgerOutput, error) {
	logData := logging.GetLogData(ctx)
	endTimer := logData.AddTiming("addTransactionMs")
	state, err := h.Service.Add(ctx, common.BearerToken(input.Authorization), input.Body.draft())
	endTimer()
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	logData.AddData("transactionCount", len(state.Transactions))
	return &LedgerOutput{Body: common.FromLedgerState(state)}, nil
}
