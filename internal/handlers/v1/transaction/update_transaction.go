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

type transactionUpdater interface {
	Update(ctx context.Context, accessToken, transactionID string, draft ledger.Draft) (service.LedgerState, error)
}

type UpdateTransactionInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	TransactionID string `path:"transactionId" doc:"Transaction UUID"`
	Body          TransactionBody
}

// UpdateTransactionHandler handles PATCH /v1/users/transactions/{transactionId}.
// The body is a complete transaction, not a partial patch.
type UpdateTransactionHandler struct {
	Service transactionUpdater
}

func NewUpdateTransactionHandler(svc transactionUpdater) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{Service: svc}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        basePath + "/transactions/{transactionId}",
		Summary:     "Update transaction",
		Description: "Replaces a transaction and reconciles the balance.",
		Tags:        []string{"Transactions"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*LedgerOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("transactionID", input.TransactionID)
	endTimer := logData.AddTiming("updateTransactionMs")
	state, err := h.Service.Update(ctx, common.BearerToken(input.Authorization), input.TransactionID, input.Body.draft())
	endTimer()
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	return &LedgerOutput{Body: common.FromLedgerState(state)}, nil
}
