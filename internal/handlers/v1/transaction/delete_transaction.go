package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type transactionDeleter interface {
	Delete(ctx context.Context, accessToken, transactionID string) (service.LedgerState, error)
}

type DeleteTransactionInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	TransactionID string `path:"transactionId" doc:"Transaction UUID"`
}

// DeleteTransactionHandler handles DELETE /v1/users/transactions/{transactionId}.
type DeleteTransactionHandler struct {
	Service transactionDeleter
}

func NewDeleteTransactionHandler(svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{Service: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        basePath + "/transactions/{transactionId}",
		Summary:     "Delete transaction",
		Description: "Removes a transaction and reverses its effect on the balance.",
		Tags:        []string{"Transactions"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*LedgerOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("transactionID", input.TransactionID)
	endTimer := logData.AddTiming("deleteTransactionMs")
	state, err := h.Service.Delete(ctx, common.BearerToken(input.Authorization), input.TransactionID)
	endTimer()
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	return &LedgerOutput{Body: common.FromLedgerState(state)}, nil
}
