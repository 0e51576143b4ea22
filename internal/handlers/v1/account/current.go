package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/service"
)

type currentGetter interface {
	Current(ctx context.Context, accessToken string) (service.Account, error)
}

type CurrentInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

type CurrentOutput struct {
	Body struct {
		User UserWithLedger `json:"user"`
	}
}

// CurrentHandler handles GET /v1/users/current.
type CurrentHandler struct {
	Service currentGetter
}

func NewCurrentHandler(svc currentGetter) *CurrentHandler {
	return &CurrentHandler{Service: svc}
}

func (h *CurrentHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "current-user",
		Method:      http.MethodGet,
		Path:        basePath + "/current",
		Summary:     "Current account",
		Description: "Returns the caller's account summary with balance and transactions.",
		Tags:        []string{"Users"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *CurrentHandler) handle(ctx context.Context, input *CurrentInput) (*CurrentOutput, error) {
	current, err := h.Service.Current(ctx, common.BearerToken(input.Authorization))
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}

	out := &CurrentOutput{}
	out.Body.User = fromAccountWithLedger(current)
	return out, nil
}
