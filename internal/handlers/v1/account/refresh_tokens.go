package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/session"
)

type refresher interface {
	Refresh(ctx context.Context, refreshToken string) (session.Pair, error)
}

type RefreshTokensInput struct {
	Authorization string `header:"Authorization" doc:"Bearer refresh token"`
}

type RefreshTokensOutput struct {
	Body Tokens
}

// RefreshTokensHandler handles GET /v1/users/tokens.
type RefreshTokensHandler struct {
	Service refresher
}

func NewRefreshTokensHandler(svc refresher) *RefreshTokensHandler {
	return &RefreshTokensHandler{Service: svc}
}

func (h *RefreshTokensHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "refresh-tokens",
		Method:      http.MethodGet,
		Path:        basePath + "/tokens",
		Summary:     "Rotate tokens",
		Description: "Exchanges the current refresh token for a new token pair. Previously issued tokens stop working.",
		Tags:        []string{"Users"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *RefreshTokensHandler) handle(ctx context.Context, input *RefreshTokensInput) (*RefreshTokensOutput, error) {
	pair, err := h.Service.Refresh(ctx, common.BearerToken(input.Authorization))
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	return &RefreshTokensOutput{Body: Tokens{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}}, nil
}
