package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
)

type logouter interface {
	Logout(ctx context.Context, accessToken string) error
}

type LogoutInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// LogoutHandler handles GET /v1/users/logout.
type LogoutHandler struct {
	Service logouter
}

func NewLogoutHandler(svc logouter) *LogoutHandler {
	return &LogoutHandler{Service: svc}
}

func (h *LogoutHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "logout",
		Method:        http.MethodGet,
		Path:          basePath + "/logout",
		Summary:       "Log out",
		Description:   "Clears both stored tokens.",
		Tags:          []string{"Users"},
		Security:      common.BearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *LogoutHandler) handle(ctx context.Context, input *LogoutInput) (*struct{}, error) {
	if err := h.Service.Logout(ctx, common.BearerToken(input.Authorization)); err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	return nil, nil
}
