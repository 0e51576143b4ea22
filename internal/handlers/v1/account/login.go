package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type loginer interface {
	Login(ctx context.Context, creds service.Credentials) (service.Session, error)
}

// LoginBody is the request body for logging in.
type LoginBody struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

type LoginInput struct {
	Body LoginBody
}

type LoginOutput struct {
	Body struct {
		Tokens
		User UserWithLedger `json:"user"`
	}
}

// LoginHandler handles POST /v1/users/login.
type LoginHandler struct {
	Service loginer
}

func NewLoginHandler(svc loginer) *LoginHandler {
	return &LoginHandler{Service: svc}
}

func (h *LoginHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        basePath + "/login",
		Summary:     "Log in",
		Description: "Checks credentials and issues a new token pair, invalidating any previous one.",
		Tags:        []string{"Users"},
	}, h.handle)
}

func (h *LoginHandler) handle(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	endTimer := logging.GetLogData(ctx).AddTiming("loginMs")
	sess, err := h.Service.Login(ctx, service.Credentials{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	endTimer()
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}

	out := &LoginOutput{}
	out.Body.Tokens = Tokens{AccessToken: sess.Tokens.AccessToken, RefreshToken: sess.Tokens.RefreshToken}
	out.Body.User = fromAccountWithLedger(sess.Account)
	return out, nil
}
