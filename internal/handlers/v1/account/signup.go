package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/service"
)

type registerer interface {
	Register(ctx context.Context, reg service.Registration) (service.Account, error)
}

// SignupBody is the request body for registering.
type SignupBody struct {
	Email     string `json:"email,omitempty" doc:"Unique email"`
	Password  string `json:"password,omitempty" doc:"At least 6 characters"`
	FirstName string `json:"firstName,omitempty" doc:"At least 3 characters"`
}

type SignupInput struct {
	Body SignupBody
}

type SignupOutput struct {
	Body struct {
		User User `json:"user"`
	}
}

// SignupHandler handles POST /v1/users/signup.
type SignupHandler struct {
	Service registerer
}

func NewSignupHandler(svc registerer) *SignupHandler {
	return &SignupHandler{Service: svc}
}

func (h *SignupHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "signup",
		Method:        http.MethodPost,
		Path:          basePath + "/signup",
		Summary:       "Register",
		Description:   "Creates a logged out account with a zero balance.",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *SignupHandler) handle(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	created, err := h.Service.Register(ctx, service.Registration{
		Email:     input.Body.Email,
		Password:  input.Body.Password,
		FirstName: input.Body.FirstName,
	})
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}

	out := &SignupOutput{}
	out.Body.User = fromAccount(created)
	return out, nil
}
