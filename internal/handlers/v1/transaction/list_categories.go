package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/ledger"
)

type categoryLister interface {
	Categories(ctx context.Context, accessToken string) ([]ledger.Category, error)
}

type ListCategoriesInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

type ListCategoriesOutput struct {
	Body struct {
		Categories []string `json:"categories"`
	}
}

// ListCategoriesHandler handles GET /v1/users/categories.
type ListCategoriesHandler struct {
	Service categoryLister
}

func NewListCategoriesHandler(svc categoryLister) *ListCategoriesHandler {
	return &ListCategoriesHandler{Service: svc}
}

func (h *ListCategoriesHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        basePath + "/categories",
		Summary:     "List categories",
		Tags:        []string{"Transactions"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *ListCategoriesHandler) handle(ctx context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	categories, err := h.Service.Categories(ctx, common.BearerToken(input.Authorization))
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}

	out := &ListCategoriesOutput{}
	out.Body.Categories = make([]string, len(categories))
	for i, c := range categories {
		out.Body.Categories[i] = string(c)
	}
	return out, nil
}
