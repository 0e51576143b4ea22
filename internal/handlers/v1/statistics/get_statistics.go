package statistics

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/common"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/statistics"
)

type statisticsGetter interface {
	Statistics(ctx context.Context, accessToken, month, year string) (statistics.Statistics, error)
}

type GetStatisticsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
	Month         string `path:"month" doc:"Month number, 1 to 12"`
	Year          string `path:"year" doc:"Four digit year"`
}

// StatisticsBody holds the type totals followed by one total per category.
// Income-category income is counted in both income and incomeCategory.
type StatisticsBody struct {
	Income            string `json:"income"`
	Expenses          string `json:"expenses"`
	IncomeCategory    string `json:"incomeCategory"`
	MainExpenses      string `json:"mainExpenses"`
	Products          string `json:"products"`
	Car               string `json:"car"`
	SelfCare          string `json:"selfCare"`
	ChildCare         string `json:"childCare"`
	HouseholdProducts string `json:"householdProducts"`
	Education         string `json:"education"`
	Leisure           string `json:"leisure"`
	OtherExpenses     string `json:"otherExpenses"`
	Entertainment     string `json:"entertainment"`
}

type GetStatisticsOutput struct {
	Body StatisticsBody
}

// GetStatisticsHandler handles GET /v1/users/statistics/{month}/{year}.
type GetStatisticsHandler struct {
	Service statisticsGetter
}

func NewGetStatisticsHandler(svc statisticsGetter) *GetStatisticsHandler {
	return &GetStatisticsHandler{Service: svc}
}

func (h *GetStatisticsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-statistics",
		Method:      http.MethodGet,
		Path:        "/v1/users/statistics/{month}/{year}",
		Summary:     "Monthly statistics",
		Description: "Totals the caller's transactions dated in the given month by type and by category. An unparseable month or year yields zero totals.",
		Tags:        []string{"Statistics"},
		Security:    common.BearerSecurity,
	}, h.handle)
}

func (h *GetStatisticsHandler) handle(ctx context.Context, input *GetStatisticsInput) (*GetStatisticsOutput, error) {
	logData := logging.GetLogData(ctx)
	logData.AddData("period", input.Year+"-"+input.Month)
	endTimer := logData.AddTiming("statisticsMs")
	stats, err := h.Service.Statistics(ctx, common.BearerToken(input.Authorization), input.Month, input.Year)
	endTimer()
	if err != nil {
		return nil, common.ToHumaError(ctx, err)
	}
	return &GetStatisticsOutput{Body: fromStatistics(stats)}, nil
}

func fromStatistics(s statistics.Statistics) StatisticsBody {
	return StatisticsBody{
		Income:            s.Income.StringFixed(2),
		Expenses:          s.Expenses.StringFixed(2),
		IncomeCategory:    s.CategoryIncome.StringFixed(2),
		MainExpenses:      s.MainExpenses.StringFixed(2),
		Products:          s.Products.StringFixed(2),
		Car:               s.Car.StringFixed(2),
		SelfCare:          s.SelfCare.StringFixed(2),
		ChildCare:         s.ChildCare.StringFixed(2),
		HouseholdProducts: s.HouseholdProducts.StringFixed(2),
		Education:         s.Education.StringFixed(2),
		Leisure:           s.Leisure.StringFixed(2),
		OtherExpenses:     s.OtherExpenses.StringFixed(2),
		Entertainment:     s.Entertainment.StringFixed(2),
	}
}
