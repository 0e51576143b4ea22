package statistics

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/wallet-server/internal/apperr"
	"github.com/carson-networks/wallet-server/internal/session"
	"github.com/carson-networks/wallet-server/internal/statistics"
)

type mockStatisticsService struct {
	mock.Mock
}

func (m *mockStatisticsService) Statistics(ctx context.Context, accessToken, month, year string) (statistics.Statistics, error) {
	args := m.Called(ctx, accessToken, month, year)
	return args.Get(0).(statistics.Statistics), args.Error(1)
}

func newTestAPI(t *testing.T, svc statisticsGetter) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewGetStatisticsHandler(svc).Register(api)
	return api
}

func TestHTTP_GetStatistics_Success(t *testing.T) {
	stats := statistics.Zero()
	stats.Income = decimal.RequireFromString("100")
	stats.CategoryIncome = decimal.RequireFromString("100")
	stats.Expenses = decimal.RequireFromString("40")
	stats.Car = decimal.RequireFromString("40")

	svc := new(mockStatisticsService)
	svc.On("Statistics", mock.Anything, "a1", "1", "2024").Return(stats, nil)

	resp := newTestAPI(t, svc).Get("/v1/users/statistics/1/2024", "Authorization: Bearer a1")

	require.Equal(t, http.StatusOK, resp.Code)
	var body StatisticsBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "100.00", body.Income)
	assert.Equal(t, "100.00", body.IncomeCategory)
	assert.Equal(t, "40.00", body.Expenses)
	assert.Equal(t, "40.00", body.Car)
	assert.Equal(t, "0.00", body.Entertainment)
	svc.AssertExpectations(t)
}

func TestHTTP_GetStatistics_MalformedPeriodIsPassedThrough(t *testing.T) {
	svc := new(mockStatisticsService)
	svc.On("Statistics", mock.Anything, "a1", "13", "abc").Return(statistics.Zero(), nil)

	resp := newTestAPI(t, svc).Get("/v1/users/statistics/13/abc", "Authorization: Bearer a1")

	require.Equal(t, http.StatusOK, resp.Code)
	var raw map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	delete(raw, "$schema")
	assert.Len(t, raw, 13)
	for field, value := range raw {
		assert.Equal(t, "0.00", value, field)
	}
}

func TestHTTP_GetStatistics_Unauthorized(t *testing.T) {
	svc := new(mockStatisticsService)
	svc.On("Statistics", mock.Anything, "", "1", "2024").
		Return(statistics.Statistics{}, apperr.Unauthorized(session.ErrNotAuthorized))

	resp := newTestAPI(t, svc).Get("/v1/users/statistics/1/2024")

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
