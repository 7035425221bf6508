package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pulsecli/internal/analytics"
	apierrors "pulsecli/internal/errors"
	"pulsecli/internal/services"
	"pulsecli/pkg/contracts/domain"
)

// mockInsightsService implements InsightsServiceInterface for tests
type mockInsightsService struct {
	mock.Mock
}

func (m *mockInsightsService) TransactionDynamics(ctx context.Context) ([]domain.TransactionDynamic, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.TransactionDynamic), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) CategoryTrends(ctx context.Context) ([]domain.CategoryTrend, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.CategoryTrend), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) DeviceDominance(ctx context.Context) ([]domain.DeviceBrandStat, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.DeviceBrandStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) InsurancePenetration(ctx context.Context) ([]domain.InsuranceStat, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.InsuranceStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) UserEngagement(ctx context.Context) ([]domain.EngagementStat, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]domain.EngagementStat), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) MarketExpansion(ctx context.Context, filter services.GrowthFilter) ([]domain.GrowthRecord, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]domain.GrowthRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) AllReports(ctx context.Context) (*analytics.Reports, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*analytics.Reports), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightsService) Refresh(ctx context.Context) {
	m.Called(ctx)
}

func newTestHandler(service InsightsServiceInterface) *InsightsHandler {
	logger := slog.Default()
	return NewInsightsHandler(service, logger, apierrors.NewErrorHandler(logger))
}

func TestInsightsHandler_GetTransactionDynamics(t *testing.T) {
	service := new(mockInsightsService)
	service.On("TransactionDynamics", mock.Anything).Return([]domain.TransactionDynamic{
		{State: "kerala", Year: 2023, Quarter: 1, TotalCount: 150, TotalAmount: 6000},
	}, nil)

	handler := newTestHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.TransactionDynamic
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "kerala", rows[0].State)
	service.AssertExpectations(t)
}

func TestInsightsHandler_GetMarketExpansion(t *testing.T) {
	pct := 50.0

	tests := []struct {
		name       string
		target     string
		wantFilter *services.GrowthFilter
		wantStatus int
	}{
		{
			name:       "no filter",
			target:     "/growth",
			wantFilter: &services.GrowthFilter{},
			wantStatus: http.StatusOK,
		},
		{
			name:       "state and period filter",
			target:     "/growth?state=kerala&year=2024&quarter=1",
			wantFilter: &services.GrowthFilter{State: "kerala", Year: 2024, Quarter: 1},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid year",
			target:     "/growth?year=abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "quarter out of range",
			target:     "/growth?quarter=9",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mockInsightsService)
			if tt.wantFilter != nil {
				service.On("MarketExpansion", mock.Anything, *tt.wantFilter).Return([]domain.GrowthRecord{
					{EntityKey: "kerala", Year: 2024, Quarter: 1, Value: 150, PercentGrowth: &pct},
				}, nil)
			}

			handler := newTestHandler(service)
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			rec := httptest.NewRecorder()
			handler.Routes().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestInsightsHandler_ServiceError(t *testing.T) {
	service := new(mockInsightsService)
	service.On("DeviceDominance", mock.Anything).Return(nil,
		apierrors.NewDatasetError("failed to open dataset file", nil))

	handler := newTestHandler(service)
	req := httptest.NewRequest(http.MethodGet, "/devices", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "DATASET_ERROR", resp.Error.ErrorCode)
}

func TestInsightsHandler_Refresh(t *testing.T) {
	service := new(mockInsightsService)
	service.On("Refresh", mock.Anything).Return()

	handler := newTestHandler(service)
	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	service.AssertExpectations(t)
}
