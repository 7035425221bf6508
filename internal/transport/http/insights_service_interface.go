package http

import (
	"context"

	"pulsecli/internal/analytics"
	"pulsecli/internal/services"
	"pulsecli/pkg/contracts/domain"
)

// InsightsServiceInterface defines the contract the insights handler
// depends on, enabling mocking in tests
type InsightsServiceInterface interface {
	TransactionDynamics(ctx context.Context) ([]domain.TransactionDynamic, error)
	CategoryTrends(ctx context.Context) ([]domain.CategoryTrend, error)
	DeviceDominance(ctx context.Context) ([]domain.DeviceBrandStat, error)
	InsurancePenetration(ctx context.Context) ([]domain.InsuranceStat, error)
	UserEngagement(ctx context.Context) ([]domain.EngagementStat, error)
	MarketExpansion(ctx context.Context, filter services.GrowthFilter) ([]domain.GrowthRecord, error)
	AllReports(ctx context.Context) (*analytics.Reports, error)
	Refresh(ctx context.Context)
}
