package services

import (
	"context"
	"log/slog"
	"sync"

	"pulsecli/internal/analytics"
	"pulsecli/internal/config"
	"pulsecli/internal/dataset"
	"pulsecli/internal/errors"
	"pulsecli/internal/growth"
	"pulsecli/pkg/contracts/domain"
)

// InsightsService computes report tables over the configured dataset.
// The dataset is loaded lazily on first use and cached; Refresh drops
// the cache so the next request re-reads the files.
type InsightsService struct {
	cfg        *config.Config
	logger     *slog.Logger
	loader     *dataset.Loader
	aggregator *analytics.Aggregator

	mu sync.RWMutex
	ds *dataset.Dataset
}

// NewInsightsService creates a new insights service
func NewInsightsService(cfg *config.Config, logger *slog.Logger) *InsightsService {
	if logger == nil {
		logger = slog.Default()
	}
	analyzer := growth.NewAnalyzer(logger, growth.DefaultAnalyzerConfig())
	return &InsightsService{
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "insights_service")),
		loader:     dataset.NewLoader(logger),
		aggregator: analytics.NewAggregator(logger, analyzer),
	}
}

// data returns the cached dataset, loading it on first use
func (s *InsightsService) data(ctx context.Context) (*dataset.Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds != nil {
		return s.ds, nil
	}

	ds, err := s.loader.LoadAll(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	s.ds = ds
	return ds, nil
}

// Refresh drops the cached dataset so the next request reloads it
func (s *InsightsService) Refresh(ctx context.Context) {
	s.mu.Lock()
	s.ds = nil
	s.mu.Unlock()
	s.logger.InfoContext(ctx, "dataset cache invalidated")
}

// TransactionDynamics returns total transaction count and amount per
// state and period
func (s *InsightsService) TransactionDynamics(ctx context.Context) ([]domain.TransactionDynamic, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.TransactionDynamics(ctx, ds.Transactions), nil
}

// CategoryTrends returns total transaction amount per category and year
func (s *InsightsService) CategoryTrends(ctx context.Context) ([]domain.CategoryTrend, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.CategoryTrends(ctx, ds.Transactions), nil
}

// DeviceDominance returns per-brand registration and usage statistics
func (s *InsightsService) DeviceDominance(ctx context.Context) ([]domain.DeviceBrandStat, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.DeviceDominance(ctx, ds.Devices), nil
}

// InsurancePenetration returns per-state insurance statistics
func (s *InsightsService) InsurancePenetration(ctx context.Context) ([]domain.InsuranceStat, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.InsurancePenetration(ctx, ds.Insurance), nil
}

// UserEngagement returns per-state engagement statistics
func (s *InsightsService) UserEngagement(ctx context.Context) ([]domain.EngagementStat, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.UserEngagement(ctx, ds.Engagement), nil
}

// GrowthFilter narrows the market-expansion report. Zero values mean
// no filtering on that dimension.
type GrowthFilter struct {
	State   string
	Year    int
	Quarter int
}

// MarketExpansion returns the quarter-over-quarter growth table,
// optionally filtered by state and period. Filtering happens after the
// growth computation so previous-quarter lookups still see the full
// series.
func (s *InsightsService) MarketExpansion(ctx context.Context, filter GrowthFilter) ([]domain.GrowthRecord, error) {
	if filter.Quarter < 0 || filter.Quarter > 4 {
		return nil, errors.NewAppValidationError("quarter filter must be between 1 and 4")
	}

	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.aggregator.MarketExpansion(ctx, ds.Transactions)
	if err != nil {
		return nil, err
	}

	if filter == (GrowthFilter{}) {
		return records, nil
	}

	filtered := make([]domain.GrowthRecord, 0, len(records))
	for _, r := range records {
		if filter.State != "" && r.EntityKey != filter.State {
			continue
		}
		if filter.Year != 0 && r.Year != filter.Year {
			continue
		}
		if filter.Quarter != 0 && r.Quarter != filter.Quarter {
			continue
		}
		filtered = append(filtered, r)
	}

	return filtered, nil
}

// AllReports computes every report table in one pass
func (s *InsightsService) AllReports(ctx context.Context) (*analytics.Reports, error) {
	ds, err := s.data(ctx)
	if err != nil {
		return nil, err
	}
	return s.aggregator.ComputeAll(ctx, ds)
}
