package analytics

import (
	"context"
	"log/slog"
	"sort"

	"pulsecli/internal/dataset"
	"pulsecli/internal/growth"
	"pulsecli/pkg/contracts/domain"
)

// Aggregator computes the report tables from a loaded dataset. Each
// method is a pure aggregation; the Aggregator itself carries no state
// beyond its collaborators and may be shared by concurrent callers.
type Aggregator struct {
	logger   *slog.Logger
	analyzer *growth.Analyzer
}

// NewAggregator creates a new report aggregator
func NewAggregator(logger *slog.Logger, analyzer *growth.Analyzer) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if analyzer == nil {
		analyzer = growth.NewAnalyzer(logger, growth.DefaultAnalyzerConfig())
	}
	return &Aggregator{
		logger:   logger.With(slog.String("component", "aggregator")),
		analyzer: analyzer,
	}
}

// TransactionDynamics computes total transaction count and amount per
// (state, year, quarter), summing across payment categories. Output is
// sorted by state, then year, then quarter.
func (a *Aggregator) TransactionDynamics(ctx context.Context, rows []domain.TransactionRow) []domain.TransactionDynamic {
	type key struct {
		state   string
		year    int
		quarter int
	}

	totals := make(map[key]*domain.TransactionDynamic)
	for _, row := range rows {
		k := key{row.State, row.Year, row.Quarter}
		entry, ok := totals[k]
		if !ok {
			entry = &domain.TransactionDynamic{
				State:   row.State,
				Year:    row.Year,
				Quarter: row.Quarter,
			}
			totals[k] = entry
		}
		entry.TotalCount += row.Count
		entry.TotalAmount += row.Amount
	}

	result := make([]domain.TransactionDynamic, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].State != result[j].State {
			return result[i].State < result[j].State
		}
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Quarter < result[j].Quarter
	})

	a.logger.DebugContext(ctx, "computed transaction dynamics",
		slog.Int("row_count", len(result)))

	return result
}

// CategoryTrends computes total transaction amount per payment category
// and year, sorted by category then year.
func (a *Aggregator) CategoryTrends(ctx context.Context, rows []domain.TransactionRow) []domain.CategoryTrend {
	type key struct {
		category string
		year     int
	}

	totals := make(map[key]float64)
	for _, row := range rows {
		totals[key{row.Category, row.Year}] += row.Amount
	}

	result := make([]domain.CategoryTrend, 0, len(totals))
	for k, amount := range totals {
		result = append(result, domain.CategoryTrend{
			Category:    k.category,
			Year:        k.year,
			TotalAmount: amount,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Year < result[j].Year
	})

	a.logger.DebugContext(ctx, "computed category trends",
		slog.Int("row_count", len(result)))

	return result
}

// DeviceDominance computes total registered users and the average
// usage share per handset brand across all states and periods, sorted
// by registered users descending.
func (a *Aggregator) DeviceDominance(ctx context.Context, rows []domain.DeviceRow) []domain.DeviceBrandStat {
	type acc struct {
		users    int64
		usageSum float64
		samples  int
	}

	brands := make(map[string]*acc)
	for _, row := range rows {
		entry, ok := brands[row.Brand]
		if !ok {
			entry = &acc{}
			brands[row.Brand] = entry
		}
		entry.users += row.RegisteredUsers
		entry.usageSum += row.PercentageUsage
		entry.samples++
	}

	result := make([]domain.DeviceBrandStat, 0, len(brands))
	for brand, entry := range brands {
		result = append(result, domain.DeviceBrandStat{
			Brand:              brand,
			TotalRegistered:    entry.users,
			AvgPercentageUsage: entry.usageSum / float64(entry.samples),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].TotalRegistered != result[j].TotalRegistered {
			return result[i].TotalRegistered > result[j].TotalRegistered
		}
		return result[i].Brand < result[j].Brand
	})

	a.logger.DebugContext(ctx, "computed device dominance",
		slog.Int("brand_count", len(result)))

	return result
}

// InsurancePenetration computes policies sold and their total value
// per (state, year, quarter), sorted by state, year, quarter.
func (a *Aggregator) InsurancePenetration(ctx context.Context, rows []domain.InsuranceRow) []domain.InsuranceStat {
	type key struct {
		state   string
		year    int
		quarter int
	}

	totals := make(map[key]*domain.InsuranceStat)
	for _, row := range rows {
		k := key{row.State, row.Year, row.Quarter}
		entry, ok := totals[k]
		if !ok {
			entry = &domain.InsuranceStat{
				State:   row.State,
				Year:    row.Year,
				Quarter: row.Quarter,
			}
			totals[k] = entry
		}
		entry.PoliciesSold += row.PolicyCount
		entry.TotalValue += row.PolicyValue
	}

	result := make([]domain.InsuranceStat, 0, len(totals))
	for _, entry := range totals {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].State != result[j].State {
			return result[i].State < result[j].State
		}
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Quarter < result[j].Quarter
	})

	a.logger.DebugContext(ctx, "computed insurance penetration",
		slog.Int("row_count", len(result)))

	return result
}

// UserEngagement computes registered users, app opens and the
// opens-per-user ratio per (state, year, quarter), sorted by state,
// year, quarter. The ratio is zero when no users are registered.
func (a *Aggregator) UserEngagement(ctx context.Context, rows []domain.EngagementRow) []domain.EngagementStat {
	type key struct {
		state   string
		year    int
		quarter int
	}

	totals := make(map[key]*domain.EngagementStat)
	for _, row := range rows {
		k := key{row.State, row.Year, row.Quarter}
		entry, ok := totals[k]
		if !ok {
			entry = &domain.EngagementStat{
				State:   row.State,
				Year:    row.Year,
				Quarter: row.Quarter,
			}
			totals[k] = entry
		}
		entry.RegisteredUsers += row.RegisteredUsers
		entry.AppOpens += row.AppOpens
	}

	result := make([]domain.EngagementStat, 0, len(totals))
	for _, entry := range totals {
		if entry.RegisteredUsers > 0 {
			entry.OpensPerUser = float64(entry.AppOpens) / float64(entry.RegisteredUsers)
		}
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].State != result[j].State {
			return result[i].State < result[j].State
		}
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Quarter < result[j].Quarter
	})

	a.logger.DebugContext(ctx, "computed user engagement",
		slog.Int("row_count", len(result)))

	return result
}

// MarketExpansion builds the quarterly transaction-count series per
// state and runs the growth analyzer over it, producing one record per
// (state, year, quarter) ordered by percent growth descending.
func (a *Aggregator) MarketExpansion(ctx context.Context, rows []domain.TransactionRow) ([]domain.GrowthRecord, error) {
	dynamics := a.TransactionDynamics(ctx, rows)

	points := make([]domain.MetricPoint, 0, len(dynamics))
	for _, d := range dynamics {
		points = append(points, domain.MetricPoint{
			EntityKey: d.State,
			Year:      d.Year,
			Quarter:   d.Quarter,
			Value:     float64(d.TotalCount),
		})
	}

	return a.analyzer.Analyze(ctx, points)
}

// Reports bundles every report table computed from one dataset.
type Reports struct {
	Transactions []domain.TransactionDynamic `json:"transactions"`
	Categories   []domain.CategoryTrend      `json:"categories"`
	Devices      []domain.DeviceBrandStat    `json:"devices"`
	Insurance    []domain.InsuranceStat      `json:"insurance"`
	Engagement   []domain.EngagementStat     `json:"engagement"`
	Growth       []domain.GrowthRecord       `json:"growth"`
}

// ComputeAll runs every report over the dataset.
func (a *Aggregator) ComputeAll(ctx context.Context, ds *dataset.Dataset) (*Reports, error) {
	a.logger.InfoContext(ctx, "computing all reports",
		slog.Int("transaction_rows", len(ds.Transactions)),
		slog.Int("device_rows", len(ds.Devices)),
		slog.Int("insurance_rows", len(ds.Insurance)),
		slog.Int("engagement_rows", len(ds.Engagement)))

	growthRecords, err := a.MarketExpansion(ctx, ds.Transactions)
	if err != nil {
		return nil, err
	}

	return &Reports{
		Transactions: a.TransactionDynamics(ctx, ds.Transactions),
		Categories:   a.CategoryTrends(ctx, ds.Transactions),
		Devices:      a.DeviceDominance(ctx, ds.Devices),
		Insurance:    a.InsurancePenetration(ctx, ds.Insurance),
		Engagement:   a.UserEngagement(ctx, ds.Engagement),
		Growth:       growthRecords,
	}, nil
}
