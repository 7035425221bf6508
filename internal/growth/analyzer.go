package growth

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"pulsecli/pkg/contracts/domain"
)

// Analyzer computes quarter-over-quarter growth for a time-bucketed
// metric series. It is stateless apart from its configuration, so a
// single instance may be shared by concurrent callers.
type Analyzer struct {
	logger           *slog.Logger
	percentPrecision int
}

// AnalyzerConfig holds configuration options for the Analyzer.
type AnalyzerConfig struct {
	PercentPrecision int // Decimal places for percent growth values
}

// DefaultAnalyzerConfig returns the configuration used by the reports:
// percentages rounded to two decimal places.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{PercentPrecision: 2}
}

// NewAnalyzer creates a new growth analyzer with the given configuration.
func NewAnalyzer(logger *slog.Logger, config AnalyzerConfig) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.PercentPrecision <= 0 {
		config.PercentPrecision = 2
	}
	return &Analyzer{
		logger:           logger,
		percentPrecision: config.PercentPrecision,
	}
}

// Analyze computes one GrowthRecord per input point, comparing each
// bucket against the immediately preceding quarter of the same entity.
// The previous bucket of (year, quarter) is (year, quarter-1) for
// quarters 2..4 and (year-1, 4) for quarter 1; no other bucket
// qualifies, so a gap in the series yields an absent previous value
// rather than the nearest earlier one.
//
// Records are returned sorted by percent growth descending with absent
// percentages last, preserving input order among ties.
func (a *Analyzer) Analyze(ctx context.Context, points []domain.MetricPoint) ([]domain.GrowthRecord, error) {
	a.logger.InfoContext(ctx, "analyzing period growth",
		slog.Int("point_count", len(points)))

	if len(points) == 0 {
		return []domain.GrowthRecord{}, nil
	}

	values := make(map[domain.MetricKey]float64, len(points))
	for _, p := range points {
		key := p.Key()
		if p.Quarter < 1 || p.Quarter > 4 {
			return nil, &InvalidQuarterError{Key: key, Quarter: p.Quarter}
		}
		if _, exists := values[key]; exists {
			return nil, &DuplicateKeyError{Key: key}
		}
		values[key] = p.Value
	}

	records := make([]domain.GrowthRecord, 0, len(points))
	for _, p := range points {
		record := domain.GrowthRecord{
			EntityKey: p.EntityKey,
			Year:      p.Year,
			Quarter:   p.Quarter,
			Value:     p.Value,
		}

		if prev, ok := values[p.Key().Previous()]; ok {
			absolute := p.Value - prev
			record.PreviousValue = &prev
			record.AbsoluteGrowth = &absolute
			// A zero baseline has no meaningful percentage; leave it absent.
			if prev != 0 {
				percent := a.round(absolute * 100 / prev)
				record.PercentGrowth = &percent
			}
		}

		records = append(records, record)
	}

	// Percent descending, absent values last, input order among ties.
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].PercentGrowth, records[j].PercentGrowth
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi > *pj
		}
	})

	a.logger.InfoContext(ctx, "period growth analysis complete",
		slog.Int("record_count", len(records)))

	return records, nil
}

// round rounds v to the analyzer's configured precision.
func (a *Analyzer) round(v float64) float64 {
	factor := math.Pow(10, float64(a.percentPrecision))
	return math.Round(v*factor) / factor
}
