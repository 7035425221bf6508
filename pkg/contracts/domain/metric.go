package domain

import (
	"fmt"
)

// MetricPoint is one pre-aggregated value of a metric series, identified
// by (EntityKey, Year, Quarter). The dataset layer guarantees at most one
// point per key combination.
type MetricPoint struct {
	EntityKey string  `json:"entity_key" csv:"Entity" validate:"required"`
	Year      int     `json:"year" csv:"Year" validate:"required,min=2000"`
	Quarter   int     `json:"quarter" csv:"Quarter" validate:"required,min=1,max=4"`
	Value     float64 `json:"value" csv:"Value" validate:"min=0"`
}

// Key returns the unique bucket key of the point.
func (p MetricPoint) Key() MetricKey {
	return MetricKey{EntityKey: p.EntityKey, Year: p.Year, Quarter: p.Quarter}
}

// MetricKey identifies one (entity, year, quarter) bucket.
type MetricKey struct {
	EntityKey string
	Year      int
	Quarter   int
}

// Previous returns the key of the immediately preceding quarter,
// rolling over from Q1 to Q4 of the prior year.
func (k MetricKey) Previous() MetricKey {
	if k.Quarter > 1 {
		return MetricKey{EntityKey: k.EntityKey, Year: k.Year, Quarter: k.Quarter - 1}
	}
	return MetricKey{EntityKey: k.EntityKey, Year: k.Year - 1, Quarter: 4}
}

// String formats the key as "entity/2024-Q1" for logs and error messages.
func (k MetricKey) String() string {
	return fmt.Sprintf("%s/%d-Q%d", k.EntityKey, k.Year, k.Quarter)
}

// GrowthRecord is the quarter-over-quarter growth of one MetricPoint.
// Pointer fields are nil when no point exists for the preceding quarter;
// PercentGrowth is additionally nil when the previous value is zero.
type GrowthRecord struct {
	EntityKey      string   `json:"entity_key" csv:"Entity"`
	Year           int      `json:"year" csv:"Year"`
	Quarter        int      `json:"quarter" csv:"Quarter"`
	Value          float64  `json:"value" csv:"Value"`
	PreviousValue  *float64 `json:"previous_value,omitempty" csv:"PreviousValue"`
	AbsoluteGrowth *float64 `json:"absolute_growth,omitempty" csv:"AbsoluteGrowth"`
	PercentGrowth  *float64 `json:"percent_growth,omitempty" csv:"PercentGrowth"`
}

// Key returns the bucket key of the record's current point.
func (r GrowthRecord) Key() MetricKey {
	return MetricKey{EntityKey: r.EntityKey, Year: r.Year, Quarter: r.Quarter}
}
