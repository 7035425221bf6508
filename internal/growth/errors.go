package growth

import (
	"fmt"

	"pulsecli/pkg/contracts/domain"
)

// DuplicateKeyError reports two input points sharing the same
// (entity, year, quarter) bucket. The upstream aggregation is expected
// to have reduced the series to unique keys, so this is a precondition
// failure, not a transient condition.
type DuplicateKeyError struct {
	Key domain.MetricKey
}

// Error implements the error interface
func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate metric point for bucket %s", e.Key)
}

// InvalidQuarterError reports a point whose quarter lies outside 1..4.
type InvalidQuarterError struct {
	Key     domain.MetricKey
	Quarter int
}

// Error implements the error interface
func (e *InvalidQuarterError) Error() string {
	return fmt.Sprintf("invalid quarter %d for entity %q (year %d): must be between 1 and 4",
		e.Quarter, e.Key.EntityKey, e.Key.Year)
}
