package dataset

import (
	"pulsecli/pkg/contracts/domain"
)

// Dataset holds the raw aggregated tables the reports are computed
// from. All slices are in file order; the analytics layer does its own
// grouping and sorting.
type Dataset struct {
	Transactions []domain.TransactionRow
	Devices      []domain.DeviceRow
	Insurance    []domain.InsuranceRow
	Engagement   []domain.EngagementRow
}

// IsEmpty reports whether no table contains any rows
func (d *Dataset) IsEmpty() bool {
	return len(d.Transactions) == 0 &&
		len(d.Devices) == 0 &&
		len(d.Insurance) == 0 &&
		len(d.Engagement) == 0
}
