package domain

// TransactionRow is one raw aggregated transaction record as published
// in the quarterly data drops: counts and amounts per state, period and
// payment category.
type TransactionRow struct {
	State    string  `json:"state" csv:"State" validate:"required"`
	Year     int     `json:"year" csv:"Year" validate:"required,min=2000"`
	Quarter  int     `json:"quarter" csv:"Quarter" validate:"required,min=1,max=4"`
	Category string  `json:"category" csv:"Category" validate:"required"`
	Count    int64   `json:"count" csv:"Count" validate:"min=0"`
	Amount   float64 `json:"amount" csv:"Amount" validate:"min=0"`
}

// DeviceRow is one raw device-registration record: how many users
// registered from a given handset brand in a state and period, and the
// brand's share of app usage there.
type DeviceRow struct {
	State           string  `json:"state" csv:"State" validate:"required"`
	Year            int     `json:"year" csv:"Year" validate:"required,min=2000"`
	Quarter         int     `json:"quarter" csv:"Quarter" validate:"required,min=1,max=4"`
	Brand           string  `json:"brand" csv:"Brand" validate:"required"`
	RegisteredUsers int64   `json:"registered_users" csv:"RegisteredUsers" validate:"min=0"`
	PercentageUsage float64 `json:"percentage_usage" csv:"PercentageUsage" validate:"min=0,max=1"`
}

// InsuranceRow is one raw insurance record: policies sold and their
// total value per state and period.
type InsuranceRow struct {
	State       string  `json:"state" csv:"State" validate:"required"`
	Year        int     `json:"year" csv:"Year" validate:"required,min=2000"`
	Quarter     int     `json:"quarter" csv:"Quarter" validate:"required,min=1,max=4"`
	PolicyCount int64   `json:"policy_count" csv:"PolicyCount" validate:"min=0"`
	PolicyValue float64 `json:"policy_value" csv:"PolicyValue" validate:"min=0"`
}

// EngagementRow is one raw user-engagement record: registered users and
// app opens per state and period.
type EngagementRow struct {
	State           string `json:"state" csv:"State" validate:"required"`
	Year            int    `json:"year" csv:"Year" validate:"required,min=2000"`
	Quarter         int    `json:"quarter" csv:"Quarter" validate:"required,min=1,max=4"`
	RegisteredUsers int64  `json:"registered_users" csv:"RegisteredUsers" validate:"min=0"`
	AppOpens        int64  `json:"app_opens" csv:"AppOpens" validate:"min=0"`
}
