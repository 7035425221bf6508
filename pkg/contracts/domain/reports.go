package domain

// TransactionDynamic is one row of the transaction-dynamics report:
// total transaction count and amount per state and period.
type TransactionDynamic struct {
	State       string  `json:"state" csv:"State"`
	Year        int     `json:"year" csv:"Year"`
	Quarter     int     `json:"quarter" csv:"Quarter"`
	TotalCount  int64   `json:"total_count" csv:"TotalCount"`
	TotalAmount float64 `json:"total_amount" csv:"TotalAmount"`
}

// CategoryTrend is one row of the category-trends report: total
// transaction amount per payment category and year.
type CategoryTrend struct {
	Category    string  `json:"category" csv:"Category"`
	Year        int     `json:"year" csv:"Year"`
	TotalAmount float64 `json:"total_amount" csv:"TotalAmount"`
}

// DeviceBrandStat is one row of the device-dominance report: total
// registered users per handset brand across all states and periods,
// with the brand's average usage share.
type DeviceBrandStat struct {
	Brand              string  `json:"brand" csv:"Brand"`
	TotalRegistered    int64   `json:"total_registered_users" csv:"TotalRegisteredUsers"`
	AvgPercentageUsage float64 `json:"avg_percentage_usage" csv:"AvgPercentageUsage"`
}

// InsuranceStat is one row of the insurance-penetration report:
// policies sold and their value per state and period.
type InsuranceStat struct {
	State         string  `json:"state" csv:"State"`
	Year          int     `json:"year" csv:"Year"`
	Quarter       int     `json:"quarter" csv:"Quarter"`
	PoliciesSold  int64   `json:"total_policies_sold" csv:"TotalPoliciesSold"`
	TotalValue    float64 `json:"total_value" csv:"TotalValue"`
}

// EngagementStat is one row of the user-engagement report: registered
// users, app opens and the opens-per-user ratio per state and period.
// OpensPerUser is zero when no users are registered.
type EngagementStat struct {
	State           string  `json:"state" csv:"State"`
	Year            int     `json:"year" csv:"Year"`
	Quarter         int     `json:"quarter" csv:"Quarter"`
	RegisteredUsers int64   `json:"total_registered_users" csv:"TotalRegisteredUsers"`
	AppOpens        int64   `json:"total_app_opens" csv:"TotalAppOpens"`
	OpensPerUser    float64 `json:"opens_per_user" csv:"OpensPerUser"`
}
