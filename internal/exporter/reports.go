package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"pulsecli/internal/analytics"
	"pulsecli/pkg/contracts/domain"
)

// Report file names written by WriteReportsCSV and used as sheet names
// by the Excel writer.
const (
	ReportTransactions = "transaction_dynamics"
	ReportCategories   = "category_trends"
	ReportDevices      = "device_dominance"
	ReportInsurance    = "insurance_penetration"
	ReportEngagement   = "user_engagement"
	ReportGrowth       = "market_expansion"
)

// ReportWriter renders computed report tables to files
type ReportWriter struct {
	logger *slog.Logger
	csv    *CSVWriter
}

// NewReportWriter creates a report writer rooted at outDir
func NewReportWriter(logger *slog.Logger, outDir string) *ReportWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportWriter{
		logger: logger.With(slog.String("component", "report_writer")),
		csv:    NewCSVWriter(outDir),
	}
}

// WriteReportsCSV writes one CSV file per report table
func (w *ReportWriter) WriteReportsCSV(ctx context.Context, reports *analytics.Reports) error {
	w.logger.InfoContext(ctx, "writing CSV reports")

	tables := []struct {
		name    string
		headers []string
		records [][]string
	}{
		{ReportTransactions, transactionHeaders(), transactionRecords(reports.Transactions)},
		{ReportCategories, categoryHeaders(), categoryRecords(reports.Categories)},
		{ReportDevices, deviceHeaders(), deviceRecords(reports.Devices)},
		{ReportInsurance, insuranceHeaders(), insuranceRecords(reports.Insurance)},
		{ReportEngagement, engagementHeaders(), engagementRecords(reports.Engagement)},
		{ReportGrowth, growthHeaders(), growthRecords(reports.Growth)},
	}

	for _, table := range tables {
		path := table.name + ".csv"
		if err := w.csv.WriteCSV(path, WriteOptions{
			Headers:   table.headers,
			Records:   table.records,
			BOMPrefix: true,
		}); err != nil {
			return fmt.Errorf("write report %s: %w", table.name, err)
		}
	}

	return nil
}

func transactionHeaders() []string {
	return []string{"State", "Year", "Quarter", "TotalCount", "TotalAmount"}
}

func transactionRecords(rows []domain.TransactionDynamic) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.State,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Quarter),
			strconv.FormatInt(r.TotalCount, 10),
			formatAmount(r.TotalAmount),
		})
	}
	return records
}

func categoryHeaders() []string {
	return []string{"Category", "Year", "TotalAmount"}
}

func categoryRecords(rows []domain.CategoryTrend) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Category,
			strconv.Itoa(r.Year),
			formatAmount(r.TotalAmount),
		})
	}
	return records
}

func deviceHeaders() []string {
	return []string{"Brand", "TotalRegisteredUsers", "AvgPercentageUsage"}
}

func deviceRecords(rows []domain.DeviceBrandStat) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Brand,
			strconv.FormatInt(r.TotalRegistered, 10),
			strconv.FormatFloat(r.AvgPercentageUsage, 'f', 4, 64),
		})
	}
	return records
}

func insuranceHeaders() []string {
	return []string{"State", "Year", "Quarter", "TotalPoliciesSold", "TotalValue"}
}

func insuranceRecords(rows []domain.InsuranceStat) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.State,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Quarter),
			strconv.FormatInt(r.PoliciesSold, 10),
			formatAmount(r.TotalValue),
		})
	}
	return records
}

func engagementHeaders() []string {
	return []string{"State", "Year", "Quarter", "TotalRegisteredUsers", "TotalAppOpens", "OpensPerUser"}
}

func engagementRecords(rows []domain.EngagementStat) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.State,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Quarter),
			strconv.FormatInt(r.RegisteredUsers, 10),
			strconv.FormatInt(r.AppOpens, 10),
			strconv.FormatFloat(r.OpensPerUser, 'f', 2, 64),
		})
	}
	return records
}

func growthHeaders() []string {
	return []string{"Entity", "Year", "Quarter", "Value", "PreviousValue", "AbsoluteGrowth", "PercentGrowth"}
}

func growthRecords(rows []domain.GrowthRecord) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.EntityKey,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Quarter),
			formatAmount(r.Value),
			formatOptional(r.PreviousValue),
			formatOptional(r.AbsoluteGrowth),
			formatOptional(r.PercentGrowth),
		})
	}
	return records
}

// formatAmount renders monetary and count values with two decimals
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// formatOptional renders absent values as an empty cell
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatAmount(*v)
}
