package exporter

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pulsecli/internal/analytics"
	"pulsecli/pkg/contracts/domain"
)

func sampleReports() *analytics.Reports {
	prev := 100.0
	abs := 50.0
	pct := 50.0
	return &analytics.Reports{
		Transactions: []domain.TransactionDynamic{
			{State: "kerala", Year: 2023, Quarter: 1, TotalCount: 150, TotalAmount: 6000},
		},
		Categories: []domain.CategoryTrend{
			{Category: "Recharge", Year: 2023, TotalAmount: 1500},
		},
		Devices: []domain.DeviceBrandStat{
			{Brand: "Xiaomi", TotalRegistered: 300, AvgPercentageUsage: 0.2},
		},
		Insurance: []domain.InsuranceStat{
			{State: "goa", Year: 2023, Quarter: 1, PoliciesSold: 150, TotalValue: 1400},
		},
		Engagement: []domain.EngagementStat{
			{State: "goa", Year: 2023, Quarter: 1, RegisteredUsers: 1000, AppOpens: 25000, OpensPerUser: 25},
		},
		Growth: []domain.GrowthRecord{
			{EntityKey: "kerala", Year: 2024, Quarter: 1, Value: 150, PreviousValue: &prev, AbsoluteGrowth: &abs, PercentGrowth: &pct},
			{EntityKey: "assam", Year: 2024, Quarter: 1, Value: 40},
		},
	}
}

func TestReportWriter_WriteReportsCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(slog.Default(), dir)

	err := writer.WriteReportsCSV(context.Background(), sampleReports())
	require.NoError(t, err)

	for _, name := range []string{
		ReportTransactions, ReportCategories, ReportDevices,
		ReportInsurance, ReportEngagement, ReportGrowth,
	} {
		_, err := os.Stat(filepath.Join(dir, name+".csv"))
		assert.NoError(t, err, "report %s should exist", name)
	}

	// The growth table renders absent values as empty cells.
	content, err := os.ReadFile(filepath.Join(dir, ReportGrowth+".csv"))
	require.NoError(t, err)

	text := strings.TrimPrefix(string(content), "\xef\xbb\xbf")
	reader := csv.NewReader(strings.NewReader(text))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, growthHeaders(), rows[0])
	assert.Equal(t, []string{"kerala", "2024", "1", "150.00", "100.00", "50.00", "50.00"}, rows[1])
	assert.Equal(t, []string{"assam", "2024", "1", "40.00", "", "", ""}, rows[2])
}

func TestReportWriter_WriteReportsExcel(t *testing.T) {
	dir := t.TempDir()
	writer := NewReportWriter(slog.Default(), dir)

	err := writer.WriteReportsExcel(context.Background(), sampleReports(), "pulse_insights.xlsx")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "pulse_insights.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{
		ReportTransactions, ReportCategories, ReportDevices,
		ReportInsurance, ReportEngagement, ReportGrowth,
	}, f.GetSheetList())

	rows, err := f.GetRows(ReportTransactions)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "kerala", rows[1][0])
	assert.Equal(t, "150", rows[1][3])
}

func TestCSVWriter_Append(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	require.NoError(t, writer.WriteSimpleCSV("out.csv",
		[]string{"a", "b"}, [][]string{{"1", "2"}}))
	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{
		Records: [][]string{{"3", "4"}},
		Append:  true,
	}))

	content, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(content))
}
